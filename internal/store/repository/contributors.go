package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/herolabs/hokhub/internal/store"
)

// ContributorRepository handles contributor account data access.
type ContributorRepository struct {
	db *store.Database
}

// NewContributorRepository creates a new contributor repository.
func NewContributorRepository(db *store.Database) *ContributorRepository {
	return &ContributorRepository{db: db}
}

// Create inserts a new contributor and returns the stored row.
func (r *ContributorRepository) Create(ctx context.Context, name, email, passwordHash string) (*store.Contributor, error) {
	query := `
		INSERT INTO contributors (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, password_hash, total_contributions, total_tier_lists, total_votes, created_at
	`

	c := &store.Contributor{}
	err := r.db.DB().QueryRowContext(ctx, query, name, email, passwordHash).Scan(
		&c.ID, &c.Name, &c.Email, &c.PasswordHash,
		&c.TotalContributions, &c.TotalTierLists, &c.TotalVotes, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting contributor: %w", err)
	}

	return c, nil
}

// GetByEmail finds a contributor by email. Returns nil when no account
// exists.
func (r *ContributorRepository) GetByEmail(ctx context.Context, email string) (*store.Contributor, error) {
	query := `
		SELECT id, name, email, password_hash, total_contributions, total_tier_lists, total_votes, created_at
		FROM contributors
		WHERE email = $1
	`

	c := &store.Contributor{}
	err := r.db.DB().QueryRowContext(ctx, query, email).Scan(
		&c.ID, &c.Name, &c.Email, &c.PasswordHash,
		&c.TotalContributions, &c.TotalTierLists, &c.TotalVotes, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying contributor: %w", err)
	}

	return c, nil
}

// GetByID finds a contributor by id.
func (r *ContributorRepository) GetByID(ctx context.Context, id int) (*store.Contributor, error) {
	query := `
		SELECT id, name, email, password_hash, total_contributions, total_tier_lists, total_votes, created_at
		FROM contributors
		WHERE id = $1
	`

	c := &store.Contributor{}
	err := r.db.DB().QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.PasswordHash,
		&c.TotalContributions, &c.TotalTierLists, &c.TotalVotes, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("contributor not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying contributor: %w", err)
	}

	return c, nil
}

// Leaderboard returns contributors ranked by score
// (contributions*5 + tier lists*10 + votes).
func (r *ContributorRepository) Leaderboard(ctx context.Context, limit int) ([]*store.Contributor, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, name, email, password_hash, total_contributions, total_tier_lists, total_votes, created_at
		FROM contributors
		ORDER BY (total_contributions * 5 + total_tier_lists * 10 + total_votes) DESC
		LIMIT $1
	`

	rows, err := r.db.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	var contributors []*store.Contributor
	for rows.Next() {
		c := &store.Contributor{}
		err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.PasswordHash,
			&c.TotalContributions, &c.TotalTierLists, &c.TotalVotes, &c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning contributor: %w", err)
		}
		contributors = append(contributors, c)
	}

	return contributors, rows.Err()
}

// IncrementContributions bumps a contributor's approved-work counter.
func (r *ContributorRepository) IncrementContributions(ctx context.Context, id int) error {
	query := `UPDATE contributors SET total_contributions = total_contributions + 1 WHERE id = $1`
	result, err := r.db.DB().ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("incrementing contributions: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("contributor not found: %d", id)
	}
	return nil
}
