package repository

import (
	"context"
	"fmt"

	"github.com/herolabs/hokhub/internal/store"
)

// FeedbackRepository handles feedback data access.
type FeedbackRepository struct {
	db *store.Database
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *store.Database) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts a feedback record.
func (r *FeedbackRepository) Create(ctx context.Context, f *store.Feedback) (*store.Feedback, error) {
	query := `
		INSERT INTO feedback (name, category, message, user_agent)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.DB().QueryRowContext(ctx, query, f.Name, f.Category, f.Message, f.UserAgent).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting feedback: %w", err)
	}

	return f, nil
}

// ListRecent returns the newest feedback entries.
func (r *FeedbackRepository) ListRecent(ctx context.Context, limit int) ([]*store.Feedback, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, COALESCE(name, ''), category, message, COALESCE(user_agent, ''), created_at
		FROM feedback
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var list []*store.Feedback
	for rows.Next() {
		f := &store.Feedback{}
		if err := rows.Scan(&f.ID, &f.Name, &f.Category, &f.Message, &f.UserAgent, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		list = append(list, f)
	}

	return list, rows.Err()
}
