package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/herolabs/hokhub/internal/store"
	"github.com/herolabs/hokhub/internal/store/repository"
)

// CommunityService handles contributor-facing business logic around the
// relational store: leaderboard and feedback. It also implements the
// pipeline's Credits hook.
type CommunityService struct {
	contributors *repository.ContributorRepository
	feedback     *repository.FeedbackRepository
}

// NewCommunityService creates a community service.
func NewCommunityService(db *store.Database) *CommunityService {
	return &CommunityService{
		contributors: repository.NewContributorRepository(db),
		feedback:     repository.NewFeedbackRepository(db),
	}
}

// Contributors exposes the account repository for auth wiring.
func (s *CommunityService) Contributors() *repository.ContributorRepository {
	return s.contributors
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	TotalContributions int    `json:"totalContributions"`
	TotalTierLists     int    `json:"totalTierLists"`
	TotalVotes         int    `json:"totalVotes"`
	Score              int    `json:"score"`
}

// Leaderboard returns contributors ranked by score. Emails stay out of
// the response.
func (s *CommunityService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	contributors, err := s.contributors.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(contributors))
	for _, c := range contributors {
		entries = append(entries, LeaderboardEntry{
			ID:                 c.ID,
			Name:               c.Name,
			TotalContributions: c.TotalContributions,
			TotalTierLists:     c.TotalTierLists,
			TotalVotes:         c.TotalVotes,
			Score:              c.Score(),
		})
	}
	return entries, nil
}

// SubmitFeedback validates and stores one feedback record.
func (s *CommunityService) SubmitFeedback(ctx context.Context, f *store.Feedback) (*store.Feedback, error) {
	if strings.TrimSpace(f.Message) == "" {
		return nil, fmt.Errorf("feedback message is required")
	}
	if f.Category == "" {
		f.Category = "general"
	}
	return s.feedback.Create(ctx, f)
}

// CreditContribution bumps the approved-work counter for a submitter.
// Satisfies the contribution pipeline's Credits interface.
func (s *CommunityService) CreditContribution(ctx context.Context, submitterID string) error {
	id, err := strconv.Atoi(submitterID)
	if err != nil {
		return fmt.Errorf("bad submitter id %q: %w", submitterID, err)
	}
	return s.contributors.IncrementContributions(ctx, id)
}
