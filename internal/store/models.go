package store

import (
	"time"
)

// Contributor is a registered community member.
type Contributor struct {
	ID                 int       `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Email              string    `json:"email" db:"email"`
	PasswordHash       string    `json:"-" db:"password_hash"`
	TotalContributions int       `json:"totalContributions" db:"total_contributions"`
	TotalTierLists     int       `json:"totalTierLists" db:"total_tier_lists"`
	TotalVotes         int       `json:"totalVotes" db:"total_votes"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
}

// Score is the leaderboard ranking value.
func (c *Contributor) Score() int {
	return c.TotalContributions*5 + c.TotalTierLists*10 + c.TotalVotes
}

// Feedback is one site feedback record.
type Feedback struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name,omitempty" db:"name"`
	Category  string    `json:"category" db:"category"`
	Message   string    `json:"message" db:"message"`
	UserAgent string    `json:"userAgent,omitempty" db:"user_agent"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
