package jobs

import (
	"context"
	"time"
)

// JobType enumerates the supported job variants.
type JobType string

const (
	// JobTypeFull scrapes every source and rebuilds the dataset.
	JobTypeFull JobType = "full"

	// JobTypeStats refreshes analytics only, keeping identity and skins.
	JobTypeStats JobType = "stats"
)

// JobStatus represents the lifecycle state for a job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job models one reconcile run.
type Job struct {
	JobID         string     `json:"job_id"`
	JobType       JobType    `json:"job_type"`
	Status        JobStatus  `json:"status"`
	StatusMessage string     `json:"status_message,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	HeroCount     int        `json:"hero_count,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Copy returns a shallow copy to prevent external mutation.
func (j *Job) Copy() *Job {
	if j == nil {
		return nil
	}
	cpy := *j
	return &cpy
}

// Result is what a runner reports back on success.
type Result struct {
	HeroCount int
}

// Runner executes the actual scrape-and-reconcile work.
type Runner interface {
	Run(ctx context.Context, jobType JobType) (*Result, error)
}

// StatusSummary is returned to API callers.
type StatusSummary struct {
	ActiveJob *Job   `json:"active_job,omitempty"`
	History   []*Job `json:"recent_jobs,omitempty"`
}
