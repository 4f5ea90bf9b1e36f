package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Service coordinates reconcile job execution and status reporting.
// Jobs run one at a time; state is kept in memory, since a reconcile
// run is cheap to redo after a restart.
type Service struct {
	runner Runner

	historyLimit int

	mu      sync.Mutex
	active  *Job
	history []*Job
	queue   chan *Job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewService constructs a Service. Call Start to launch the worker.
func NewService(runner Runner, logger *log.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	if logger == nil {
		logger = log.New(log.Writer(), "[jobs] ", log.LstdFlags)
	}

	return &Service{
		runner:       runner,
		historyLimit: 10,
		queue:        make(chan *Job, 1),
		ctx:          ctx,
		cancel:       cancel,
		logger:       logger,
	}
}

// Start launches the background worker loop.
func (s *Service) Start() {
	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops the worker and waits for the running job to finish.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Enqueue creates a new job. Only one job may be queued or running at a
// time.
func (s *Service) Enqueue(jobType JobType) (*Job, error) {
	switch jobType {
	case JobTypeFull, JobTypeStats:
	case "":
		jobType = JobTypeFull
	default:
		return nil, fmt.Errorf("unknown job type %q", jobType)
	}

	job := &Job{
		JobID:         fmt.Sprintf("reconcile-%d", time.Now().UnixMilli()),
		JobType:       jobType,
		Status:        JobStatusQueued,
		StatusMessage: "Queued",
		CreatedAt:     time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return nil, fmt.Errorf("job %s is already %s", s.active.JobID, s.active.Status)
	}

	select {
	case s.queue <- job:
		s.active = job
		return job.Copy(), nil
	default:
		return nil, fmt.Errorf("job queue is full")
	}
}

// GetStatus returns the currently running job plus recent history.
func (s *Service) GetStatus() *StatusSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := &StatusSummary{ActiveJob: s.active.Copy()}
	for _, j := range s.history {
		summary.History = append(summary.History, j.Copy())
	}
	return summary
}

func (s *Service) worker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case job := <-s.queue:
			s.executeJob(job)
		}
	}
}

func (s *Service) executeJob(job *Job) {
	now := time.Now().UTC()

	s.mu.Lock()
	job.Status = JobStatusRunning
	job.StatusMessage = "Scraping sources"
	job.StartedAt = &now
	s.mu.Unlock()

	s.logger.Printf("job %s started (%s)", job.JobID, job.JobType)

	result, err := s.runner.Run(s.ctx, job.JobType)

	done := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	job.CompletedAt = &done
	if err != nil {
		job.Status = JobStatusFailed
		job.StatusMessage = "Job failed"
		job.LastError = err.Error()
		s.logger.Printf("job %s failed: %v", job.JobID, err)
	} else {
		job.Status = JobStatusCompleted
		job.StatusMessage = "Job completed"
		if result != nil {
			job.HeroCount = result.HeroCount
		}
		s.logger.Printf("job %s completed: %d heroes", job.JobID, job.HeroCount)
	}

	s.history = append([]*Job{job}, s.history...)
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}
	s.active = nil
}
