package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/herolabs/hokhub/internal/jobs"
)

// Orchestrator schedules the recurring reconcile work: a full
// scrape-and-merge once a day and a lighter stats refresh on an
// interval. Actual execution goes through the job service, so manual
// API-triggered runs and scheduled runs share the same single-flight
// queue.
type Orchestrator struct {
	jobService *jobs.Service
	config     *Config
	cancel     context.CancelFunc

	// Task coordination
	statsCtx    context.Context
	statsCancel context.CancelFunc
	dailyCtx    context.Context
	dailyCancel context.CancelFunc
}

// Config holds scheduler configuration
type Config struct {
	StatsRefreshInterval time.Duration // Default: 6h
	DailyReconcileHour   int           // Default: 3 (3 AM)
	EnableStatsRefresh   bool          // Default: true
	EnableDailyReconcile bool          // Default: true
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		StatsRefreshInterval: 6 * time.Hour,
		DailyReconcileHour:   3,
		EnableStatsRefresh:   true,
		EnableDailyReconcile: true,
	}
}

// NewOrchestrator creates a new scheduler orchestrator
func NewOrchestrator(jobService *jobs.Service, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}

	return &Orchestrator{
		jobService: jobService,
		config:     config,
	}
}

// Start begins all scheduled tasks and blocks until the context is
// cancelled.
func (o *Orchestrator) Start(ctx context.Context) {
	log.Println("╔════════════════════════════════════════╗")
	log.Println("║    HokHub Scheduler Orchestrator       ║")
	log.Println("╚════════════════════════════════════════╝")
	log.Printf("Stats refresh: %v (interval: %v)", o.config.EnableStatsRefresh, o.config.StatsRefreshInterval)
	log.Printf("Daily reconcile: %v (at %02d:00)", o.config.EnableDailyReconcile, o.config.DailyReconcileHour)
	log.Println()

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	if o.config.EnableStatsRefresh {
		o.statsCtx, o.statsCancel = context.WithCancel(ctx)
		go o.runStatsRefresh(o.statsCtx)
	}

	if o.config.EnableDailyReconcile {
		o.dailyCtx, o.dailyCancel = context.WithCancel(ctx)
		go o.runDailyReconcile(o.dailyCtx)
	}

	<-ctx.Done()
	log.Println("Scheduler orchestrator stopping...")
}

// runStatsRefresh enqueues stats-only jobs on an interval.
func (o *Orchestrator) runStatsRefresh(ctx context.Context) {
	log.Printf("→ Stats refresh started (interval: %v)", o.config.StatsRefreshInterval)

	ticker := time.NewTicker(o.config.StatsRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("→ Stats refresh stopped")
			return
		case <-ticker.C:
			o.enqueue(jobs.JobTypeStats)
		}
	}
}

// runDailyReconcile enqueues a full reconcile at the configured hour.
func (o *Orchestrator) runDailyReconcile(ctx context.Context) {
	log.Printf("→ Daily reconcile scheduler started (runs at %02d:00 daily)", o.config.DailyReconcileHour)

	for {
		now := time.Now()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), o.config.DailyReconcileHour, 0, 0, 0, now.Location())

		// If we've passed today's run time, schedule for tomorrow
		if now.After(nextRun) {
			nextRun = nextRun.Add(24 * time.Hour)
		}

		waitDuration := time.Until(nextRun)
		log.Printf("  Next full reconcile: %s (in %v)", nextRun.Format("2006-01-02 15:04:05"), waitDuration.Round(time.Second))

		select {
		case <-ctx.Done():
			log.Println("→ Daily reconcile scheduler stopped")
			return
		case <-time.After(waitDuration):
			log.Println("═══ Daily Reconcile Starting ═══")
			o.enqueue(jobs.JobTypeFull)
		}
	}
}

// enqueue hands a job to the service. A busy queue is normal when a
// manual run is already in flight.
func (o *Orchestrator) enqueue(jobType jobs.JobType) {
	job, err := o.jobService.Enqueue(jobType)
	if err != nil {
		log.Printf("  ⚠️  Scheduled %s job skipped: %v", jobType, err)
		return
	}
	log.Printf("  ✓ Scheduled %s job enqueued: %s", jobType, job.JobID)
}

// Stop gracefully stops the scheduler
func (o *Orchestrator) Stop() {
	log.Println("Stopping scheduler orchestrator...")

	if o.statsCancel != nil {
		o.statsCancel()
	}
	if o.dailyCancel != nil {
		o.dailyCancel()
	}
	if o.cancel != nil {
		o.cancel()
	}

	log.Println("✓ Scheduler orchestrator stopped")
}

// GetStatus returns current scheduler status
func (o *Orchestrator) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"stats_refresh_enabled":   o.config.EnableStatsRefresh,
		"stats_refresh_interval":  o.config.StatsRefreshInterval.String(),
		"daily_reconcile_enabled": o.config.EnableDailyReconcile,
		"daily_reconcile_hour":    o.config.DailyReconcileHour,
	}
}
