package jobs

import (
	"context"
	"time"

	"homecrm-backend/internal/config"
	"homecrm-backend/internal/logger"
	"homecrm-backend/internal/repository"
	"homecrm-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	subscriptions repository.SubscriptionRepository
	contacts      repository.ContactRepository
	notifier      service.NotificationService
	config        config.SchedulerConfig
	now           func() time.Time
	timeout       time.Duration
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(subscriptions repository.SubscriptionRepository, contacts repository.ContactRepository,
	notifier service.NotificationService, cfg config.SchedulerConfig) *JobRunner {
	return &JobRunner{
		subscriptions: subscriptions,
		contacts:      contacts,
		notifier:      notifier,
		config:        cfg,
		now:           time.Now,
		timeout:       10 * time.Minute,
	}
}

// Config returns the schedule the runner was built with.
func (jr *JobRunner) Config() config.SchedulerConfig {
	return jr.config
}

// today is the start of the current UTC day.
func (jr *JobRunner) today() time.Time {
	return jr.now().UTC().Truncate(24 * time.Hour)
}

// runWithRecovery wraps job execution with panic recovery and a
// deadline. Jobs run without a principal.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()
	ctx = logger.WithContext(ctx, logger.WithService("jobs").With("job", jobName))

	start := jr.now()
	logger.InfoContext(ctx, "Starting job")
	if err := jobFunc(ctx); err != nil {
		logger.ErrorContext(ctx, "Job failed", "error", err)
		return
	}
	logger.InfoContext(ctx, "Job completed", "duration_ms", jr.now().Sub(start).Milliseconds())
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ExpireLapsedSubscriptions()
	jr.SendRenewalReminders()
}
