package scheduler

import (
	"context"
	"errors"
	"time"

	"cpaptracker-service/pkg/logger"
	"cpaptracker-service/pkg/utils"
)

// Job runs once per tick for the calendar date today
type Job func(ctx context.Context, today time.Time) error

// Options controls the timing of a DailyScheduler
type Options struct {
	InitialDelay time.Duration
	Interval     time.Duration
	RetryDelay   time.Duration
	// MaxRetries bounds the retries of one tick. Zero disables retrying.
	MaxRetries int
	Location   *time.Location
}

// DailyScheduler runs a job after an initial delay and then on a fixed interval.
// A failed run is retried after RetryDelay.
type DailyScheduler struct {
	job    Job
	opts   Options
	now    func() time.Time
	logger logger.Logger
}

// NewDailyScheduler creates a new scheduler for job
func NewDailyScheduler(job Job, opts Options, logger logger.Logger) *DailyScheduler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &DailyScheduler{
		job:    job,
		opts:   opts,
		now:    time.Now,
		logger: logger,
	}
}

// Start blocks until ctx is cancelled
func (s *DailyScheduler) Start(ctx context.Context) {
	s.logger.Info("Scheduler started",
		"initialDelay", s.opts.InitialDelay,
		"interval", s.opts.Interval)

	if !sleep(ctx, s.opts.InitialDelay) {
		s.logger.Info("Scheduler stopped")
		return
	}

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		s.runWithRetry(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce runs the job for the current date without retrying
func (s *DailyScheduler) RunOnce(ctx context.Context) error {
	return s.job(ctx, utils.Today(s.now(), s.opts.Location))
}

func (s *DailyScheduler) runWithRetry(ctx context.Context) {
	for attempt := 0; ; attempt++ {
		err := s.RunOnce(ctx)
		if err == nil {
			return
		}
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return
		}
		if attempt >= s.opts.MaxRetries {
			s.logger.Error("Scheduled run failed, giving up until next interval",
				"attempts", attempt+1,
				"error", err)
			return
		}

		s.logger.Warn("Scheduled run failed, retrying",
			"attempt", attempt+1,
			"retryIn", s.opts.RetryDelay,
			"error", err)
		if !sleep(ctx, s.opts.RetryDelay) {
			return
		}
	}
}

// sleep waits for d and reports false when ctx ends first
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
