// Package scheduler runs periodic jobs inside the worker process.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidConfig is returned when a trigger configuration is unusable
var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// Job is the work a trigger runs
type Job func(ctx context.Context) error

// DailyConfig holds configuration for a DailyTrigger
type DailyConfig struct {
	Name   string
	Hour   int
	Minute int
	// CheckInterval is how often the clock is checked
	CheckInterval time.Duration
	// Timeout bounds one run; zero means no limit
	Timeout time.Duration
}

// Validate checks the configured time of day and interval
func (c DailyConfig) Validate() error {
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return ErrInvalidConfig
	}
	if c.CheckInterval <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// DailyTrigger runs a job once per calendar day, at the first check at or
// after the configured time
type DailyTrigger struct {
	config DailyConfig
	job    Job
	logger *zap.Logger
	now    func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewDailyTrigger creates a trigger for job
func NewDailyTrigger(config DailyConfig, job Job, logger *zap.Logger) (*DailyTrigger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyTrigger{
		config: config,
		job:    job,
		logger: logger.With(zap.String("job", config.Name)),
		now:    time.Now,
	}, nil
}

// Start begins checking the clock. Calling Start twice is a no-op.
func (d *DailyTrigger) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.isRunning {
		return
	}
	d.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.runLoop(ctx)

	d.logger.Info("Daily trigger started",
		zap.Int("hour", d.config.Hour),
		zap.Int("minute", d.config.Minute),
		zap.Duration("check_interval", d.config.CheckInterval),
	)
}

// Stop cancels the loop and waits for a running job, or for ctx
func (d *DailyTrigger) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = false
	cancel := d.cancel
	d.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Daily trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *DailyTrigger) runLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.checkAndRun(ctx)
		}
	}
}

// checkAndRun runs the job when today's slot has arrived and not yet run.
// Reports whether the job was started.
func (d *DailyTrigger) checkAndRun(ctx context.Context) bool {
	now := d.now()
	today := now.Format("2006-01-02")
	slot := time.Date(now.Year(), now.Month(), now.Day(), d.config.Hour, d.config.Minute, 0, 0, now.Location())

	d.mu.Lock()
	if d.lastRunDate == today || now.Before(slot) {
		d.mu.Unlock()
		return false
	}
	d.lastRunDate = today
	d.mu.Unlock()

	d.run(ctx)
	return true
}

func (d *DailyTrigger) run(ctx context.Context) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := d.job(ctx); err != nil {
		d.logger.Error("Scheduled job failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	d.logger.Info("Scheduled job completed", zap.Duration("duration", time.Since(start)))
}
