package retention

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mercator-hq/trigon/pkg/telemetry/logging"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a Pruner on the retention cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	logger  *logging.Logger
	mu      sync.Mutex
	running bool
}

// NewScheduler creates a Scheduler for pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: pruner.logger,
	}
}

// Start schedules pruning and returns immediately. An empty schedule is a
// no-op. The scheduler stops when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.pruner.config.Schedule
	if schedule == "" {
		s.logger.Info("Prune schedule not configured, skipping scheduler")
		return nil
	}
	if s.running {
		return fmt.Errorf("retention scheduler already running")
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("Retention scheduler started",
		"schedule", schedule,
		"retention_days", s.pruner.config.Days,
		"max_runs", s.pruner.config.MaxRuns,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// RunOnce executes one pruning cycle, logging any failure.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if _, err := s.pruner.Prune(ctx); err != nil {
		s.logger.Error("Scheduled pruning failed", "error", err)
	}
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("Retention scheduler stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled pruning time, or nil when not scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
