// Package scheduler runs the periodic adherence snapshot recompute.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/JonnyWalker81/adhere/backend/internal/logger"
	"github.com/JonnyWalker81/adhere/backend/internal/service"
)

// DefaultSpec runs the recompute at 02:00 UTC
const DefaultSpec = "0 2 * * *"

// Recomputer is the part of the adherence service the scheduler drives
type Recomputer interface {
	RecomputeSnapshots(ctx context.Context, now time.Time) (*service.RecomputeResult, error)
}

// Scheduler manages the snapshot cron job
type Scheduler struct {
	cron       *cron.Cron
	recomputer Recomputer
	timeout    time.Duration
	clock      func() time.Time
}

// New creates a scheduler that runs the recompute on spec.
// Schedules are evaluated in UTC.
func New(recomputer Recomputer, spec string, timeout time.Duration) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	if timeout == 0 {
		timeout = 30 * time.Minute
	}

	s := &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		recomputer: recomputer,
		timeout:    timeout,
		clock:      time.Now,
	}

	if _, err := s.cron.AddFunc(spec, s.Run); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Run performs one recompute tick
func (s *Scheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	log := logger.Default().With(logger.String("job", "recompute_snapshots"))
	ctx = logger.WithLogger(ctx, log)

	start := s.clock()
	result, err := s.recomputer.RecomputeSnapshots(ctx, start)
	if err != nil {
		log.Error("scheduled recompute failed", logger.Err(err))
		return
	}

	log.Info("scheduled recompute finished",
		logger.Int("computed", result.Computed),
		logger.Int("failed", result.Failed),
		logger.Duration("duration", s.clock().Sub(start)),
	)
}
