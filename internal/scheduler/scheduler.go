// Package scheduler wires up the cron job that periodically re-runs a batch
// analysis over a fixed URL list.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled cycle. Errors are logged and do not stop the schedule.
type Job func(ctx context.Context) error

// Scheduler wraps robfig/cron and manages the analysis loop.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	job    Job
	logger *slog.Logger

	mu      sync.Mutex
	started bool
	entryID cron.EntryID
}

// New creates a Scheduler that runs job on the standard 5-field cron spec.
// Overlapping ticks are skipped while a cycle is still running.
func New(spec string, job Job, logger *slog.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, fmt.Errorf("scheduler: job is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		spec:   spec,
		job:    job,
		logger: logger,
	}, nil
}

// Start registers the job and starts the scheduler. When runNow is set one
// cycle also runs immediately so results exist without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context, runNow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("scheduler already started")
	}

	id, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) })
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.entryID = id
	s.cron.Start()
	s.started = true
	s.logger.Info("scheduler started", "spec", s.spec, "next_run", s.cron.Entry(id).Next)

	if runNow {
		go s.RunOnce(ctx)
	}
	return nil
}

// Stop shuts the scheduler down and waits for a running cycle to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out waiting for running cycle")
	}
}

// RunOnce runs a single cycle synchronously.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.logger.Info("scheduled cycle started")
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled cycle failed", "error", err)
		return
	}
	s.logger.Info("scheduled cycle complete")
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
