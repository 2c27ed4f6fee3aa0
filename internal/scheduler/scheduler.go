// Package scheduler runs the periodic alert sweep.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler wraps robfig/cron. Overlapping ticks are skipped while a sweep is
// still running.
type Scheduler struct {
	cron    *cron.Cron
	sweeper *Sweeper
	spec    string
	logger  *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
}

func New(spec string, sweeper *Sweeper, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{l: logger.Named("cron")}
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		sweeper: sweeper,
		spec:    spec,
		logger:  logger,
	}
}

// Start registers the sweep and starts the cron loop. Sweeps run under a
// context derived from ctx that Stop cancels.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	if _, err := s.cron.AddFunc(s.spec, func() { s.runSweep(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule %q: %w", s.spec, err)
	}
	s.cancel = cancel
	s.started = true
	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))
	return nil
}

// Stop halts new ticks and waits for a running sweep to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.cancel()
	<-s.cron.Stop().Done()
	s.started = false
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runSweep(ctx context.Context) {
	report, err := s.sweeper.CheckAllAlerts(ctx)
	if err != nil {
		if errors.Is(err, ErrSweepInProgress) {
			return
		}
		s.logger.Error("scheduled sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled sweep finished",
		zap.Int("evaluated", report.Evaluated),
		zap.Int("failed", report.Failed),
	)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Infow(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().With(zap.Error(err)).Errorw(msg, keysAndValues...)
}
