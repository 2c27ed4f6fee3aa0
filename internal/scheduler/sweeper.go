package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"job-scraping/internal/config"
	"job-scraping/internal/domain/alert"
	"job-scraping/internal/domain/job"
	"job-scraping/internal/pkg/metrics"
	"job-scraping/internal/pkg/workerpool"
	"job-scraping/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sweepLockKey = "jobs:sweep:lock"

var ErrSweepInProgress = errors.New("alert sweep already running")

// Evaluator runs the search pipeline on behalf of an alert owner.
type Evaluator interface {
	Evaluate(ctx context.Context, q job.Query) (usecase.SearchResult, error)
}

// Locker guards against two replicas sweeping at once. Implementations grant
// the lock when their backing store is unreachable. ReleaseLock removes the
// key only while it still holds the token the sweep wrote.
type Locker interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string, value string) (bool, error)
}

type SweepReport struct {
	Alerts    int
	Evaluated int
	Notified  int
	Failed    int
}

type Sweeper struct {
	alerts    alert.Repository
	evaluator Evaluator
	locker    Locker
	workers   int
	rps       float64
	timeout   time.Duration
	lockTTL   time.Duration
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewSweeper(cfg config.SchedulerConfig, alerts alert.Repository, evaluator Evaluator, locker Locker, m *metrics.Metrics, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		alerts:    alerts,
		evaluator: evaluator,
		locker:    locker,
		workers:   cfg.Workers,
		rps:       cfg.EvaluationsPerSecond,
		timeout:   cfg.SweepTimeout,
		lockTTL:   cfg.LockTTL,
		metrics:   m,
		logger:    logger,
	}
}

// CheckAllAlerts evaluates every stored alert through the search pipeline for
// its owner. One alert failing, panics included, never stops the others.
func (s *Sweeper) CheckAllAlerts(ctx context.Context) (SweepReport, error) {
	started := time.Now()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if s.locker != nil {
		token := uuid.NewString()
		ok, err := s.locker.SetIfNotExists(ctx, sweepLockKey, token, s.lockTTL)
		switch {
		case err != nil:
			s.logger.Warn("sweep lock unavailable, proceeding", zap.Error(err))
		case !ok:
			s.logger.Info("sweep skipped, another sweep holds the lock")
			s.metrics.ObserveSweep("skipped", time.Since(started))
			return SweepReport{}, ErrSweepInProgress
		default:
			defer s.releaseLock(ctx, token)
		}
	}

	alerts, err := s.alerts.ListAll(ctx)
	if err != nil {
		s.metrics.ObserveSweep("error", time.Since(started))
		return SweepReport{}, fmt.Errorf("list alerts: %w", err)
	}

	report := SweepReport{Alerts: len(alerts)}
	s.logger.Info("sweep started", zap.Int("alerts", len(alerts)))
	if len(alerts) == 0 {
		s.metrics.ObserveSweep("ok", time.Since(started))
		return report, nil
	}

	var notified atomic.Int32
	pool := workerpool.New(s.workers, len(alerts))
	pool.SetRateLimit(s.rps)
	results := pool.Run(ctx)
	for _, a := range alerts {
		a := a
		key := a.ID.String()
		pool.Submit(key, func(ctx context.Context) error {
			ok, err := s.evaluate(ctx, a)
			if ok {
				notified.Add(1)
			}
			return err
		})
	}
	pool.Close()

	for r := range results {
		if r.Err != nil {
			report.Failed++
			s.logger.Error("alert evaluation failed", zap.String("alert_id", r.Key), zap.Error(r.Err))
			continue
		}
		report.Evaluated++
	}
	report.Notified = int(notified.Load())

	outcome := "ok"
	if report.Failed > 0 {
		outcome = "partial"
	}
	s.metrics.ObserveSweep(outcome, time.Since(started))
	s.logger.Info("sweep complete",
		zap.Int("alerts", report.Alerts),
		zap.Int("evaluated", report.Evaluated),
		zap.Int("notified", report.Notified),
		zap.Int("failed", report.Failed),
		zap.Duration("took", time.Since(started)),
	)
	return report, nil
}

func (s *Sweeper) releaseLock(ctx context.Context, token string) {
	released, err := s.locker.ReleaseLock(context.WithoutCancel(ctx), sweepLockKey, token)
	if err != nil {
		s.logger.Warn("release sweep lock failed", zap.Error(err))
		return
	}
	if !released {
		s.logger.Warn("sweep lock expired before release; left to its current holder")
	}
}

func (s *Sweeper) evaluate(ctx context.Context, a alert.Alert) (bool, error) {
	owner := a.OwnerID
	q := job.Query{Keyword: a.Keyword, RequesterID: &owner}
	if a.Location != nil {
		q.Location = *a.Location
	}
	res, err := s.evaluator.Evaluate(ctx, q)
	if err != nil {
		return false, err
	}
	if res.AlertErr != nil {
		return false, res.AlertErr
	}
	return res.Notified, nil
}
