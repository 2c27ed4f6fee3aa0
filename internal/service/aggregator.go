package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"job-scraping/internal/config"
	"job-scraping/internal/domain/job"
	"job-scraping/internal/pkg/metrics"
	"job-scraping/internal/salary"
	"job-scraping/internal/scraper"

	"go.uber.org/zap"
)

type Aggregator interface {
	Aggregate(ctx context.Context, q job.Query) []job.Listing
}

type ResultCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type AggregatorOption func(*DefaultAggregator)

// WithResultCache caches non-empty aggregates for ttl. A zero ttl disables it.
func WithResultCache(c ResultCache, ttl time.Duration) AggregatorOption {
	return func(a *DefaultAggregator) {
		if c != nil && ttl > 0 {
			a.cache = c
			a.cacheTTL = ttl
		}
	}
}

func WithMetrics(m *metrics.Metrics) AggregatorOption {
	return func(a *DefaultAggregator) { a.metrics = m }
}

// DefaultAggregator queries every adapter concurrently. The adapter slice
// order is the merge priority: on a duplicate key the earlier source wins.
type DefaultAggregator struct {
	adapters        []scraper.Adapter
	normalizer      salary.Normalizer
	timeout         time.Duration
	defaultLocation string
	cache           ResultCache
	cacheTTL        time.Duration
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

func NewAggregator(cfg config.ScraperConfig, normalizer salary.Normalizer, adapters []scraper.Adapter, logger *zap.Logger, opts ...AggregatorOption) *DefaultAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &DefaultAggregator{
		adapters:        adapters,
		normalizer:      normalizer,
		timeout:         cfg.AdapterTimeout,
		defaultLocation: cfg.DefaultLocation,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate never fails: a source that errors or times out contributes
// nothing and the merge continues with the rest.
func (a *DefaultAggregator) Aggregate(ctx context.Context, q job.Query) []job.Listing {
	if a == nil {
		return []job.Listing{}
	}
	q = q.WithDefaults(a.defaultLocation)
	if strings.TrimSpace(q.Keyword) == "" {
		return []job.Listing{}
	}

	cacheKey := SearchCacheKey(q)
	if a.cache != nil {
		var cached []job.Listing
		if ok, err := a.cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
			a.logger.Debug("aggregate cache hit", zap.String("keyword", q.Keyword), zap.Int("jobs", len(cached)))
			return cached
		}
	}

	results := make([]scraper.Result, len(a.adapters))
	var wg sync.WaitGroup
	for i, adapter := range a.adapters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = a.fetch(ctx, adapter, q)
		}()
	}
	wg.Wait()

	out := a.merge(results)

	if a.cache != nil && len(out) > 0 {
		if err := a.cache.SetJSON(ctx, cacheKey, out, a.cacheTTL); err != nil {
			a.logger.Debug("aggregate cache write failed", zap.Error(err))
		}
	}

	a.logger.Info("aggregate complete",
		zap.String("keyword", q.Keyword),
		zap.String("location", q.Location),
		zap.Int("jobs", len(out)),
	)
	return out
}

func (a *DefaultAggregator) fetch(ctx context.Context, adapter scraper.Adapter, q job.Query) (res scraper.Result) {
	src := adapter.Source()
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = scraper.Result{Source: src, Listings: []job.Listing{}, Err: fmt.Errorf("adapter panic: %v", r)}
		}
		outcome := "ok"
		if res.Err != nil {
			outcome = "error"
			a.logger.Warn("source failed", zap.String("source", string(src)), zap.Int("attempts", res.Attempts), zap.Error(res.Err))
		}
		a.metrics.ObserveFetch(string(src), outcome, len(res.Listings), time.Since(started))
	}()

	fetchCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	res = adapter.Fetch(fetchCtx, q)
	if res.Source == "" {
		res.Source = src
	}
	return res
}

// merge concatenates results in adapter order, drops repeated keys and fills
// the normalized salary fields.
func (a *DefaultAggregator) merge(results []scraper.Result) []job.Listing {
	seen := make(map[job.Key]struct{})
	out := make([]job.Listing, 0)
	for _, r := range results {
		for _, l := range r.Listings {
			k := l.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			if l.Source == "" {
				l.Source = r.Source
			}
			if l.SalaryRaw != nil {
				l.Salary = a.normalizer.ToDisplayForm(*l.SalaryRaw)
				l.SalaryNumeric = a.normalizer.ToComparableNumber(*l.SalaryRaw)
			}
			out = append(out, l)
		}
	}
	return out
}

type searchCacheKeyInput struct {
	Keyword  string `json:"keyword"`
	Location string `json:"location"`
}

func normalizeSearchValue(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func SearchCacheKey(q job.Query) string {
	b, _ := json.Marshal(searchCacheKeyInput{
		Keyword:  normalizeSearchValue(q.Keyword),
		Location: normalizeSearchValue(q.Location),
	})
	sum := sha256.Sum256(b)
	return "jobs:search:" + hex.EncodeToString(sum[:])
}

var _ Aggregator = (*DefaultAggregator)(nil)
