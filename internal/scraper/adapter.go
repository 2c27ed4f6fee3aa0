package scraper

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"net/url"
	"strings"
	"time"

	"job-scraping/internal/config"
	"job-scraping/internal/domain/job"
	"job-scraping/internal/pkg/serrors"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Adapter fetches listings from one source. Fetch never fails outward: on
// error Listings is empty and Err records the last typed failure.
type Adapter interface {
	Source() job.Source
	Fetch(ctx context.Context, q job.Query) Result
}

type Result struct {
	Source   job.Source
	Listings []job.Listing
	Attempts int
	Skipped  int
	Err      error
}

// HeaderRotator picks request headers per attempt.
type HeaderRotator struct {
	agents []string
	pick   func(n int) int
}

func NewHeaderRotator(agents []string) *HeaderRotator {
	cleaned := make([]string, 0, len(agents))
	for _, a := range agents {
		if a = strings.TrimSpace(a); a != "" {
			cleaned = append(cleaned, a)
		}
	}
	return &HeaderRotator{agents: cleaned, pick: rand.IntN}
}

func (h *HeaderRotator) UserAgent() string {
	if h == nil || len(h.agents) == 0 {
		return "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	}
	return h.agents[h.pick(len(h.agents))]
}

func (h *HeaderRotator) Headers() map[string]string {
	return map[string]string{
		"User-Agent":                h.UserAgent(),
		"Accept-Language":           "en-US,en;q=0.9",
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	}
}

// page is what one successful attempt produced.
type page struct {
	listings []job.Listing
	skipped  int
}

type attemptFunc func(ctx context.Context, attempt int) (page, error)

// retrier runs attempts with a fixed delay. Only retryable kinds are retried.
// Each attempt runs under its own deadline so a hung attempt leaves budget
// for the next one.
type retrier struct {
	attempts   int
	delay      time.Duration
	perAttempt time.Duration
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func newRetrier(cfg config.ScraperConfig, perAttempt time.Duration, logger *zap.Logger) retrier {
	r := retrier{attempts: cfg.RetryAttempts, delay: cfg.RetryDelay, perAttempt: perAttempt, logger: logger}
	if r.attempts <= 0 {
		r.attempts = 1
	}
	if cfg.RequestsPerSecond > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return r
}

func (r retrier) run(ctx context.Context, src job.Source, fn attemptFunc) Result {
	res := Result{Source: src}
	log := r.logger.With(zap.String("source", string(src)))

	for attempt := 1; attempt <= r.attempts; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, r.delay); err != nil {
				res.Err = serrors.Wrap(serrors.ErrNetwork, err, "%s: waiting to retry", src)
				break
			}
		}
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				res.Err = serrors.Wrap(serrors.ErrNetwork, err, "%s: rate limiter", src)
				break
			}
		}

		res.Attempts = attempt
		p, err := r.attempt(ctx, attempt, fn)
		if err == nil {
			res.Listings = p.listings
			res.Skipped = p.skipped
			res.Err = nil
			return res
		}
		res.Err = err
		log.Warn("fetch attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		if !serrors.IsRetryable(err) || ctx.Err() != nil {
			break
		}
	}

	log.Error("fetch gave up", zap.Int("attempts", res.Attempts), zap.Error(res.Err))
	res.Listings = []job.Listing{}
	return res
}

func (r retrier) attempt(ctx context.Context, n int, fn attemptFunc) (page, error) {
	if r.perAttempt <= 0 {
		return fn(ctx, n)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, r.perAttempt)
	defer cancel()
	return fn(attemptCtx, n)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// classify maps a raw fetch error onto a pipeline kind.
func classify(err error, timeoutKind serrors.Kind, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if serrors.KindOf(err) != nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return serrors.Wrap(timeoutKind, err, format, args...)
	}
	return serrors.Wrap(serrors.ErrNetwork, err, format, args...)
}

func hostFromBaseURL(base, fallback string) string {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil || u.Host == "" {
		return fallback
	}
	if h, _, err := net.SplitHostPort(u.Host); err == nil {
		return h
	}
	return u.Host
}

func trimBase(base, fallback string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return fallback
	}
	return base
}
