package scraper

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"job-scraping/internal/config"
	"job-scraping/internal/domain/job"
	"job-scraping/internal/pkg/serrors"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// LinkedInAdapter reads the public job search page with a plain GET.
type LinkedInAdapter struct {
	cfg         config.ScraperConfig
	baseURL     string
	allowedHost string
	headers     *HeaderRotator
	retry       retrier
	logger      *zap.Logger
	now         func() time.Time
}

func NewLinkedInAdapter(cfg config.ScraperConfig, logger *zap.Logger) *LinkedInAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &LinkedInAdapter{
		cfg:     cfg,
		baseURL: trimBase(cfg.LinkedInBaseURL, "https://www.linkedin.com"),
		headers: NewHeaderRotator(cfg.UserAgents),
		retry:   newRetrier(cfg, cfg.RequestTimeout, logger),
		logger:  logger,
		now:     time.Now,
	}
	a.allowedHost = hostFromBaseURL(a.baseURL, "www.linkedin.com")
	return a
}

func (a *LinkedInAdapter) Source() job.Source { return job.SourceLinkedIn }

func (a *LinkedInAdapter) searchURL(q job.Query) string {
	v := url.Values{}
	v.Set("keywords", q.Keyword)
	v.Set("location", q.Location)
	return a.baseURL + "/jobs/search?" + v.Encode()
}

func (a *LinkedInAdapter) Fetch(ctx context.Context, q job.Query) Result {
	q = q.WithDefaults(a.cfg.DefaultLocation)
	target := a.searchURL(q)

	res := a.retry.run(ctx, job.SourceLinkedIn, func(ctx context.Context, attempt int) (page, error) {
		return a.fetchOnce(ctx, target)
	})
	a.logger.Info("source fetched",
		zap.String("source", string(job.SourceLinkedIn)),
		zap.String("keyword", q.Keyword),
		zap.Int("jobs", len(res.Listings)),
		zap.Int("skipped", res.Skipped),
		zap.Int("attempts", res.Attempts),
	)
	return res
}

// fetchOnce builds a fresh collector; colly refuses to revisit a URL on the
// same collector. The HTTP timeout follows the attempt deadline.
func (a *LinkedInAdapter) fetchOnce(ctx context.Context, target string) (page, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(a.allowedHost),
	)
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			c.SetRequestTimeout(d)
		}
	}

	var out page
	var reqErr error

	c.OnRequest(func(r *colly.Request) {
		for k, v := range a.headers.Headers() {
			r.Headers.Set(k, v)
		}
	})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		base, _ := url.Parse(e.Request.URL.String())
		listings, failures := extractCards(e.DOM, linkedInCardSelector, a.cfg.MaxJobsPerSource, linkedInCardParser(base, a.now()))
		for _, f := range failures {
			a.logger.Debug("card skipped", zap.String("source", string(job.SourceLinkedIn)), zap.Int("card", f.index), zap.Error(f.err))
		}
		out = page{listings: listings, skipped: len(failures)}
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			reqErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
			return
		}
		reqErr = err
	})

	if err := ctx.Err(); err != nil {
		return page{}, classify(err, serrors.ErrNetwork, "linkedin")
	}
	if err := c.Visit(target); err != nil && reqErr == nil {
		reqErr = err
	}
	c.Wait()

	if reqErr != nil {
		return page{}, classify(reqErr, serrors.ErrNetwork, "linkedin request")
	}
	if out.listings == nil {
		out.listings = make([]job.Listing, 0)
	}
	return out, nil
}

var _ Adapter = (*LinkedInAdapter)(nil)
