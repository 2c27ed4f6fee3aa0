package scraper

import (
	"context"
	"net/url"
	"strings"
	"time"

	"job-scraping/internal/config"
	"job-scraping/internal/domain/job"
	"job-scraping/internal/pkg/serrors"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const timesJobsDumpPrefix = "timesjobs"

// TimesJobsAdapter renders the search page in a headless browser because the
// listing markup is produced client side.
type TimesJobsAdapter struct {
	cfg      config.ScraperConfig
	baseURL  string
	launcher BrowserLauncher
	dumper   *Dumper
	headers  *HeaderRotator
	retry    retrier
	logger   *zap.Logger
	now      func() time.Time
}

func NewTimesJobsAdapter(cfg config.ScraperConfig, launcher BrowserLauncher, dumper *Dumper, logger *zap.Logger) *TimesJobsAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if launcher == nil {
		launcher = NewChromeLauncher()
	}
	return &TimesJobsAdapter{
		cfg:      cfg,
		baseURL:  trimBase(cfg.TimesJobsBaseURL, "https://www.timesjobs.com"),
		launcher: launcher,
		dumper:   dumper,
		headers:  NewHeaderRotator(cfg.UserAgents),
		retry:    newRetrier(cfg, cfg.RenderTimeout, logger),
		logger:   logger,
		now:      time.Now,
	}
}

func (a *TimesJobsAdapter) Source() job.Source { return job.SourceTimesJobs }

func (a *TimesJobsAdapter) searchURL(q job.Query) string {
	v := url.Values{}
	v.Set("searchType", "personalizedSearch")
	v.Set("from", "submit")
	v.Set("txtKeywords", q.Keyword)
	v.Set("txtLocation", q.Location)
	v.Set("cboWorkExp1", "0")
	return a.baseURL + "/candidate/job-search.html?" + v.Encode()
}

// Fetch owns one browser for its whole duration and releases it on return.
func (a *TimesJobsAdapter) Fetch(ctx context.Context, q job.Query) Result {
	q = q.WithDefaults(a.cfg.DefaultLocation)
	target := a.searchURL(q)
	log := a.logger.With(zap.String("source", string(job.SourceTimesJobs)), zap.String("keyword", q.Keyword))

	session, err := a.launcher.Launch(ctx, a.headers.UserAgent())
	if err != nil {
		log.Error("browser launch failed", zap.Error(err))
		return Result{
			Source:   job.SourceTimesJobs,
			Listings: []job.Listing{},
			Err:      classify(err, serrors.ErrRenderTimeout, "timesjobs launch"),
		}
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warn("browser close failed", zap.Error(cerr))
		}
	}()

	res := a.retry.run(ctx, job.SourceTimesJobs, func(ctx context.Context, attempt int) (page, error) {
		html, err := session.Render(ctx, RenderRequest{
			URL:          target,
			UserAgent:    a.headers.UserAgent(),
			Settle:       a.cfg.RenderSettle,
			ScrollSettle: a.cfg.ScrollSettle,
			Timeout:      a.cfg.RenderTimeout,
		})
		if err != nil {
			return page{}, classify(err, serrors.ErrRenderTimeout, "timesjobs render")
		}
		return a.parse(html, q, log)
	})

	log.Info("source fetched",
		zap.Int("jobs", len(res.Listings)),
		zap.Int("skipped", res.Skipped),
		zap.Int("attempts", res.Attempts),
	)
	return res
}

func (a *TimesJobsAdapter) parse(html string, q job.Query, log *zap.Logger) (page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return page{}, serrors.Wrap(serrors.ErrParse, err, "timesjobs document")
	}
	a.dumper.Page(timesJobsDumpPrefix, html)

	base, _ := url.Parse(a.baseURL)
	listings, failures := extractCards(doc.Selection, timesJobsCardSelector, a.cfg.MaxJobsPerSource, timesJobsCardParser(base, q.Location, a.now()))
	for _, f := range failures {
		fields := []zap.Field{zap.Int("card", f.index), zap.Error(f.err)}
		if path := a.dumper.Card(timesJobsDumpPrefix, f.index, f.fragment); path != "" {
			fields = append(fields, zap.String("dump", path))
		}
		log.Warn("card skipped", fields...)
	}
	return page{listings: listings, skipped: len(failures)}, nil
}

var _ Adapter = (*TimesJobsAdapter)(nil)
