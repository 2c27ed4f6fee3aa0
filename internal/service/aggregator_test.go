package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"job-scraping/internal/config"
	"job-scraping/internal/domain/job"
	"job-scraping/internal/pkg/serrors"
	"job-scraping/internal/salary"
	"job-scraping/internal/scraper"

	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	source   job.Source
	listings []job.Listing
	err      error
	block    bool
	panics   bool

	mu    sync.Mutex
	calls int
	query job.Query
}

func (s *stubAdapter) Source() job.Source { return s.source }

func (s *stubAdapter) Fetch(ctx context.Context, q job.Query) scraper.Result {
	s.mu.Lock()
	s.calls++
	s.query = q
	s.mu.Unlock()

	if s.panics {
		panic("boom")
	}
	if s.block {
		<-ctx.Done()
		return scraper.Result{Source: s.source, Listings: []job.Listing{}, Err: serrors.Wrap(serrors.ErrRenderTimeout, ctx.Err(), "blocked")}
	}
	if s.err != nil {
		return scraper.Result{Source: s.source, Listings: []job.Listing{}, Attempts: 3, Err: s.err}
	}
	return scraper.Result{Source: s.source, Listings: s.listings, Attempts: 1}
}

func listing(title, company string, src job.Source, salaryRaw string) job.Listing {
	l := job.Listing{Title: title, Company: company, Location: "Bangalore", Source: src}
	if salaryRaw != "" {
		l.SalaryRaw = &salaryRaw
	}
	return l
}

func aggregatorConfig() config.ScraperConfig {
	return config.ScraperConfig{AdapterTimeout: time.Second, DefaultLocation: "India"}
}

func TestAggregate_DedupKeepsHigherPrioritySource(t *testing.T) {
	linkedIn := &stubAdapter{source: job.SourceLinkedIn, listings: []job.Listing{
		listing("Go Developer", "Acme", job.SourceLinkedIn, "$50,000 - $60,000"),
		listing("SRE", "Globex", job.SourceLinkedIn, ""),
	}}
	timesJobs := &stubAdapter{source: job.SourceTimesJobs, listings: []job.Listing{
		listing("go developer", "ACME", job.SourceTimesJobs, "₹1,00,000"),
		listing("Data Engineer", "Initech", job.SourceTimesJobs, "Salary not specified"),
	}}

	agg := NewAggregator(aggregatorConfig(), salary.NewNormalizer("₹"), []scraper.Adapter{linkedIn, timesJobs}, nil)
	out := agg.Aggregate(context.Background(), job.Query{Keyword: "developer"})

	require.Len(t, out, 3)
	require.Equal(t, job.SourceLinkedIn, out[0].Source)
	require.Equal(t, "Go Developer", out[0].Title)
	require.NotNil(t, out[0].Salary)
	require.Equal(t, "₹50,000 - ₹60,000", *out[0].Salary)
	require.Equal(t, 55000, out[0].SalaryNumeric)

	require.Equal(t, "SRE", out[1].Title)
	require.Nil(t, out[1].Salary)
	require.Equal(t, 0, out[1].SalaryNumeric)

	require.Equal(t, "Data Engineer", out[2].Title)
	require.Nil(t, out[2].Salary)
	require.Equal(t, 0, out[2].SalaryNumeric)

	keys := map[job.Key]bool{}
	for _, l := range out {
		require.False(t, keys[l.Key()], "duplicate key %v", l.Key())
		keys[l.Key()] = true
	}

	require.Equal(t, "India", linkedIn.query.Location)
}

func TestAggregate_TotalWhenEverySourceFails(t *testing.T) {
	failing := &stubAdapter{source: job.SourceLinkedIn, err: serrors.With(serrors.ErrNetwork, "status 503")}
	panicking := &stubAdapter{source: job.SourceTimesJobs, panics: true}

	agg := NewAggregator(aggregatorConfig(), salary.NewNormalizer(""), []scraper.Adapter{failing, panicking}, nil)

	var out []job.Listing
	require.NotPanics(t, func() {
		out = agg.Aggregate(context.Background(), job.Query{Keyword: "golang"})
	})
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestAggregate_SlowSourceDegradesToEmpty(t *testing.T) {
	fast := &stubAdapter{source: job.SourceLinkedIn, listings: []job.Listing{listing("Go", "Acme", job.SourceLinkedIn, "")}}
	slow := &stubAdapter{source: job.SourceTimesJobs, block: true}

	cfg := aggregatorConfig()
	cfg.AdapterTimeout = 20 * time.Millisecond
	agg := NewAggregator(cfg, salary.NewNormalizer(""), []scraper.Adapter{fast, slow}, nil)

	out := agg.Aggregate(context.Background(), job.Query{Keyword: "go"})
	require.Len(t, out, 1)
	require.Equal(t, job.SourceLinkedIn, out[0].Source)
}

func TestAggregate_EmptyKeywordSkipsSources(t *testing.T) {
	src := &stubAdapter{source: job.SourceLinkedIn}
	agg := NewAggregator(aggregatorConfig(), salary.NewNormalizer(""), []scraper.Adapter{src}, nil)

	out := agg.Aggregate(context.Background(), job.Query{Keyword: "   "})
	require.Empty(t, out)
	require.Equal(t, 0, src.calls)
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]job.Listing
	sets  int
}

func (c *memoryCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return false, nil
	}
	*(out.(*[]job.Listing)) = v
	return true, nil
}

func (c *memoryCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = map[string][]job.Listing{}
	}
	c.items[key] = value.([]job.Listing)
	c.sets++
	return nil
}

func TestAggregate_ResultCache(t *testing.T) {
	src := &stubAdapter{source: job.SourceLinkedIn, listings: []job.Listing{listing("Go", "Acme", job.SourceLinkedIn, "")}}
	cache := &memoryCache{}
	agg := NewAggregator(aggregatorConfig(), salary.NewNormalizer(""), []scraper.Adapter{src}, nil, WithResultCache(cache, time.Minute))

	first := agg.Aggregate(context.Background(), job.Query{Keyword: "Go", Location: "Pune"})
	second := agg.Aggregate(context.Background(), job.Query{Keyword: "  go ", Location: "pune"})

	require.Equal(t, first, second)
	require.Equal(t, 1, src.calls)
	require.Equal(t, 1, cache.sets)
}

func TestAggregate_EmptyResultNotCached(t *testing.T) {
	src := &stubAdapter{source: job.SourceLinkedIn, err: errors.New("down")}
	cache := &memoryCache{}
	agg := NewAggregator(aggregatorConfig(), salary.NewNormalizer(""), []scraper.Adapter{src}, nil, WithResultCache(cache, time.Minute))

	agg.Aggregate(context.Background(), job.Query{Keyword: "go"})
	agg.Aggregate(context.Background(), job.Query{Keyword: "go"})

	require.Equal(t, 2, src.calls)
	require.Equal(t, 0, cache.sets)
}

func TestSearchCacheKey_Normalizes(t *testing.T) {
	a := SearchCacheKey(job.Query{Keyword: "Go  Developer", Location: "Pune"})
	b := SearchCacheKey(job.Query{Keyword: " go developer ", Location: "PUNE"})
	c := SearchCacheKey(job.Query{Keyword: "go developer", Location: "Chennai"})

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Contains(t, a, "jobs:search:")
}
