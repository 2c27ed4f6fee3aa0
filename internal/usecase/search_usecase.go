package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"job-scraping/internal/domain/alert"
	"job-scraping/internal/domain/job"
	"job-scraping/internal/domain/matching"
	"job-scraping/internal/domain/user"
	"job-scraping/internal/pkg/metrics"
	"job-scraping/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MessageNoJobs     = "No jobs found. Please try different search terms or location."
	messageFoundJobsF = "Found %d jobs matching your search."

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

func SearchMessage(n int) string {
	if n == 0 {
		return MessageNoJobs
	}
	return fmt.Sprintf(messageFoundJobsF, n)
}

type AlertNotifier interface {
	NotifyAlertMatches(ctx context.Context, u user.User, query string, listings []job.Listing) error
}

// EventPublisher fans pipeline outcomes out to live subscribers.
type EventPublisher interface {
	PublishJobsUpdated(keyword, location string, count int)
	PublishAlertsMatched(userID uuid.UUID, keyword string, count int)
}

type SearchResult struct {
	Query    job.Query
	Listings []job.Listing
	Message  string
	// Matched is the number of distinct listings that satisfied one of the
	// requester's alerts.
	Matched  int
	Notified bool
	// AlertErr records a failure in the alert side effect. The search itself
	// still succeeded.
	AlertErr error
}

type SearchUsecase interface {
	// Search is the interactive entry point; it records history for an
	// identified requester.
	Search(ctx context.Context, q job.Query) (SearchResult, error)
	// Evaluate runs the same pipeline for a sweep without recording history.
	Evaluate(ctx context.Context, q job.Query) (SearchResult, error)
	// History pages through the user's searches, newest first. A zero limit
	// means DefaultHistoryLimit; larger limits are capped at MaxHistoryLimit.
	History(ctx context.Context, userID uuid.UUID, page user.HistoryPage) ([]user.SearchHistory, error)
}

type Search struct {
	aggregator service.Aggregator
	users      user.Repository
	alerts     alert.Repository
	history    user.HistoryRepository
	notifier   AlertNotifier
	events     EventPublisher
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

type SearchDeps struct {
	Aggregator service.Aggregator
	Users      user.Repository
	Alerts     alert.Repository
	History    user.HistoryRepository
	Notifier   AlertNotifier
	Events     EventPublisher
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

func NewSearchUsecase(d SearchDeps) *Search {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Search{
		aggregator: d.Aggregator,
		users:      d.Users,
		alerts:     d.Alerts,
		history:    d.History,
		notifier:   d.Notifier,
		events:     d.Events,
		metrics:    d.Metrics,
		logger:     d.Logger,
	}
}

func (s *Search) Search(ctx context.Context, q job.Query) (SearchResult, error) {
	res, err := s.run(ctx, q)
	if err != nil {
		return SearchResult{}, err
	}
	if q.RequesterID != nil && s.history != nil {
		if _, err := s.history.Create(ctx, user.SearchHistory{
			UserID:   *q.RequesterID,
			Keyword:  res.Query.Keyword,
			Location: res.Query.Location,
		}); err != nil {
			s.logger.Warn("record search history failed", zap.String("user_id", q.RequesterID.String()), zap.Error(err))
		}
	}
	if s.events != nil {
		s.events.PublishJobsUpdated(res.Query.Keyword, res.Query.Location, len(res.Listings))
	}
	return res, nil
}

func (s *Search) Evaluate(ctx context.Context, q job.Query) (SearchResult, error) {
	return s.run(ctx, q)
}

func (s *Search) History(ctx context.Context, userID uuid.UUID, page user.HistoryPage) ([]user.SearchHistory, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if s.history == nil {
		return []user.SearchHistory{}, nil
	}
	switch {
	case page.Limit <= 0:
		page.Limit = DefaultHistoryLimit
	case page.Limit > MaxHistoryLimit:
		page.Limit = MaxHistoryLimit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	items, err := s.history.ListByUser(ctx, userID, page)
	if err != nil {
		s.logger.Error("list search history failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	return items, nil
}

func (s *Search) run(ctx context.Context, q job.Query) (SearchResult, error) {
	q.Keyword = strings.TrimSpace(q.Keyword)
	q.Location = strings.TrimSpace(q.Location)
	if q.Keyword == "" {
		return SearchResult{}, ErrInvalidInput
	}

	listings := s.aggregator.Aggregate(ctx, q)
	res := SearchResult{
		Query:    q,
		Listings: listings,
		Message:  SearchMessage(len(listings)),
	}

	if q.RequesterID == nil || len(listings) == 0 {
		return res, nil
	}
	res.Matched, res.Notified, res.AlertErr = s.notifyRequester(ctx, *q.RequesterID, q.Keyword, listings)
	if res.AlertErr != nil {
		s.logger.Warn("alert notification failed",
			zap.String("user_id", q.RequesterID.String()),
			zap.String("keyword", q.Keyword),
			zap.Error(res.AlertErr),
		)
	}
	return res, nil
}

// notifyRequester matches listings against the requester's own alerts and
// sends one email when anything matched.
func (s *Search) notifyRequester(ctx context.Context, userID uuid.UUID, keyword string, listings []job.Listing) (int, bool, error) {
	if s.alerts == nil || s.users == nil || s.notifier == nil {
		return 0, false, nil
	}
	alerts, err := s.alerts.ListByOwner(ctx, userID)
	if err != nil {
		return 0, false, fmt.Errorf("list alerts: %w", err)
	}
	if len(alerts) == 0 {
		return 0, false, nil
	}

	matched := matching.Listings(matching.Match(listings, alerts))
	s.metrics.AddMatches(len(matched))
	if len(matched) == 0 {
		return 0, false, nil
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return len(matched), false, ErrNotFound
		}
		return len(matched), false, fmt.Errorf("load user: %w", err)
	}
	if err := s.notifier.NotifyAlertMatches(ctx, u, keyword, matched); err != nil {
		return len(matched), false, err
	}
	if s.events != nil {
		s.events.PublishAlertsMatched(userID, keyword, len(matched))
	}
	return len(matched), true, nil
}

var _ SearchUsecase = (*Search)(nil)
