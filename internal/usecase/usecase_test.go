package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"job-scraping/internal/domain/alert"
	"job-scraping/internal/domain/job"
	"job-scraping/internal/domain/user"
	"job-scraping/internal/pkg/serrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubAggregator struct {
	listings []job.Listing
	queries  []job.Query
}

func (s *stubAggregator) Aggregate(_ context.Context, q job.Query) []job.Listing {
	s.queries = append(s.queries, q)
	return s.listings
}

type stubUsers struct {
	users map[uuid.UUID]user.User
}

func (s stubUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

type stubAlerts struct {
	byOwner map[uuid.UUID][]alert.Alert
	created []alert.Alert
	delErr  error
}

func (s *stubAlerts) Create(_ context.Context, a alert.Alert) (alert.Alert, error) {
	a.ID = uuid.New()
	s.created = append(s.created, a)
	return a, nil
}
func (s *stubAlerts) ListByOwner(_ context.Context, owner uuid.UUID) ([]alert.Alert, error) {
	return s.byOwner[owner], nil
}
func (s *stubAlerts) ListAll(context.Context) ([]alert.Alert, error) { return nil, nil }
func (s *stubAlerts) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return s.delErr
}

type stubHistory struct {
	items []user.SearchHistory
	page  user.HistoryPage
}

func (s *stubHistory) Create(_ context.Context, h user.SearchHistory) (user.SearchHistory, error) {
	s.items = append(s.items, h)
	return h, nil
}
func (s *stubHistory) ListByUser(_ context.Context, _ uuid.UUID, page user.HistoryPage) ([]user.SearchHistory, error) {
	s.page = page
	return s.items, nil
}

type stubNotifier struct {
	mu    sync.Mutex
	calls int
	got   []job.Listing
	err   error
}

func (s *stubNotifier) NotifyAlertMatches(_ context.Context, _ user.User, _ string, listings []job.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.got = listings
	return s.err
}

type stubEvents struct {
	updated int
	matched int
}

func (s *stubEvents) PublishJobsUpdated(string, string, int)      { s.updated++ }
func (s *stubEvents) PublishAlertsMatched(uuid.UUID, string, int) { s.matched++ }

func ptr[T any](v T) *T { return &v }

type searchFixture struct {
	owner    user.User
	agg      *stubAggregator
	alerts   *stubAlerts
	history  *stubHistory
	notifier *stubNotifier
	events   *stubEvents
	uc       *Search
}

func newSearchFixture(listings []job.Listing, alerts ...alert.Alert) searchFixture {
	owner := user.User{ID: uuid.New(), Username: "asha", Email: "asha@example.com"}
	f := searchFixture{
		owner:    owner,
		agg:      &stubAggregator{listings: listings},
		alerts:   &stubAlerts{byOwner: map[uuid.UUID][]alert.Alert{owner.ID: alerts}},
		history:  &stubHistory{},
		notifier: &stubNotifier{},
		events:   &stubEvents{},
	}
	f.uc = NewSearchUsecase(SearchDeps{
		Aggregator: f.agg,
		Users:      stubUsers{users: map[uuid.UUID]user.User{owner.ID: owner}},
		Alerts:     f.alerts,
		History:    f.history,
		Notifier:   f.notifier,
		Events:     f.events,
	})
	return f
}

func TestSearch_RequiresKeyword(t *testing.T) {
	f := newSearchFixture(nil)
	_, err := f.uc.Search(context.Background(), job.Query{Keyword: "  "})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, f.agg.queries)
}

func TestSearch_EmptyResultMessage(t *testing.T) {
	f := newSearchFixture(nil)
	res, err := f.uc.Search(context.Background(), job.Query{Keyword: "golang"})
	require.NoError(t, err)
	require.Empty(t, res.Listings)
	require.Equal(t, "No jobs found. Please try different search terms or location.", res.Message)
	require.Empty(t, f.history.items, "anonymous searches are not recorded")
	require.Equal(t, 1, f.events.updated)
}

func TestSearch_NotifiesRequesterOnMatch(t *testing.T) {
	listings := []job.Listing{
		{Title: "Go Developer", Company: "Acme", Location: "Pune", SalaryNumeric: 60000},
		{Title: "Go Developer", Company: "Acme", Location: "Pune", SalaryNumeric: 60000},
		{Title: "Designer", Company: "Initech", Location: "Pune"},
	}
	f := newSearchFixture(listings,
		alert.Alert{Keyword: "developer", MinSalary: ptr(50000)},
		alert.Alert{Keyword: "go"},
	)

	res, err := f.uc.Search(context.Background(), job.Query{Keyword: "go", Location: "Pune", RequesterID: &f.owner.ID})
	require.NoError(t, err)
	require.Equal(t, "Found 3 jobs matching your search.", res.Message)
	require.Equal(t, 1, res.Matched)
	require.True(t, res.Notified)
	require.NoError(t, res.AlertErr)
	require.Equal(t, 1, f.notifier.calls)
	require.Len(t, f.notifier.got, 1)
	require.Equal(t, 1, f.events.matched)

	require.Len(t, f.history.items, 1)
	require.Equal(t, "go", f.history.items[0].Keyword)
	require.Equal(t, "Pune", f.history.items[0].Location)
}

func TestSearch_NoMatchNoEmail(t *testing.T) {
	f := newSearchFixture([]job.Listing{{Title: "Designer", Company: "Initech"}}, alert.Alert{Keyword: "golang"})
	res, err := f.uc.Search(context.Background(), job.Query{Keyword: "design", RequesterID: &f.owner.ID})
	require.NoError(t, err)
	require.Equal(t, 0, res.Matched)
	require.False(t, res.Notified)
	require.Equal(t, 0, f.notifier.calls)
}

func TestSearch_NotificationFailureDoesNotFailSearch(t *testing.T) {
	f := newSearchFixture([]job.Listing{{Title: "Go Developer", Company: "Acme"}}, alert.Alert{Keyword: "go"})
	f.notifier.err = serrors.With(serrors.ErrTransport, "smtp down")

	res, err := f.uc.Search(context.Background(), job.Query{Keyword: "go", RequesterID: &f.owner.ID})
	require.NoError(t, err)
	require.Len(t, res.Listings, 1)
	require.False(t, res.Notified)
	require.ErrorIs(t, res.AlertErr, serrors.ErrTransport)
}

func TestEvaluate_DoesNotRecordHistory(t *testing.T) {
	f := newSearchFixture([]job.Listing{{Title: "Go Developer", Company: "Acme"}}, alert.Alert{Keyword: "go"})

	res, err := f.uc.Evaluate(context.Background(), job.Query{Keyword: "go", RequesterID: &f.owner.ID})
	require.NoError(t, err)
	require.True(t, res.Notified)
	require.Empty(t, f.history.items)
	require.Equal(t, 0, f.events.updated)
}

func TestHistory_NormalisesPage(t *testing.T) {
	f := newSearchFixture(nil)
	ctx := context.Background()

	_, err := f.uc.History(ctx, uuid.Nil, user.HistoryPage{})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.History(ctx, f.owner.ID, user.HistoryPage{})
	require.NoError(t, err)
	require.Equal(t, user.HistoryPage{Limit: DefaultHistoryLimit}, f.history.page)

	_, err = f.uc.History(ctx, f.owner.ID, user.HistoryPage{Limit: 1000, Offset: -3})
	require.NoError(t, err)
	require.Equal(t, user.HistoryPage{Limit: MaxHistoryLimit}, f.history.page)

	_, err = f.uc.History(ctx, f.owner.ID, user.HistoryPage{Limit: 40, Offset: 80})
	require.NoError(t, err)
	require.Equal(t, user.HistoryPage{Limit: 40, Offset: 80}, f.history.page)
}

func TestAlerts_CreateValidation(t *testing.T) {
	repo := &stubAlerts{}
	uc := NewAlertUsecase(repo, nil)
	owner := uuid.New()

	_, err := uc.CreateAlert(context.Background(), owner, CreateAlertInput{Keyword: " "})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.CreateAlert(context.Background(), owner, CreateAlertInput{Keyword: "go", MinSalary: ptr(-1)})
	require.ErrorIs(t, err, ErrInvalidInput)

	a, err := uc.CreateAlert(context.Background(), owner, CreateAlertInput{Keyword: " go ", Location: ptr("  "), Experience: ptr("2-5 years")})
	require.NoError(t, err)
	require.Equal(t, "go", a.Keyword)
	require.Nil(t, a.Location)
	require.Equal(t, "2-5 years", *a.Experience)
	require.Equal(t, owner, a.OwnerID)
}

func TestAlerts_DeleteMissing(t *testing.T) {
	uc := NewAlertUsecase(&stubAlerts{delErr: alert.ErrNotFound}, nil)
	err := uc.DeleteAlert(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

type stubSavedJobs struct {
	exists  bool
	created []alert.SavedJob
}

func (s *stubSavedJobs) Create(_ context.Context, j alert.SavedJob) (alert.SavedJob, error) {
	s.created = append(s.created, j)
	return j, nil
}
func (s *stubSavedJobs) ExistsByOwnerTitleCompany(context.Context, uuid.UUID, string, string) (bool, error) {
	return s.exists, nil
}
func (s *stubSavedJobs) ListByOwner(context.Context, uuid.UUID) ([]alert.SavedJob, error) {
	return s.created, nil
}
func (s *stubSavedJobs) ListUnnotified(context.Context, uuid.UUID) ([]alert.SavedJob, error) {
	return nil, nil
}
func (s *stubSavedJobs) MarkNotified(context.Context, uuid.UUID, []uuid.UUID) error { return nil }
func (s *stubSavedJobs) DeleteByOwner(context.Context, uuid.UUID) (int64, error) {
	return int64(len(s.created)), nil
}

type stubSender struct {
	n   int
	err error
}

func (s stubSender) SendSavedJobs(context.Context, user.User) (int, error) { return s.n, s.err }

func TestSavedJobs_SaveDuplicate(t *testing.T) {
	repo := &stubSavedJobs{exists: true}
	uc := NewSavedJobUsecase(repo, stubUsers{}, stubSender{}, nil)

	_, err := uc.SaveJob(context.Background(), uuid.New(), SaveJobInput{Title: "Go", Company: "Acme"})
	require.ErrorIs(t, err, ErrAlreadySaved)
	require.Empty(t, repo.created)
}

func TestSavedJobs_SaveRequiresTitleAndCompany(t *testing.T) {
	uc := NewSavedJobUsecase(&stubSavedJobs{}, stubUsers{}, stubSender{}, nil)
	_, err := uc.SaveJob(context.Background(), uuid.New(), SaveJobInput{Title: "Go"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSavedJobs_SendErrors(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "a@b.c"}
	users := stubUsers{users: map[uuid.UUID]user.User{owner.ID: owner}}

	_, err := NewSavedJobUsecase(&stubSavedJobs{}, users, stubSender{err: ErrNothingToSend}, nil).SendSavedJobs(context.Background(), owner.ID)
	require.ErrorIs(t, err, ErrNothingToSend)

	_, err = NewSavedJobUsecase(&stubSavedJobs{}, users, stubSender{err: serrors.With(serrors.ErrTransport, "x")}, nil).SendSavedJobs(context.Background(), owner.ID)
	require.ErrorIs(t, err, serrors.ErrTransport)

	_, err = NewSavedJobUsecase(&stubSavedJobs{}, users, stubSender{err: errors.New("db")}, nil).SendSavedJobs(context.Background(), owner.ID)
	require.ErrorIs(t, err, ErrInternal)

	_, err = NewSavedJobUsecase(&stubSavedJobs{}, users, stubSender{}, nil).SendSavedJobs(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)

	n, err := NewSavedJobUsecase(&stubSavedJobs{}, users, stubSender{n: 2}, nil).SendSavedJobs(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}
