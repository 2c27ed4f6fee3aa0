package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"job-scraping/internal/domain/alert"
	"job-scraping/internal/domain/job"
	"job-scraping/internal/domain/user"
	"job-scraping/internal/pkg/serrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeSender) SendEmail(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type memorySavedJobs struct {
	mu        sync.Mutex
	jobs      []alert.SavedJob
	markErr   error
	markCalls int
}

func (m *memorySavedJobs) Create(ctx context.Context, j alert.SavedJob) (alert.SavedJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j.ID = uuid.New()
	m.jobs = append(m.jobs, j)
	return j, nil
}

func (m *memorySavedJobs) ExistsByOwnerTitleCompany(ctx context.Context, ownerID uuid.UUID, title, company string) (bool, error) {
	return false, nil
}

func (m *memorySavedJobs) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]alert.SavedJob, error) {
	return m.jobs, nil
}

func (m *memorySavedJobs) ListUnnotified(ctx context.Context, ownerID uuid.UUID) ([]alert.SavedJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []alert.SavedJob{}
	for _, j := range m.jobs {
		if j.OwnerID == ownerID && !j.Notified {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memorySavedJobs) MarkNotified(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markCalls++
	if m.markErr != nil {
		return m.markErr
	}
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	for i := range m.jobs {
		if want[m.jobs[i].ID] {
			m.jobs[i].Notified = true
		}
	}
	return nil
}

func (m *memorySavedJobs) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return 0, nil
}

func strPtr(s string) *string { return &s }

func testUser() user.User {
	return user.User{ID: uuid.New(), Username: "asha", Email: "asha@example.com"}
}

func TestNotifyAlertMatches(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, &memorySavedJobs{}, nil, nil)
	u := testUser()

	listings := []job.Listing{
		{Title: "Go Developer", Company: "Acme", Location: "Pune", Salary: strPtr("₹50,000"), Source: job.SourceLinkedIn, Link: strPtr("https://x/1")},
		{Title: "SRE", Company: "Globex", Location: "Location not specified", Source: job.SourceTimesJobs},
	}
	require.NoError(t, d.NotifyAlertMatches(context.Background(), u, "golang", listings))

	require.Len(t, sender.sent, 1)
	m := sender.sent[0]
	require.Equal(t, "asha@example.com", m.to)
	require.Equal(t, "New Job Listings for Your Search: golang", m.subject)
	require.True(t, strings.HasPrefix(m.body, "Hello asha,\n\nWe found 2 new job listings matching your alert criteria.\n\n"))
	require.Contains(t, m.body, "Title: Go Developer\nCompany: Acme\nLocation: Pune\nSalary: ₹50,000\nSource: LinkedIn\nLink: https://x/1\n\n")
	require.Contains(t, m.body, "Title: SRE\nCompany: Globex\nLocation: Location not specified\nSource: TimesJobs\n\n")
	require.True(t, strings.HasSuffix(m.body, "Best regards,\nYour Job Search Assistant"))
}

func TestNotifyAlertMatches_NoListingsNoEmail(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, &memorySavedJobs{}, nil, nil)

	require.NoError(t, d.NotifyAlertMatches(context.Background(), testUser(), "golang", nil))
	require.Empty(t, sender.sent)
}

func TestNotifyAlertMatches_TransportError(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	d := NewDispatcher(sender, &memorySavedJobs{}, nil, nil)

	err := d.NotifyAlertMatches(context.Background(), testUser(), "golang", []job.Listing{{Title: "a", Company: "b"}})
	require.ErrorIs(t, err, serrors.ErrTransport)
}

func seedSaved(repo *memorySavedJobs, owner uuid.UUID, titles ...string) {
	for _, title := range titles {
		_, _ = repo.Create(context.Background(), alert.SavedJob{OwnerID: owner, Title: title, Company: "Acme", Location: strPtr("Pune"), Link: strPtr("https://x/" + title)})
	}
}

func TestSendSavedJobs_IsIdempotent(t *testing.T) {
	sender := &fakeSender{}
	repo := &memorySavedJobs{}
	u := testUser()
	seedSaved(repo, u.ID, "Go Developer", "SRE")
	d := NewDispatcher(sender, repo, nil, nil)

	n, err := d.SendSavedJobs(context.Background(), u)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, sender.sent, 1)
	require.Equal(t, "Your Saved Job Listings", sender.sent[0].subject)
	require.Contains(t, sender.sent[0].body, "Here are your saved job listings:\n\nTitle: Go Developer\nCompany: Acme\nLocation: Pune\nLink: https://x/Go Developer\n\n")

	for _, j := range repo.jobs {
		require.True(t, j.Notified)
	}

	n, err = d.SendSavedJobs(context.Background(), u)
	require.ErrorIs(t, err, ErrNothingToSend)
	require.Equal(t, 0, n)
	require.Len(t, sender.sent, 1, "notified jobs are never re-sent")
}

func TestSendSavedJobs_OnlyNewJobsAfterFirstSend(t *testing.T) {
	sender := &fakeSender{}
	repo := &memorySavedJobs{}
	u := testUser()
	seedSaved(repo, u.ID, "Go Developer")
	d := NewDispatcher(sender, repo, nil, nil)

	_, err := d.SendSavedJobs(context.Background(), u)
	require.NoError(t, err)

	seedSaved(repo, u.ID, "Data Engineer")
	n, err := d.SendSavedJobs(context.Background(), u)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.NotContains(t, sender.sent[1].body, "Go Developer")
	require.Contains(t, sender.sent[1].body, "Data Engineer")
}

func TestSendSavedJobs_FailedSendLeavesFlags(t *testing.T) {
	sender := &fakeSender{err: errors.New("535 authentication failed")}
	repo := &memorySavedJobs{}
	u := testUser()
	seedSaved(repo, u.ID, "Go Developer", "SRE")
	d := NewDispatcher(sender, repo, nil, nil)

	n, err := d.SendSavedJobs(context.Background(), u)
	require.ErrorIs(t, err, serrors.ErrTransport)
	require.Equal(t, 0, n)
	require.Equal(t, 0, repo.markCalls)
	for _, j := range repo.jobs {
		require.False(t, j.Notified)
	}
}

func TestSendSavedJobs_OtherOwnersUntouched(t *testing.T) {
	sender := &fakeSender{}
	repo := &memorySavedJobs{}
	u := testUser()
	other := uuid.New()
	seedSaved(repo, other, "Elsewhere")
	d := NewDispatcher(sender, repo, nil, nil)

	_, err := d.SendSavedJobs(context.Background(), u)
	require.ErrorIs(t, err, ErrNothingToSend)
	require.False(t, repo.jobs[0].Notified)
}
