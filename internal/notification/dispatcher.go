// Package notification turns matched listings and saved jobs into emails.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"job-scraping/internal/domain/alert"
	"job-scraping/internal/domain/job"
	"job-scraping/internal/domain/user"
	"job-scraping/internal/infrastructure/mail"
	"job-scraping/internal/pkg/metrics"
	"job-scraping/internal/pkg/serrors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNothingToSend error = serrors.With(serrors.ErrUnprocessable, "no unnotified saved jobs")

const (
	flowAlert    = "alert"
	flowSavedJob = "saved_jobs"
	signature    = "Best regards,\nYour Job Search Assistant"
)

type Dispatcher struct {
	sender    mail.Sender
	savedJobs alert.SavedJobRepository
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewDispatcher(sender mail.Sender, savedJobs alert.SavedJobRepository, m *metrics.Metrics, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sender: sender, savedJobs: savedJobs, metrics: m, logger: logger}
}

// NotifyAlertMatches sends one email listing every match. It keeps no state,
// so the same listings may be sent again on a later run.
func (d *Dispatcher) NotifyAlertMatches(ctx context.Context, u user.User, query string, listings []job.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	subject := "New Job Listings for Your Search: " + query
	err := d.sender.SendEmail(ctx, u.Email, subject, AlertMatchBody(u.Username, listings))
	d.metrics.ObserveEmail(flowAlert, err)
	if err != nil {
		return transportError(err, "alert email for user %s", u.ID)
	}
	d.logger.Info("alert email sent", zap.String("user_id", u.ID.String()), zap.Int("jobs", len(listings)))
	return nil
}

// SendSavedJobs mails every unnotified saved job and then marks exactly those
// rows notified. A failed send leaves every row untouched.
func (d *Dispatcher) SendSavedJobs(ctx context.Context, u user.User) (int, error) {
	pending, err := d.savedJobs.ListUnnotified(ctx, u.ID)
	if err != nil {
		return 0, fmt.Errorf("list unnotified saved jobs: %w", err)
	}
	if len(pending) == 0 {
		return 0, ErrNothingToSend
	}

	err = d.sender.SendEmail(ctx, u.Email, "Your Saved Job Listings", SavedJobsBody(u.Username, pending))
	d.metrics.ObserveEmail(flowSavedJob, err)
	if err != nil {
		return 0, transportError(err, "saved jobs email for user %s", u.ID)
	}

	ids := make([]uuid.UUID, 0, len(pending))
	for _, j := range pending {
		ids = append(ids, j.ID)
	}
	if err := d.savedJobs.MarkNotified(ctx, u.ID, ids); err != nil {
		// The email went out; the rows stay unnotified and will be sent again.
		d.logger.Error("mark saved jobs notified failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		return 0, fmt.Errorf("mark saved jobs notified: %w", err)
	}
	d.logger.Info("saved jobs email sent", zap.String("user_id", u.ID.String()), zap.Int("jobs", len(pending)))
	return len(pending), nil
}

func transportError(err error, format string, args ...any) error {
	if errors.Is(err, serrors.ErrTransport) {
		return err
	}
	return serrors.Wrap(serrors.ErrTransport, err, format, args...)
}

func AlertMatchBody(username string, listings []job.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", username)
	fmt.Fprintf(&b, "We found %d new job listings matching your alert criteria.\n\n", len(listings))
	for _, l := range listings {
		fmt.Fprintf(&b, "Title: %s\n", l.Title)
		fmt.Fprintf(&b, "Company: %s\n", l.Company)
		fmt.Fprintf(&b, "Location: %s\n", l.Location)
		if l.Salary != nil {
			fmt.Fprintf(&b, "Salary: %s\n", *l.Salary)
		}
		fmt.Fprintf(&b, "Source: %s\n", l.Source)
		if l.Link != nil {
			fmt.Fprintf(&b, "Link: %s\n", *l.Link)
		}
		b.WriteString("\n")
	}
	b.WriteString(signature)
	return b.String()
}

func SavedJobsBody(username string, jobs []alert.SavedJob) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", username)
	b.WriteString("Here are your saved job listings:\n\n")
	for _, j := range jobs {
		fmt.Fprintf(&b, "Title: %s\n", j.Title)
		fmt.Fprintf(&b, "Company: %s\n", j.Company)
		fmt.Fprintf(&b, "Location: %s\n", deref(j.Location))
		if j.Salary != nil {
			fmt.Fprintf(&b, "Salary: %s\n", *j.Salary)
		}
		fmt.Fprintf(&b, "Link: %s\n\n", deref(j.Link))
	}
	b.WriteString(signature)
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
