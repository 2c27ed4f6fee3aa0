package mail

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"job-scraping/internal/config"
	"job-scraping/internal/pkg/serrors"

	gomail "github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	date := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	body := "Hello asha,\n\nHere are your saved job listings:\n\nTitle: Gö Developer\n"

	raw, err := Compose("Job Search Assistant", "alerts@example.com", "asha@example.com", "Your Saved Job Listings", body, date)
	require.NoError(t, err)

	mr, err := gomail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	require.Equal(t, "Your Saved Job Listings", subject)

	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	require.Equal(t, "asha@example.com", to[0].Address)

	from, err := mr.Header.AddressList("From")
	require.NoError(t, err)
	require.Equal(t, "Job Search Assistant", from[0].Name)

	got, err := mr.Header.Date()
	require.NoError(t, err)
	require.True(t, got.Equal(date))

	part, err := mr.NextPart()
	require.NoError(t, err)
	b, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	require.Equal(t, body, strings.ReplaceAll(string(b), "\r\n", "\n"))
}

func TestSMTPSender_UnreachableIsTransportError(t *testing.T) {
	s := NewSMTPSender(config.SMTPConfig{
		Host:     "127.0.0.1",
		Port:     1,
		Username: "alerts@example.com",
		Password: "secret",
		Timeout:  200 * time.Millisecond,
	}, nil)

	err := s.SendEmail(context.Background(), "asha@example.com", "subject", "body")
	require.ErrorIs(t, err, serrors.ErrTransport)
}

func TestSMTPSender_RejectsMissingInputs(t *testing.T) {
	s := NewSMTPSender(config.SMTPConfig{Host: "127.0.0.1", Port: 1}, nil)

	err := s.SendEmail(context.Background(), "asha@example.com", "s", "b")
	require.ErrorIs(t, err, serrors.ErrTransport)

	s = NewSMTPSender(config.SMTPConfig{Host: "127.0.0.1", Port: 1, Username: "u", Password: "p"}, nil)
	err = s.SendEmail(context.Background(), " ", "s", "b")
	require.ErrorIs(t, err, serrors.ErrTransport)
}
