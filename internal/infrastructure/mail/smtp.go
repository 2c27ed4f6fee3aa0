package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"job-scraping/internal/config"
	"job-scraping/internal/pkg/serrors"

	gomail "github.com/emersion/go-message/mail"
	"go.uber.org/zap"
)

// Sender delivers a single plain text email.
type Sender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMTPSender talks implicit TLS first and falls back to STARTTLS on the same
// address when the TLS dial fails.
type SMTPSender struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
	now    func() time.Time
	dialer *net.Dialer
}

func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) *SMTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SMTPSender{cfg: cfg, logger: logger, now: time.Now, dialer: &net.Dialer{Timeout: timeout}}
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return serrors.With(serrors.ErrTransport, "recipient address is empty")
	}
	if strings.TrimSpace(s.cfg.Username) == "" || s.cfg.Password == "" {
		return serrors.With(serrors.ErrTransport, "smtp credentials not configured")
	}

	msg, err := Compose(s.cfg.FromName, s.cfg.Username, to, subject, body, s.now())
	if err != nil {
		return serrors.Wrap(serrors.ErrTransport, err, "compose message")
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := s.sendWithTLS(ctx, addr, auth, to, msg); err != nil {
		s.logger.Warn("smtp send failed", zap.String("addr", addr), zap.Error(err))
		return serrors.Wrap(serrors.ErrTransport, err, "send to %s", to)
	}
	s.logger.Info("email sent", zap.String("subject", subject))
	return nil
}

func (s *SMTPSender) deadline(ctx context.Context) time.Time {
	dl := s.now().Add(s.dialer.Timeout)
	if ctxDl, ok := ctx.Deadline(); ok && ctxDl.Before(dl) {
		return ctxDl
	}
	return dl
}

func (s *SMTPSender) sendWithTLS(ctx context.Context, addr string, auth smtp.Auth, to string, msg []byte) error {
	raw, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	conn := tls.Client(raw, &tls.Config{ServerName: s.cfg.Host})
	_ = conn.SetDeadline(s.deadline(ctx))
	if err := conn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		s.logger.Debug("implicit tls failed, trying starttls", zap.Error(err))
		return s.sendWithSTARTTLS(ctx, addr, auth, to, msg)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer client.Close()
	return s.deliver(client, auth, to, msg)
}

func (s *SMTPSender) sendWithSTARTTLS(ctx context.Context, addr string, auth smtp.Auth, to string, msg []byte) error {
	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to smtp server: %w", err)
	}
	_ = conn.SetDeadline(s.deadline(ctx))

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
		return fmt.Errorf("start tls: %w", err)
	}
	return s.deliver(client, auth, to, msg)
}

func (s *SMTPSender) deliver(client *smtp.Client, auth smtp.Auth, to string, msg []byte) error {
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp authentication failed: %w", err)
	}
	if err := client.Mail(s.cfg.Username); err != nil {
		return fmt.Errorf("set mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("set mail recipient: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("start data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data writer: %w", err)
	}
	return client.Quit()
}

// Compose renders a single-part text/plain message.
func Compose(fromName, from, to, subject, body string, date time.Time) ([]byte, error) {
	var h gomail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*gomail.Address{{Name: fromName, Address: from}})
	h.SetAddressList("To", []*gomail.Address{{Address: to}})
	h.SetSubject(subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w, err := gomail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte(body)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ Sender = (*SMTPSender)(nil)
