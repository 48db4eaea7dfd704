package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/pms/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Sender delivers an email message
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// retryDelays is the fixed backoff between attempts. Only
// timeout-class failures are retried; permanent SMTP rejections fail
// the first attempt.
var retryDelays = []time.Duration{2 * time.Second, 5 * time.Second, 10 * time.Second}

// SMTPMailer sends mail over a pooled SMTP connection. The connection
// is dialed lazily and kept open between sends.
type SMTPMailer struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
	logger *zap.Logger

	mu   sync.Mutex
	conn gomail.SendCloser
}

// NewSMTPMailer creates a pooled SMTP mailer
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger.Named("mail"),
	}
}

// Send delivers one message, retrying timeout-class failures with
// fixed backoff. The context bounds the whole attempt sequence.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("mail: recipient is empty")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	if m.cfg.ReplyTo != "" {
		msg.SetHeader("Reply-To", m.cfg.ReplyTo)
	}
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	var lastErr error
	for attempt := 0; attempt < len(retryDelays); attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = m.sendOnce(msg)
		if lastErr == nil {
			m.logger.Info("mail sent", zap.String("to", to), zap.Int("attempt", attempt+1))
			return nil
		}
		if !isTimeoutClass(lastErr) {
			return fmt.Errorf("mail: %w", lastErr)
		}
		if attempt == len(retryDelays)-1 {
			// out of attempts, fail without waiting out the last backoff
			break
		}

		m.logger.Warn("mail send timed out, retrying",
			zap.String("to", to),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", retryDelays[attempt]),
			zap.Error(lastErr),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelays[attempt]):
		}
	}

	return fmt.Errorf("mail: %w", lastErr)
}

// sendOnce sends on the pooled connection, re-dialing when the
// previous connection went stale.
func (m *SMTPMailer) sendOnce(msg *gomail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		conn, err := m.dialer.Dial()
		if err != nil {
			return err
		}
		m.conn = conn
	}

	if err := gomail.Send(m.conn, msg); err != nil {
		// Drop the connection; the next attempt re-dials
		_ = m.conn.Close()
		m.conn = nil
		return err
	}

	return nil
}

// Close shuts the pooled connection down
func (m *SMTPMailer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

// isTimeoutClass reports whether an error is worth retrying.
// Permanent rejections (bad address, auth failure) are not.
func isTimeoutClass(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "timed out") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "connection refused")
}

var _ Sender = (*SMTPMailer)(nil)
