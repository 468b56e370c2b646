// internal/app/system/mailer/mailer.go
//
// Package mailer delivers the two assignment notification variants over
// SMTP. Delivery is fire-and-forget from the workflow's point of view: the
// engine calls it as the last pipeline stage and nothing is rolled back if
// it fails.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// CredentialError marks an SMTP authentication rejection. The assignment
// engine excludes these from retry: resending with the same bad credential
// cannot succeed. Carries the server's original message.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	return "mail gateway rejected credentials: " + e.Err.Error()
}

func (e *CredentialError) Unwrap() error { return e.Err }

// Config holds SMTP settings, loaded from app config at startup.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// Mailer sends assignment emails through a single SMTP endpoint.
type Mailer struct {
	cfg Config
	log *zap.Logger

	// send is swapped in tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg Config, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{cfg: cfg, log: logger, send: smtp.SendMail}
}

// Email is one outbound message with both bodies.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// SendStatusChangeEmail tells the assignee their BRD moved to a new status.
func (m *Mailer) SendStatusChangeEmail(ctx context.Context, contact, brdID, brdName, formID, status string) error {
	msg := BuildStatusChangeEmail(StatusChangeData{
		BrdID:   brdID,
		BrdName: brdName,
		FormID:  formID,
		Status:  status,
	})
	msg.To = contact
	return m.deliver(ctx, msg)
}

// SendWelcomeEmail greets a newly assigned responsible party.
func (m *Mailer) SendWelcomeEmail(ctx context.Context, contact, brdID, brdName, formID string) error {
	msg := BuildWelcomeEmail(WelcomeData{
		BrdID:   brdID,
		BrdName: brdName,
		FormID:  formID,
	})
	msg.To = contact
	return m.deliver(ctx, msg)
}

func (m *Mailer) deliver(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	err := m.send(addr, auth, m.cfg.From, []string{e.To}, buildMessage(m.cfg, e))
	if err != nil {
		if isAuthRejection(err) {
			m.log.Error("smtp credentials rejected", zap.String("host", m.cfg.Host), zap.Error(err))
			return &CredentialError{Err: err}
		}
		m.log.Error("mail delivery failed",
			zap.String("to", e.To),
			zap.String("subject", e.Subject),
			zap.Error(err))
		return err
	}
	m.log.Info("mail sent", zap.String("to", e.To), zap.String("subject", e.Subject))
	return nil
}

// buildMessage assembles a multipart/alternative MIME message.
func buildMessage(cfg Config, e Email) []byte {
	const boundary = "brdhub-mime-boundary"
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", cfg.FromName, cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", e.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, e.TextBody)
	if e.HTMLBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, e.HTMLBody)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// isAuthRejection recognizes SMTP authentication failures. 535 is the
// standard "authentication credentials invalid" reply; 534 covers
// mechanism-level rejections (e.g. SES with bad keys).
func isAuthRejection(err error) bool {
	if err == nil {
		return false
	}
	var cred *CredentialError
	if errors.As(err, &cred) {
		return true
	}
	s := err.Error()
	return strings.HasPrefix(s, "535") || strings.HasPrefix(s, "534") ||
		strings.Contains(s, "535 ") || strings.Contains(s, "534 ")
}
