// Package notify sends appointment emails over SMTP.
package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"patient-portal-server/internal/config"
)

// Mailer delivers plain-text emails through one SMTP server.
type Mailer struct {
	from string
	dial func() (gomail.SendCloser, error)
}

// NewMailer returns a Mailer for cfg, or nil when mail is not configured.
func NewMailer(cfg config.MailerConfig) *Mailer {
	if !cfg.Enabled() {
		return nil
	}
	from := cfg.DefaultFrom
	if from == "" {
		from = cfg.Username
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &Mailer{from: from, dial: d.Dial}
}

// Send emails body to a single recipient.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	conn, err := m.dial()
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer conn.Close()

	if err := gomail.Send(conn, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
