// Package mail sends transactional email over SMTP.
package mail

import (
	"fmt"

	"inkwell/internal/config"
	"inkwell/internal/observability"

	"gopkg.in/gomail.v2"
)

// Sender delivers application email. Services depend on this interface so
// tests can swap in a recording fake.
type Sender interface {
	SendVerificationEmail(to, username, link string) error
}

// SMTPSender sends mail through a gomail dialer.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender builds a sender from the application configuration.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

// SendVerificationEmail sends the account activation email containing the
// verification link.
func (s *SMTPSender) SendVerificationEmail(to, username, link string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Activate your account")
	m.SetBody("text/html", fmt.Sprintf(
		"Hello %s,<br><br>Use the link below to verify your account:<br><a href=%q>%s</a>",
		username, link, link,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		observability.EmailsSent.WithLabelValues("verification", "error").Inc()
		return err
	}
	observability.EmailsSent.WithLabelValues("verification", "ok").Inc()
	return nil
}
