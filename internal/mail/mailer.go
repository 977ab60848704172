package mail

import (
	"fmt"
	"net/smtp"

	"github.com/perfectcherry/cherry-server/internal/config"
)

// InterestEvent names the notification sent when an interest changes hands.
type InterestEvent string

const (
	InterestNew      InterestEvent = "new"
	InterestAccepted InterestEvent = "accepted"
	InterestDeclined InterestEvent = "declined"
)

// Mailer delivers the service's notification emails. Implementations return
// an error so callers can decide whether delivery failure fails the request.
type Mailer interface {
	SendInterestMail(event InterestEvent, toEmail string) error
	SendPasswordResetMail(toEmail string) error
	SendTempPasswordMail(toEmail, password string) error
}

// SMTPMailer sends through a plain-auth SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	var auth smtp.Auth
	if cfg.SMTP.User != "" {
		auth = smtp.PlainAuth("", cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.Host)
	}
	return &SMTPMailer{
		addr: cfg.SMTP.Host + ":" + cfg.SMTP.Port,
		auth: auth,
		from: cfg.SMTP.From,
	}
}

func (m *SMTPMailer) SendInterestMail(event InterestEvent, toEmail string) error {
	var subject, body string
	switch event {
	case InterestNew:
		subject = "Someone is interested in you"
		body = "You have received a new interest. Log in to accept or decline it."
	case InterestAccepted:
		subject = "Your interest was accepted"
		body = "Good news: your interest was accepted. Log in to start the conversation."
	case InterestDeclined:
		subject = "Your interest was declined"
		body = "Your interest was declined this time. Keep exploring profiles near you."
	default:
		return fmt.Errorf("unknown interest event: %s", event)
	}
	return m.send(toEmail, subject, body)
}

func (m *SMTPMailer) SendPasswordResetMail(toEmail string) error {
	return m.send(toEmail, "Your password was changed",
		"Your account password was just reset. If this was not you, contact support immediately.")
}

func (m *SMTPMailer) SendTempPasswordMail(toEmail, password string) error {
	return m.send(toEmail, "Your temporary password",
		fmt.Sprintf("Your temporary password is: %s\r\nPlease log in and change it right away.", password))
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if m.addr == ":" || m.addr == "" {
		return fmt.Errorf("smtp host is not configured")
	}
	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body + "\r\n")
	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg)
}
