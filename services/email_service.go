// services/email_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// EmailSender delivers a single email. Implementations report delivery
// failure through the returned error; the dispatcher classifies it.
type EmailSender interface {
	Send(to, subject, body string) error
}

// SMTPEmailSender sends plain-text mail through an SMTP relay.
type SMTPEmailSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewEmailSender reads the SMTP configuration from the environment.
// Incomplete configuration disables the email capability: sends fail
// with a configuration error while the other channels keep working.
func NewEmailSender() *SMTPEmailSender {
	s := &SMTPEmailSender{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		username: os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASS"),
		from:     os.Getenv("SMTP_FROM"),
	}
	if s.host == "" || s.from == "" {
		log.Println("SMTP not configured; email channel disabled")
	}
	if s.port == "" {
		s.port = "587"
	}
	return s
}

func (s *SMTPEmailSender) Send(to, subject, body string) error {
	if s.host == "" || s.from == "" {
		return errors.New("email transport not configured")
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		s.from, to, subject, body))

	return smtp.SendMail(addr, auth, s.from, []string{to}, msg)
}
