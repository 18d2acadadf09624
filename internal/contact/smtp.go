package contact

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTP delivers through a mail server with PLAIN auth.
type SMTP struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.To == "" {
		cfg.To = cfg.User
	}
	return &SMTP{cfg: cfg, send: smtp.SendMail}
}

func (s *SMTP) Name() string { return "smtp" }

func (s *SMTP) Send(ctx context.Context, f Form) error {
	if !s.cfg.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	addr := s.cfg.Host + ":" + s.cfg.Port
	if err := s.send(addr, auth, s.cfg.User, []string{s.cfg.To}, s.message(f)); err != nil {
		return fmt.Errorf("smtp: send: %w", err)
	}
	return nil
}

func (s *SMTP) message(f Form) []byte {
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form
`, f.Name, f.Email, f.Subject, f.Message)

	return []byte("To: " + s.cfg.To + "\r\n" +
		"Subject: Portfolio Contact: " + headerSafe(f.Subject) + "\r\n" +
		"From: " + s.cfg.User + "\r\n" +
		"Reply-To: " + headerSafe(f.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerSafe keeps user input from injecting extra mail headers.
func headerSafe(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
