package utils

import (
	"fmt"
	"net/smtp"

	"github.com/princinho/storefront-backend/config"
)

// Mailer sends transactional mail over SMTP. A nil Mailer is a no-op so the
// rest of the app never has to check whether SMTP is configured.
type Mailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewMailer(cfg config.SMTP) *Mailer {
	if cfg.Host == "" || cfg.From == "" {
		return nil
	}
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &Mailer{
		addr: cfg.Host + ":" + cfg.Port,
		auth: auth,
		from: cfg.From,
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	if m == nil {
		return fmt.Errorf("smtp not configured")
	}
	msg := "From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body
	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg))
}
