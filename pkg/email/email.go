package email

import (
	"fmt"
	"net/smtp"
)

// Mailer sends plain-text mail over SMTP using settings supplied at
// construction time.
type Mailer struct {
	host     string
	port     string
	sender   string
	password string
}

func NewMailer(host, port, sender, password string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		sender:   sender,
		password: password,
	}
}

// Enabled reports whether the mailer has enough configuration to dial out.
func (m *Mailer) Enabled() bool {
	return m.host != "" && m.sender != ""
}

// Send delivers a plain-text message to a single recipient.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		return fmt.Errorf("smtp is not configured")
	}

	auth := smtp.PlainAuth("", m.sender, m.password, m.host)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	if err := smtp.SendMail(m.host+":"+m.port, auth, m.sender, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
