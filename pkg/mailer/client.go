package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Sender delivers one HTML email. The email dispatch facade depends on
// this interface so tests can substitute a mock.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// Client sends HTML mail over SMTP. When Enabled is false (local
// development) it logs the message instead of sending.
type Client struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewClient(host, port, username, password, from string, enabled bool) *Client {
	return &Client{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		Enabled:  enabled,
	}
}

func (c *Client) Send(to, subject, htmlBody string) error {
	if !c.Enabled {
		log.Printf("[MAIL] Would send to %s: %s", to, subject)
		return nil
	}
	if c.Host == "" || c.Username == "" || c.Password == "" {
		return fmt.Errorf("mailer not properly configured")
	}

	headers := []string{
		"From: " + c.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	}
	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	auth := smtp.PlainAuth("", c.Username, c.Password, c.Host)
	addr := c.Host + ":" + c.Port
	if err := smtp.SendMail(addr, auth, c.From, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
