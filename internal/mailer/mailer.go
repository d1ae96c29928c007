package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Client sends notification email through an external SMTP relay. With Skip
// set it logs instead of sending, so the rest of the system works without a
// mail server.
type Client struct {
	Addr string
	From string
	Skip bool
	auth smtp.Auth

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a mailer. username/password may be empty for unauthenticated
// relays.
func New(addr, username, password, from string, skip bool) *Client {
	var a smtp.Auth
	if username != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		a = smtp.PlainAuth("", username, password, host)
	}
	return &Client{Addr: addr, From: from, Skip: skip, auth: a, send: smtp.SendMail}
}

// SendWelcome mails a registered student a link to their personal QR code.
func (c *Client) SendWelcome(to, name, qrURL string) error {
	if c.Skip || c.Addr == "" {
		log.Printf("mailer: skipping welcome mail to %s", to)
		return nil
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your attendance QR code\r\n\r\n"+
		"Hello %s,\r\n\r\nYour registration is complete. Your personal attendance QR code is available here:\r\n%s\r\n\r\n"+
		"Present it at check-in to record your attendance.\r\n",
		c.From, to, name, qrURL)
	return c.send(c.Addr, c.auth, c.From, []string{to}, []byte(msg))
}
