package mailer

import (
	"net/smtp"
	"strings"
	"testing"
)

func TestSendWelcome(t *testing.T) {
	c := New("mail.example.edu:587", "robot", "hunter2", "noreply@example.edu", false)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg string
	c.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		return nil
	}

	if err := c.SendWelcome("a@x.edu", "Amy Lin", "https://cdn.example.co/qrcodes/qr_1.png"); err != nil {
		t.Fatalf("SendWelcome: %v", err)
	}
	if gotAddr != "mail.example.edu:587" || gotFrom != "noreply@example.edu" {
		t.Errorf("addr = %q, from = %q", gotAddr, gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "a@x.edu" {
		t.Errorf("to = %v", gotTo)
	}
	for _, want := range []string{"Amy Lin", "https://cdn.example.co/qrcodes/qr_1.png", "Subject:"} {
		if !strings.Contains(gotMsg, want) {
			t.Errorf("message missing %q:\n%s", want, gotMsg)
		}
	}
}

func TestSendWelcomeSkip(t *testing.T) {
	c := New("", "", "", "noreply@example.edu", true)
	c.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send called despite skip")
		return nil
	}
	if err := c.SendWelcome("a@x.edu", "Amy", "url"); err != nil {
		t.Fatalf("SendWelcome: %v", err)
	}
}
