package mailer

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/strahovfest/vstupenky-backend/pkg/config"
)

func testConfig() config.MailConfig {
	return config.MailConfig{
		SMTPHost:   "smtp.example.cz",
		SMTPPort:   587,
		From:       "vstupenky@strahovfest.cz",
		TicketsURL: "https://vstupenky.strahovfest.cz/ticket",
	}
}

func TestNewRequiresFrom(t *testing.T) {
	if _, err := New(config.MailConfig{}, nil); err == nil {
		t.Fatal("expected error for missing sender")
	}
}

func TestDeliverBuildsMessage(t *testing.T) {
	m, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var gotTo []string
	var gotMsg string
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	codes := []string{"famozni-kapybara", "troufala-vydra"}
	err = m.Deliver(context.Background(), "Jana", "jana@example.cz", "uuid-1", codes)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}

	if len(gotTo) != 1 || gotTo[0] != "jana@example.cz" {
		t.Fatalf("unexpected recipients %v", gotTo)
	}
	for _, code := range codes {
		if !strings.Contains(gotMsg, code) {
			t.Fatalf("message missing code %s:\n%s", code, gotMsg)
		}
	}
	if !strings.Contains(gotMsg, "famozni-kapybara,troufala-vydra?uuid=uuid-1") {
		t.Fatalf("message missing ticket link:\n%s", gotMsg)
	}
}

func TestDeliverRejectsEmptyRecipient(t *testing.T) {
	m, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := m.Deliver(context.Background(), "Jana", "  ", "uuid-1", []string{"x"}); err == nil {
		t.Fatal("expected error for empty recipient")
	}
}
