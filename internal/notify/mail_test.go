package notify

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"atelier/internal/domain/models"
)

func testMessage() *models.Message {
	return &models.Message{
		ID:        7,
		Name:      "Ada",
		Email:     "ada@example.com",
		Message:   "Could you redo our kitchen?",
		CreatedAt: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestBuildMessage(t *testing.T) {
	n := NewMailNotifier(MailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		From:     "site@example.com",
		To:       "owner@example.com",
		SiteName: "Atelier",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	m, err := n.buildMessage(testMessage())
	if err != nil {
		t.Fatalf("buildMessage() error: %v", err)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error: %v", err)
	}
	raw := buf.String()

	for _, want := range []string{
		"Subject: [Atelier] New contact message from Ada",
		"To: <owner@example.com>",
		"Reply-To: <ada@example.com>",
		"Could you redo our kitchen?",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q\n%s", want, raw)
		}
	}
}

func TestBuildMessage_InvalidSender(t *testing.T) {
	n := NewMailNotifier(MailConfig{From: "not an address", To: "owner@example.com"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := n.buildMessage(testMessage()); err == nil {
		t.Error("buildMessage() succeeded with invalid sender")
	}
}

func TestBody(t *testing.T) {
	got := body(testMessage())
	want := "Name: Ada\nEmail: ada@example.com\nReceived: 2025-03-01 10:30 UTC\n\nCould you redo our kitchen?\n"
	if got != want {
		t.Errorf("body() = %q, want %q", got, want)
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := n.NotifyMessage(context.Background(), testMessage()); err != nil {
		t.Fatalf("NotifyMessage() error: %v", err)
	}
	if !strings.Contains(buf.String(), "ada@example.com") {
		t.Errorf("log = %q, want sender address", buf.String())
	}
}
