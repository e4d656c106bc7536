package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/services"
)

type mockNotifier struct {
	mu   sync.Mutex
	sent []int64
	err  error
}

func (m *mockNotifier) NotifyMessage(ctx context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg.ID)
	return nil
}

func TestCreateMessage(t *testing.T) {
	tests := []struct {
		name    string
		req     services.CreateMessageRequest
		wantErr error
	}{
		{"valid", services.CreateMessageRequest{Name: "Ada", Email: "ada@example.com", Message: "Hello"}, nil},
		{"trims fields", services.CreateMessageRequest{Name: " Ada ", Email: " ada@example.com ", Message: " Hi "}, nil},
		{"missing name", services.CreateMessageRequest{Email: "ada@example.com", Message: "Hello"}, domain.ErrValidation},
		{"bad email", services.CreateMessageRequest{Name: "Ada", Email: "not-an-email", Message: "Hello"}, domain.ErrValidation},
		{"blank message", services.CreateMessageRequest{Name: "Ada", Email: "ada@example.com", Message: "  "}, domain.ErrValidation},
		{"message too long", services.CreateMessageRequest{Name: "Ada", Email: "ada@example.com", Message: strings.Repeat("m", 5001)}, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			notifier := &mockNotifier{}
			svc := NewMessageService(&memMessageRepo{env.store}, notifier, env.logger)

			req := tt.req
			msg, err := svc.CreateMessage(context.Background(), &req)
			svc.Wait()

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateMessage() error = %v, want %v", err, tt.wantErr)
				}
				if len(notifier.sent) != 0 {
					t.Error("notification sent for invalid message")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateMessage() unexpected error: %v", err)
			}
			if msg.Read || msg.Name != "Ada" || msg.Email != "ada@example.com" {
				t.Errorf("msg = %+v", msg)
			}
			if len(notifier.sent) != 1 || notifier.sent[0] != msg.ID {
				t.Errorf("sent = %v, want [%d]", notifier.sent, msg.ID)
			}
		})
	}
}

func TestCreateMessage_NotifierFailureIgnored(t *testing.T) {
	env := newTestEnv()
	svc := NewMessageService(&memMessageRepo{env.store}, &mockNotifier{err: errors.New("smtp down")}, env.logger)

	msg, err := svc.CreateMessage(context.Background(), &services.CreateMessageRequest{
		Name: "Ada", Email: "ada@example.com", Message: "Hello",
	})
	svc.Wait()

	if err != nil || msg == nil {
		t.Fatalf("CreateMessage() = %v, %v, want stored message", msg, err)
	}
}

func TestMessageInbox(t *testing.T) {
	env := newTestEnv()
	svc := NewMessageService(&memMessageRepo{env.store}, nil, env.logger)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"A", "B", "C"} {
		m, err := svc.CreateMessage(ctx, &services.CreateMessageRequest{Name: name, Email: "x@example.com", Message: "hi"})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, m.ID)
	}

	if _, err := svc.MarkRead(ctx, ids[0], true); err != nil {
		t.Fatalf("MarkRead() error: %v", err)
	}

	list, err := svc.ListMessages(ctx)
	if err != nil {
		t.Fatalf("ListMessages() error: %v", err)
	}
	if list.Unread != 2 {
		t.Errorf("Unread = %d, want 2", list.Unread)
	}
	if list.Messages[0].ID != ids[2] {
		t.Errorf("first message = %d, want newest %d", list.Messages[0].ID, ids[2])
	}

	if err := svc.DeleteMessage(ctx, ids[1]); err != nil {
		t.Fatalf("DeleteMessage() error: %v", err)
	}
	if err := svc.DeleteMessage(ctx, ids[1]); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
	if _, err := svc.MarkRead(ctx, 999, true); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("MarkRead(999) error = %v, want ErrNotFound", err)
	}
}
