package services

import (
	"context"

	"atelier/internal/domain/models"
)

// CreateMessageRequest is a public contact form submission
type CreateMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// MessageList is the admin inbox view
type MessageList struct {
	Messages []models.Message `json:"messages"`
	Unread   int              `json:"unread"`
}

// MessageService defines business logic operations for contact messages
type MessageService interface {
	CreateMessage(ctx context.Context, req *CreateMessageRequest) (*models.Message, error)
	ListMessages(ctx context.Context) (*MessageList, error)
	MarkRead(ctx context.Context, id int64, read bool) (*models.Message, error)
	DeleteMessage(ctx context.Context, id int64) error
}

// Notifier tells the operator about a new contact message
type Notifier interface {
	NotifyMessage(ctx context.Context, msg *models.Message) error
}
