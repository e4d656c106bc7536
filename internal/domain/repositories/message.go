package repositories

import (
	"context"

	"atelier/internal/domain/models"
)

// MessageRepository defines data access operations for contact messages
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)

	// List retrieves all messages, newest first
	List(ctx context.Context) ([]models.Message, error)

	CountUnread(ctx context.Context) (int, error)
	SetRead(ctx context.Context, id int64, read bool) (*models.Message, error)
	Delete(ctx context.Context, id int64) error
}
