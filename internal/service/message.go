package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"atelier/internal/config"
	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
	"atelier/internal/metrics"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// notifyTimeout bounds a single operator notification
const notifyTimeout = 30 * time.Second

// MessageService implements services.MessageService.
// Notifications are sent in the background; Wait blocks until they finish.
type MessageService struct {
	messageRepo repositories.MessageRepository
	notifier    services.Notifier
	logger      *slog.Logger
	wg          sync.WaitGroup
}

// NewMessageService creates a new message service. notifier may be nil.
func NewMessageService(
	messageRepo repositories.MessageRepository,
	notifier services.Notifier,
	logger *slog.Logger,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateMessage stores a contact form submission and notifies the operator
func (s *MessageService) CreateMessage(ctx context.Context, req *services.CreateMessageRequest) (*models.Message, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxContactNameLength)),
		validation.Field(&req.Email, validation.Required, is.EmailFormat, validation.Length(1, 255)),
		validation.Field(&req.Message, validation.Required, validation.Length(1, config.MaxContactMessageLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	msg := &models.Message{
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	metrics.MessagesReceived.Inc()
	s.logger.Info("message received", "id", msg.ID)

	if s.notifier != nil {
		s.wg.Add(1)
		go s.notify(context.WithoutCancel(ctx), *msg)
	}

	return msg, nil
}

func (s *MessageService) notify(ctx context.Context, msg models.Message) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyMessage(ctx, &msg); err != nil {
		metrics.Notifications.WithLabelValues(metrics.ResultError).Inc()
		s.logger.Warn("message notification failed", "id", msg.ID, "error", err)
		return
	}
	metrics.Notifications.WithLabelValues(metrics.ResultOK).Inc()
}

// Wait blocks until pending notifications have finished
func (s *MessageService) Wait() {
	s.wg.Wait()
}

// ListMessages returns the inbox, newest first, with the unread count
func (s *MessageService) ListMessages(ctx context.Context) (*services.MessageList, error) {
	messages, err := s.messageRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	unread, err := s.messageRepo.CountUnread(ctx)
	if err != nil {
		return nil, err
	}

	return &services.MessageList{Messages: messages, Unread: unread}, nil
}

// MarkRead sets the read flag
func (s *MessageService) MarkRead(ctx context.Context, id int64, read bool) (*models.Message, error) {
	msg, err := s.messageRepo.SetRead(ctx, id, read)
	if err != nil {
		return nil, err
	}

	s.logger.Info("message updated", "id", id, "read", read)
	return msg, nil
}

// DeleteMessage deletes a message
func (s *MessageService) DeleteMessage(ctx context.Context, id int64) error {
	if err := s.messageRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("message deleted", "id", id)
	return nil
}
