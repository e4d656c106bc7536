package postgres

import (
	"context"
	"fmt"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `id, name, email, message, read, created_at`

// PostgresMessageRepository implements the MessageRepository interface
type PostgresMessageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(config *RepositoryConfig) repositories.MessageRepository {
	return &PostgresMessageRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create stores a new contact message
func (r *PostgresMessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, email, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		msg.Name,
		msg.Email,
		msg.Message,
		msg.Read,
		msg.CreatedAt,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

// GetByID retrieves a message by ID
func (r *PostgresMessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, messageColumns, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	msg, err := scanMessage(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("message %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get message: %w", err)
	}

	return msg, nil
}

// List retrieves all messages, newest first
func (r *PostgresMessageRepository) List(ctx context.Context) ([]models.Message, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at DESC, id DESC
	`, messageColumns, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, *msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// CountUnread returns the number of messages not yet marked read
func (r *PostgresMessageRepository) CountUnread(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE NOT read`, r.tables.Messages)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}

	return count, nil
}

// SetRead updates the read flag and returns the message
func (r *PostgresMessageRepository) SetRead(ctx context.Context, id int64, read bool) (*models.Message, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET read = $1
		WHERE id = $2
		RETURNING %s
	`, r.tables.Messages, messageColumns)

	executor := GetExecutor(ctx, r.pool)
	msg, err := scanMessage(executor.QueryRow(ctx, query, read, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("message %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update message: %w", err)
	}

	return msg, nil
}

// Delete deletes a message
func (r *PostgresMessageRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("message %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Read, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
