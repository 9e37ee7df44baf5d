package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitsms/splitsms/internal/models"
)

// CreateMessage persists a raw payment message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	processed := 0
	if message.Processed {
		processed = 1
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (id, text, processed, timestamp) VALUES (?, ?, ?, ?)",
		message.ID, message.Text, processed, message.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// ListMessages retrieves all stored messages, newest first.
func (s *SQLiteStore) ListMessages(ctx context.Context) ([]*models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, text, processed, timestamp FROM messages ORDER BY timestamp DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		message := &models.Message{}
		var processed int
		if err := rows.Scan(&message.ID, &message.Text, &processed, &message.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		message.Processed = processed != 0
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

// MarkMessageProcessed flags whether a message produced an expense.
func (s *SQLiteStore) MarkMessageProcessed(ctx context.Context, messageID string, processed bool) error {
	value := 0
	if processed {
		value = 1
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE messages SET processed = ? WHERE id = ?",
		value, messageID,
	)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("message not found: %s", messageID)
	}
	return nil
}
