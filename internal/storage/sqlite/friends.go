package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitsms/splitsms/internal/models"
)

// AddFriend adds a roster member. Names are unique: adding an existing
// name returns the stored friend unchanged.
func (s *SQLiteStore) AddFriend(ctx context.Context, name string) (*models.Friend, error) {
	existing := &models.Friend{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, added_at FROM friends WHERE name = ?", name,
	).Scan(&existing.ID, &existing.Name, &existing.AddedAt)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check friend: %w", err)
	}

	friend := &models.Friend{
		ID:      uuid.New().String(),
		Name:    name,
		AddedAt: time.Now().UnixMilli(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO friends (id, name, added_at) VALUES (?, ?, ?)",
		friend.ID, friend.Name, friend.AddedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert friend: %w", err)
	}

	return friend, nil
}

// ListFriends retrieves the roster in insertion order.
func (s *SQLiteStore) ListFriends(ctx context.Context) ([]*models.Friend, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, added_at FROM friends ORDER BY added_at, name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*models.Friend
	for rows.Next() {
		friend := &models.Friend{}
		if err := rows.Scan(&friend.ID, &friend.Name, &friend.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, friend)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}

	return friends, nil
}

// DeleteFriend removes a roster member by ID.
func (s *SQLiteStore) DeleteFriend(ctx context.Context, friendID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM friends WHERE id = ?", friendID)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("friend not found: %s", friendID)
	}
	return nil
}
