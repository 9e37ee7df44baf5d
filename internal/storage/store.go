// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/splitsms/splitsms/internal/models"
)

// Store defines the interface for expense, message, friend and user
// persistence. The abstraction allows swapping storage backends without
// changing the service layer.
type Store interface {
	// CreateExpense persists a new expense. A missing ID is generated.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns all expenses, newest first.
	ListExpenses(ctx context.Context) ([]*models.Expense, error)

	// DeleteExpense removes an expense and its split entries.
	// Returns an error if the expense does not exist.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateMessage persists a raw payment message.
	CreateMessage(ctx context.Context, message *models.Message) error

	// ListMessages returns all stored messages, newest first.
	ListMessages(ctx context.Context) ([]*models.Message, error)

	// MarkMessageProcessed flags a message as turned into an expense.
	MarkMessageProcessed(ctx context.Context, messageID string, processed bool) error

	// AddFriend adds a roster member by name. Adding an existing name is
	// a no-op that returns the stored friend.
	AddFriend(ctx context.Context, name string) (*models.Friend, error)

	// ListFriends returns the roster in insertion order.
	ListFriends(ctx context.Context) ([]*models.Friend, error)

	// DeleteFriend removes a roster member by ID.
	DeleteFriend(ctx context.Context, friendID string) error

	// CreateUser inserts a new API user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email, or nil if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID, or nil if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
