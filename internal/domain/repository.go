package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	// Ensure upserts the row for the given identity-provider subject and
	// returns the stored user. Called on first authenticated access and from
	// the register webhook.
	Ensure(ctx context.Context, id string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	SetSubscription(ctx context.Context, id string, subscribed bool, ends *time.Time) (*User, error)
}

// TodoRepository defines persistence for todos.
type TodoRepository interface {
	// Create inserts the todo only while the owner is subscribed or owns
	// fewer than freeLimit todos, checked atomically under a row lock on the
	// owning user. Returns ErrQuotaExceeded when the cap is hit and
	// ErrNotFound when the owner row is absent.
	Create(ctx context.Context, todo *Todo, freeLimit int) (*Todo, error)
	GetByID(ctx context.Context, id string) (*Todo, error)
	ListByUser(ctx context.Context, userID string) ([]Todo, error)
	ListAll(ctx context.Context) ([]Todo, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	SetCompleted(ctx context.Context, id string, completed bool) (*Todo, error)
	Delete(ctx context.Context, id string) error
}
