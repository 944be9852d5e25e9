package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	db DB
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(db DB) *UserRepositoryPG {
	return &UserRepositoryPG{db: db}
}

// Ensure upserts the user row for an identity-provider subject. The conflict
// arm only bumps updated_at; subscription state is never reset by a login.
func (r *UserRepositoryPG) Ensure(ctx context.Context, id string) (*domain.User, error) {
	query := `
INSERT INTO users (id, is_subscribed)
VALUES ($1, FALSE)
ON CONFLICT (id) DO UPDATE
SET updated_at = NOW()
RETURNING id, is_subscribed, subscription_ends, created_at, updated_at;
`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByID fetches a user by identity-provider subject.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
SELECT id, is_subscribed, subscription_ends, created_at, updated_at
FROM users
WHERE id = $1;
`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// SetSubscription updates the externally managed subscription state.
func (r *UserRepositoryPG) SetSubscription(ctx context.Context, id string, subscribed bool, ends *time.Time) (*domain.User, error) {
	query := `
UPDATE users
SET is_subscribed = $2,
    subscription_ends = $3,
    updated_at = NOW()
WHERE id = $1
RETURNING id, is_subscribed, subscription_ends, created_at, updated_at;
`
	return scanUser(r.db.QueryRow(ctx, query, id, subscribed, ends))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.IsSubscribed, &u.SubscriptionEnds, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
