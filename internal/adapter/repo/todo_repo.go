package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/domain"
)

// TodoRepositoryPG implements domain.TodoRepository backed by PostgreSQL.
type TodoRepositoryPG struct {
	db DB
}

// NewTodoRepository creates a new TodoRepositoryPG.
func NewTodoRepository(db DB) *TodoRepositoryPG {
	return &TodoRepositoryPG{db: db}
}

const (
	lockOwnerSQL = `SELECT is_subscribed FROM users WHERE id = $1 FOR UPDATE;`

	countOwnedSQL = `SELECT COUNT(*) FROM todos WHERE user_id = $1;`

	insertTodoSQL = `
INSERT INTO todos (id, user_id, title, completed)
VALUES ($1, $2, $3, FALSE)
RETURNING id, user_id, title, completed, created_at;
`
)

// Create inserts the todo under the free-tier cap. The owner row is locked
// FOR UPDATE first so concurrent creations for the same user serialize. The
// count runs as a separate statement after the lock is held: under read
// committed each statement takes a fresh snapshot, so the count observes
// todos committed by whichever writer held the lock before us. Folding the
// count into the locking statement would evaluate it against the statement's
// pre-lock snapshot and let a blocked writer slip past the cap.
func (r *TodoRepositoryPG) Create(ctx context.Context, todo *domain.Todo, freeLimit int) (*domain.Todo, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var subscribed bool
	if err := tx.QueryRow(ctx, lockOwnerSQL, todo.UserID).Scan(&subscribed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if !subscribed {
		var count int
		if err := tx.QueryRow(ctx, countOwnedSQL, todo.UserID).Scan(&count); err != nil {
			return nil, err
		}
		if count >= freeLimit {
			return nil, domain.ErrQuotaExceeded
		}
	}

	created, err := scanTodo(tx.QueryRow(ctx, insertTodoSQL, todo.ID, todo.UserID, todo.Title))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID fetches a single todo.
func (r *TodoRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	query := `
SELECT id, user_id, title, completed, created_at
FROM todos
WHERE id = $1;
`
	return scanTodo(r.db.QueryRow(ctx, query, id))
}

// ListByUser returns the user's todos, newest first.
func (r *TodoRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	query := `
SELECT id, user_id, title, completed, created_at
FROM todos
WHERE user_id = $1
ORDER BY created_at DESC, id DESC;
`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectTodos(rows)
}

// ListAll returns every user's todos, newest first.
func (r *TodoRepositoryPG) ListAll(ctx context.Context) ([]domain.Todo, error) {
	query := `
SELECT id, user_id, title, completed, created_at
FROM todos
ORDER BY created_at DESC, id DESC;
`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectTodos(rows)
}

// CountByUser returns the user's current todo count.
func (r *TodoRepositoryPG) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM todos WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// SetCompleted toggles completion state.
func (r *TodoRepositoryPG) SetCompleted(ctx context.Context, id string, completed bool) (*domain.Todo, error) {
	query := `
UPDATE todos
SET completed = $2
WHERE id = $1
RETURNING id, user_id, title, completed, created_at;
`
	return scanTodo(r.db.QueryRow(ctx, query, id, completed))
}

// Delete removes a todo. Deleting an absent id yields ErrNotFound.
func (r *TodoRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return mapTodoError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// mapTodoError folds storage-level misses into domain errors. A malformed
// todo id raises 22P02 (invalid_text_representation) from the UUID column;
// to the caller such an id names nothing, the same as a well-formed id with
// no row.
func mapTodoError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return domain.ErrNotFound
	}
	return err
}

func scanTodo(row pgx.Row) (*domain.Todo, error) {
	var t domain.Todo
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
		return nil, mapTodoError(err)
	}
	return &t, nil
}

func collectTodos(rows pgx.Rows) ([]domain.Todo, error) {
	defer rows.Close()
	var todos []domain.Todo
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}
