package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// simpleRow adapts a scan function to pgx.Row. A nil scan function behaves
// like an empty result.
type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

func errRow(err error) simpleRow {
	return simpleRow{scan: func(...any) error { return err }}
}

type fakeDB struct {
	tx       *fakeTx
	beginErr error

	queryRow func(sql string, args []any) pgx.Row
	exec     func(sql string, args []any) (pgconn.CommandTag, error)
	query    func(sql string, args []any) (pgx.Rows, error)
}

func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	if f.queryRow == nil {
		return simpleRow{}
	}
	return f.queryRow(sql, args)
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.exec == nil {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected exec: %s", sql)
	}
	return f.exec(sql, args)
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.query == nil {
		return nil, fmt.Errorf("unexpected query: %s", sql)
	}
	return f.query(sql, args)
}

// txStub covers the pgx.Tx surface the repositories never touch.
type txStub struct{}

func (txStub) Begin(context.Context) (pgx.Tx, error) {
	return nil, fmt.Errorf("nested begin not supported")
}

func (txStub) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, fmt.Errorf("copy not supported")
}

func (txStub) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }

func (txStub) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (txStub) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, fmt.Errorf("prepare not supported")
}

func (txStub) Conn() *pgx.Conn { return nil }

// fakeTx scripts the three statements Create issues and records their order.
type fakeTx struct {
	txStub

	ownerMissing bool
	subscribed   bool
	count        int
	insertErr    error

	statements []string
	committed  bool
	rolledBack bool
}

func (t *fakeTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	t.statements = append(t.statements, sql)
	switch {
	case strings.Contains(sql, "FOR UPDATE"):
		if t.ownerMissing {
			return simpleRow{}
		}
		return simpleRow{scan: func(dest ...any) error {
			*(dest[0].(*bool)) = t.subscribed
			return nil
		}}
	case strings.Contains(sql, "COUNT(*)"):
		return simpleRow{scan: func(dest ...any) error {
			*(dest[0].(*int)) = t.count
			return nil
		}}
	case strings.Contains(sql, "INSERT INTO todos"):
		if t.insertErr != nil {
			return errRow(t.insertErr)
		}
		id, _ := args[0].(string)
		userID, _ := args[1].(string)
		title, _ := args[2].(string)
		return simpleRow{scan: func(dest ...any) error {
			*(dest[0].(*string)) = id
			*(dest[1].(*string)) = userID
			*(dest[2].(*string)) = title
			*(dest[3].(*bool)) = false
			*(dest[4].(*time.Time)) = time.Now()
			return nil
		}}
	default:
		return errRow(fmt.Errorf("unexpected statement: %s", sql))
	}
}

func (t *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	t.statements = append(t.statements, sql)
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("unexpected query in tx: %s", sql)
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}
