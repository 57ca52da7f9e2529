package database

import (
	"context"
	"database/sql"
	"errors"
)

var ErrNilDB = errors.New("nil db")

type DB interface {
	Querier

	Ping(ctx context.Context) error
	Close() error

	Begin(ctx context.Context) (Tx, error)

	SQLDB() *sql.DB
}

// Querier is the subset shared by DB and Tx so repositories can run the
// same statements inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

type Tx interface {
	Querier

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Close()
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type Row interface {
	Scan(dest ...any) error
}

// WithTx runs fn inside a transaction. The transaction is rolled back when fn
// returns an error or panics.
func WithTx(ctx context.Context, db DB, fn func(tx Tx) error) (err error) {
	if db == nil {
		return ErrNilDB
	}
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tx.Rollback(context.Background())
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}
