// Package inventory owns the copies_available column on books. Every stock
// movement goes through the Ledger so the non-negative invariant holds no
// matter which flow (checkout, approval, return) triggers it.
package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound   = errors.New("book not found")
	ErrOutOfStock = errors.New("no copies available")
)

// Querier is the slice of pgx shared by *pgxpool.Pool and pgx.Tx, so ledger
// movements can join a caller-owned transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Ledger struct{}

func NewLedger() Ledger {
	return Ledger{}
}

// Reserve debits one copy. The conditional UPDATE is the whole concurrency
// story: two racing reservations for the last copy serialize on the row lock
// and the loser matches zero rows.
func (Ledger) Reserve(ctx context.Context, q Querier, bookID string) error {
	const reserveSQL = `
	UPDATE books
	SET copies_available = copies_available - 1, updated_at = now()
	WHERE id = $1 AND copies_available > 0
	`
	tag, err := q.Exec(ctx, reserveSQL, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, bookID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrOutOfStock
}

// Release credits one copy back on return.
func (Ledger) Release(ctx context.Context, q Querier, bookID string) error {
	const releaseSQL = `
	UPDATE books
	SET copies_available = copies_available + 1, updated_at = now()
	WHERE id = $1
	`
	tag, err := q.Exec(ctx, releaseSQL, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
