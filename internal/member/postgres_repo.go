package member

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) GetByUserID(ctx context.Context, userID string) (Member, error) {
	const query = `
	SELECT id, full_name, email, user_id, created_at
	FROM members
	WHERE user_id = $1
	LIMIT 1
	`
	var m Member
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, userID).Scan(&m.ID, &m.FullName, &m.Email, &m.UserID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}
	return m, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Member, error) {
	const query = `
	SELECT id, full_name, email, user_id, created_at
	FROM members
	WHERE id = $1
	LIMIT 1
	`
	var m Member
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&m.ID, &m.FullName, &m.Email, &m.UserID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}
	return m, nil
}

// CreateForUser inserts the member row, losing the race gracefully: when a
// concurrent insert for the same account wins, the ON CONFLICT clause drops
// ours and the re-read returns the winner.
func (r *PostgresRepo) CreateForUser(ctx context.Context, userID, fullName, email string) (Member, error) {
	const insertSQL = `
	INSERT INTO members (id, full_name, email, user_id)
	VALUES (gen_random_uuid(), $1, NULLIF($2, ''), $3)
	ON CONFLICT (user_id) DO NOTHING
	RETURNING id, full_name, email, user_id, created_at
	`
	var m Member
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, insertSQL, fullName, email, userID).Scan(&m.ID, &m.FullName, &m.Email, &m.UserID, &m.CreatedAt)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Member{}, fmt.Errorf("create member: %w", err)
	}
	return r.GetByUserID(ctx, userID)
}

// PurgeAccount removes the account row and, when a member is linked, every
// loan and loan request of that member plus the member itself, all in one
// transaction. A crash mid-purge leaves everything in place.
func (r *PostgresRepo) PurgeAccount(ctx context.Context, userID string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	var memberID *string
	err = tx.QueryRow(timeoutCtx, `SELECT id FROM members WHERE user_id = $1`, userID).Scan(&memberID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("purge account: %w", err)
	}

	if memberID != nil {
		var hasActive bool
		const activeSQL = `SELECT EXISTS (SELECT 1 FROM loans WHERE member_id = $1 AND return_date IS NULL)`
		if err := tx.QueryRow(timeoutCtx, activeSQL, *memberID).Scan(&hasActive); err != nil {
			return fmt.Errorf("purge account: %w", err)
		}
		if hasActive {
			return ErrActiveLoan
		}

		if _, err := tx.Exec(timeoutCtx, `DELETE FROM loans WHERE member_id = $1`, *memberID); err != nil {
			return fmt.Errorf("purge loans: %w", err)
		}
		if _, err := tx.Exec(timeoutCtx, `DELETE FROM loan_requests WHERE member_id = $1`, *memberID); err != nil {
			return fmt.Errorf("purge loan requests: %w", err)
		}
		if _, err := tx.Exec(timeoutCtx, `DELETE FROM members WHERE id = $1`, *memberID); err != nil {
			return fmt.Errorf("purge member: %w", err)
		}
	}

	tag, err := tx.Exec(timeoutCtx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("purge user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(timeoutCtx)
}
