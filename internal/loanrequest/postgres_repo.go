package loanrequest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/inventory"
	"libraryapi/internal/loan"
)

const uniqueViolation = "23505"

type PostgresRepo struct {
	db      *pgxpool.Pool
	ledger  inventory.Ledger
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, ledger inventory.Ledger, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, ledger: ledger, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Create relies on the partial unique index over (member_id, book_id) for
// Pending rows: two racing submits both pass the service pre-check, but only
// one insert lands.
func (r *PostgresRepo) Create(ctx context.Context, req *LoanRequest) error {
	const insertSQL = `
	INSERT INTO loan_requests (id, book_id, member_id, requested_at, status, desired_return_date)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
	RETURNING id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, insertSQL,
		req.BookID, req.MemberID, req.RequestedAt, req.Status, req.DesiredReturnDate,
	).Scan(&req.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicatePending
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (LoanRequest, error) {
	const query = `
	SELECT r.id, r.book_id, b.title, r.member_id, m.full_name, r.requested_at,
	       r.status, r.desired_return_date, r.decided_by, r.decided_at, r.notes
	FROM loan_requests r
	JOIN books b ON b.id = r.book_id
	JOIN members m ON m.id = r.member_id
	WHERE r.id = $1
	LIMIT 1
	`
	var req LoanRequest
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&req.ID, &req.BookID, &req.BookTitle, &req.MemberID, &req.MemberName, &req.RequestedAt,
		&req.Status, &req.DesiredReturnDate, &req.DecidedBy, &req.DecidedAt, &req.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LoanRequest{}, ErrNotFound
		}
		return LoanRequest{}, err
	}
	return req, nil
}

func (r *PostgresRepo) HasPending(ctx context.Context, memberID, bookID string) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM loan_requests
		WHERE member_id = $1 AND book_id = $2 AND status = $3
	)
	`
	var exists bool
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, memberID, bookID, StatusPending).Scan(&exists)
	return exists, err
}

// Approve claims the Pending row first; the conditional UPDATE is what makes
// a double approval lose cleanly. Reserve failure aborts the transaction, so
// a rolled-back reserve never leaves a copy debited without a loan.
func (r *PostgresRepo) Approve(ctx context.Context, id, deciderID string, decidedAt, dueDate time.Time) (loan.Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return loan.Loan{}, err
	}
	defer tx.Rollback(timeoutCtx)

	const claimSQL = `
	UPDATE loan_requests
	SET status = $2, decided_by = $3, decided_at = $4
	WHERE id = $1 AND status = $5
	RETURNING book_id, member_id
	`
	var bookID, memberID string
	err = tx.QueryRow(timeoutCtx, claimSQL, id, StatusApproved, deciderID, decidedAt, StatusPending).Scan(&bookID, &memberID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return loan.Loan{}, fmt.Errorf("approve request: %w", err)
		}
		var exists bool
		if err := tx.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM loan_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
			return loan.Loan{}, err
		}
		if !exists {
			return loan.Loan{}, ErrNotFound
		}
		return loan.Loan{}, ErrNotPending
	}

	if err := r.ledger.Reserve(timeoutCtx, tx, bookID); err != nil {
		return loan.Loan{}, err
	}

	l := loan.Loan{BookID: bookID, MemberID: memberID, LoanDate: decidedAt, DueDate: dueDate}
	if err := loan.InsertTx(timeoutCtx, tx, &l); err != nil {
		return loan.Loan{}, fmt.Errorf("create loan from request: %w", err)
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return loan.Loan{}, err
	}
	return l, nil
}

func (r *PostgresRepo) Deny(ctx context.Context, id, deciderID string, decidedAt time.Time, notes string) error {
	const denySQL = `
	UPDATE loan_requests
	SET status = $2, decided_by = $3, decided_at = $4, notes = COALESCE(NULLIF($5, ''), notes)
	WHERE id = $1 AND status = $6
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, denySQL, id, StatusDenied, deciderID, decidedAt, notes, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM loan_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrNotPending
}

func (r *PostgresRepo) ListPending(ctx context.Context) ([]LoanRequest, error) {
	const query = `
	SELECT r.id, r.book_id, b.title, r.member_id, m.full_name, r.requested_at,
	       r.status, r.desired_return_date, r.decided_by, r.decided_at, r.notes
	FROM loan_requests r
	JOIN books b ON b.id = r.book_id
	JOIN members m ON m.id = r.member_id
	WHERE r.status = $1
	ORDER BY r.requested_at DESC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *PostgresRepo) ListByMember(ctx context.Context, memberID string) ([]LoanRequest, error) {
	const query = `
	SELECT r.id, r.book_id, b.title, r.member_id, m.full_name, r.requested_at,
	       r.status, r.desired_return_date, r.decided_by, r.decided_at, r.notes
	FROM loan_requests r
	JOIN books b ON b.id = r.book_id
	JOIN members m ON m.id = r.member_id
	WHERE r.member_id = $1
	ORDER BY r.requested_at DESC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func scanRequests(rows pgx.Rows) ([]LoanRequest, error) {
	var out []LoanRequest
	for rows.Next() {
		var req LoanRequest
		if err := rows.Scan(
			&req.ID, &req.BookID, &req.BookTitle, &req.MemberID, &req.MemberName, &req.RequestedAt,
			&req.Status, &req.DesiredReturnDate, &req.DecidedBy, &req.DecidedAt, &req.Notes,
		); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
