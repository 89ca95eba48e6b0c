package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/inventory"
)

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

// InsertTx writes the loan row inside a caller-owned transaction. The request
// approval flow uses it so that the status transition, the inventory debit and
// the loan creation commit as one unit.
func InsertTx(ctx context.Context, tx pgx.Tx, l *Loan) error {
	const insertSQL = `
	INSERT INTO loans (id, book_id, member_id, loan_date, due_date)
	VALUES (gen_random_uuid(), $1, $2, $3, $4)
	RETURNING id
	`
	return tx.QueryRow(ctx, insertSQL, l.BookID, l.MemberID, l.LoanDate, l.DueDate).Scan(&l.ID)
}

func (r *PostgresRepo) Checkout(ctx context.Context, bookID, memberID string, loanDate, dueDate time.Time) (Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Loan{}, err
	}
	defer tx.Rollback(timeoutCtx)

	if err := r.ledger.Reserve(timeoutCtx, tx, bookID); err != nil {
		return Loan{}, err
	}

	l := Loan{BookID: bookID, MemberID: memberID, LoanDate: loanDate, DueDate: dueDate}
	if err := InsertTx(timeoutCtx, tx, &l); err != nil {
		return Loan{}, fmt.Errorf("create loan: %w", err)
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return Loan{}, err
	}
	return l, nil
}

func (r *PostgresRepo) Return(ctx context.Context, id string, returnDate time.Time) (Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Loan{}, err
	}
	defer tx.Rollback(timeoutCtx)

	// The IS NULL predicate makes the close idempotent: a second return
	// matches no row and never credits the ledger twice.
	const closeSQL = `
	UPDATE loans
	SET return_date = $2
	WHERE id = $1 AND return_date IS NULL
	RETURNING id, book_id, member_id, loan_date, due_date, return_date
	`
	var l Loan
	err = tx.QueryRow(timeoutCtx, closeSQL, id, returnDate).Scan(
		&l.ID, &l.BookID, &l.MemberID, &l.LoanDate, &l.DueDate, &l.ReturnDate,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, fmt.Errorf("close loan: %w", err)
		}
		var exists bool
		if err := tx.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM loans WHERE id = $1)`, id).Scan(&exists); err != nil {
			return Loan{}, err
		}
		if !exists {
			return Loan{}, ErrNotFound
		}
		return Loan{}, ErrAlreadyReturned
	}

	if err := r.ledger.Release(timeoutCtx, tx, l.BookID); err != nil {
		return Loan{}, err
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return Loan{}, err
	}
	return l, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	const deleteSQL = `DELETE FROM loans WHERE id = $1 AND return_date IS NOT NULL`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, deleteSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM loans WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrActive
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Loan, error) {
	const query = `
	SELECT l.id, l.book_id, b.title, l.member_id, m.full_name, l.loan_date, l.due_date, l.return_date
	FROM loans l
	JOIN books b ON b.id = l.book_id
	JOIN members m ON m.id = l.member_id
	WHERE l.id = $1
	LIMIT 1
	`
	var l Loan
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&l.ID, &l.BookID, &l.BookTitle, &l.MemberID, &l.MemberName, &l.LoanDate, &l.DueDate, &l.ReturnDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, ErrNotFound
		}
		return Loan{}, err
	}
	return l, nil
}

func (r *PostgresRepo) HasActive(ctx context.Context, memberID, bookID string) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM loans
		WHERE member_id = $1 AND book_id = $2 AND return_date IS NULL
	)
	`
	var exists bool
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, memberID, bookID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]Loan, int, error) {
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM loans`).Scan(&total); err != nil {
		return nil, 0, err
	}

	const dataSQL = `
	SELECT l.id, l.book_id, b.title, l.member_id, m.full_name, l.loan_date, l.due_date, l.return_date
	FROM loans l
	JOIN books b ON b.id = l.book_id
	JOIN members m ON m.id = l.member_id
	ORDER BY l.loan_date DESC
	LIMIT $1 OFFSET $2
	`
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var loans []Loan
	for rows.Next() {
		var l Loan
		if err := rows.Scan(&l.ID, &l.BookID, &l.BookTitle, &l.MemberID, &l.MemberName, &l.LoanDate, &l.DueDate, &l.ReturnDate); err != nil {
			return nil, 0, err
		}
		loans = append(loans, l)
	}
	return loans, total, rows.Err()
}

func (r *PostgresRepo) ListByMember(ctx context.Context, memberID string) ([]Loan, error) {
	const query = `
	SELECT l.id, l.book_id, b.title, l.member_id, m.full_name, l.loan_date, l.due_date, l.return_date
	FROM loans l
	JOIN books b ON b.id = l.book_id
	JOIN members m ON m.id = l.member_id
	WHERE l.member_id = $1
	ORDER BY (l.return_date IS NULL) DESC, l.loan_date DESC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []Loan
	for rows.Next() {
		var l Loan
		if err := rows.Scan(&l.ID, &l.BookID, &l.BookTitle, &l.MemberID, &l.MemberName, &l.LoanDate, &l.DueDate, &l.ReturnDate); err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
