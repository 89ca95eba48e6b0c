package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fkViolation = "23503"

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

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.CategoryID != "" {
		clauses = append(clauses, fmt.Sprintf("b.category_id = $%d", argn))
		args = append(args, q.CategoryID)
		argn++
	}

	if q.AuthorID != "" {
		clauses = append(clauses, fmt.Sprintf("b.author_id = $%d", argn))
		args = append(args, q.AuthorID)
		argn++
	}

	if q.AvailableOnly {
		clauses = append(clauses, "b.copies_available > 0")
	}

	if q.Q != "" {
		clauses = append(clauses, fmt.Sprintf("(b.title ILIKE $%d OR a.name ILIKE $%d OR b.isbn ILIKE $%d)", argn, argn+1, argn+2))
		pattern := "%" + q.Q + "%"
		args = append(args, pattern, pattern, pattern)
		argn += 3
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	countSQL := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM books b
		JOIN authors a ON a.id = b.author_id
		%s`, where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT b.id, b.title, b.author_id, a.name, b.category_id, c.name,
		       b.published_year, b.isbn, b.copies_available, b.created_at, b.updated_at
		FROM books b
		JOIN authors a ON a.id = b.author_id
		JOIN categories c ON c.id = b.category_id
		%s
		ORDER BY b.title ASC
		LIMIT $%d OFFSET $%d`, where, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.AuthorID, &b.AuthorName, &b.CategoryID, &b.CategoryName,
			&b.PublishedYear, &b.ISBN, &b.CopiesAvailable, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	const query = `
	SELECT b.id, b.title, b.author_id, a.name, b.category_id, c.name,
	       b.published_year, b.isbn, b.copies_available, b.created_at, b.updated_at
	FROM books b
	JOIN authors a ON a.id = b.author_id
	JOIN categories c ON c.id = b.category_id
	WHERE b.id = $1
	LIMIT 1
	`
	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&b.ID, &b.Title, &b.AuthorID, &b.AuthorName, &b.CategoryID, &b.CategoryName,
		&b.PublishedYear, &b.ISBN, &b.CopiesAvailable, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
	INSERT INTO books (id, title, author_id, category_id, published_year, isbn, copies_available)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
	RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		b.Title, b.AuthorID, b.CategoryID, b.PublishedYear, b.ISBN, b.CopiesAvailable,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const query = `
	UPDATE books
	SET title = $2, author_id = $3, category_id = $4, published_year = $5, isbn = $6, updated_at = now()
	WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, b.ID, b.Title, b.AuthorID, b.CategoryID, b.PublishedYear, b.ISBN)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM books WHERE id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return ErrInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
