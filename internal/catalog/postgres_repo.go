package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fkViolation = "23503"

type Repository interface {
	ListAuthors(ctx context.Context) ([]Author, error)
	CreateAuthor(ctx context.Context, a *Author) error
	DeleteAuthor(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) error
}

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

func (r *PostgresRepo) ListAuthors(ctx context.Context) ([]Author, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, `SELECT id, name, created_at FROM authors ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (r *PostgresRepo) CreateAuthor(ctx context.Context, a *Author) error {
	const query = `
	INSERT INTO authors (id, name)
	VALUES (gen_random_uuid(), $1)
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, a.Name).Scan(&a.ID, &a.CreatedAt)
}

func (r *PostgresRepo) DeleteAuthor(ctx context.Context, id string) error {
	return r.deleteRow(ctx, `DELETE FROM authors WHERE id = $1`, id)
}

func (r *PostgresRepo) ListCategories(ctx context.Context) ([]Category, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, `SELECT id, name, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepo) CreateCategory(ctx context.Context, c *Category) error {
	const query = `
	INSERT INTO categories (id, name)
	VALUES (gen_random_uuid(), $1)
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, c.Name).Scan(&c.ID, &c.CreatedAt)
}

func (r *PostgresRepo) DeleteCategory(ctx context.Context, id string) error {
	return r.deleteRow(ctx, `DELETE FROM categories WHERE id = $1`, id)
}

func (r *PostgresRepo) deleteRow(ctx context.Context, sql, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, id)
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
