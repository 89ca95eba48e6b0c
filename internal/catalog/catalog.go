// Package catalog holds the librarian-maintained author and category lists.
package catalog

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrInUse is returned when deletion is refused because books still
	// reference the row.
	ErrInUse = errors.New("still referenced by books")
)

type Author struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
