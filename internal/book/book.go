package book

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrInUse is returned when a book cannot be deleted because loans or
// requests still reference it.
var ErrInUse = errors.New("book has loans or requests")

// Book represents a title in the catalog. CopiesAvailable is owned by the
// inventory ledger and is read-only here.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	AuthorID        string    `json:"author_id"`
	AuthorName      string    `json:"author_name,omitempty"`
	CategoryID      string    `json:"category_id"`
	CategoryName    string    `json:"category_name,omitempty"`
	PublishedYear   *int      `json:"published_year,omitempty"`
	ISBN            *string   `json:"isbn,omitempty"`
	CopiesAvailable int       `json:"copies_available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Query defines filters and pagination for listing books.
type Query struct {
	Q             string
	CategoryID    string
	AuthorID      string
	AvailableOnly bool
	Limit         int
	Offset        int
}
