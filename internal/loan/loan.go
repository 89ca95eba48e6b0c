// Package loan tracks active and historical borrowing records and reconciles
// them against the inventory ledger.
package loan

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a loan is not found.
	ErrNotFound = errors.New("loan not found")
	// ErrAlreadyReturned is returned when a loan was already returned.
	ErrAlreadyReturned = errors.New("loan already returned")
	// ErrActive is returned when a delete is refused because the book has
	// not been returned yet.
	ErrActive = errors.New("loan is still active")
)

// DefaultTerm is the due-date offset when no return date was requested.
const DefaultTerm = 14 * 24 * time.Hour

// Loan is a borrowing record. A nil ReturnDate means the loan is active.
type Loan struct {
	ID         string     `json:"id"`
	BookID     string     `json:"book_id"`
	BookTitle  string     `json:"book_title,omitempty"`
	MemberID   string     `json:"member_id"`
	MemberName string     `json:"member_name,omitempty"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

// Active reports whether the book is still out.
func (l Loan) Active() bool {
	return l.ReturnDate == nil
}
