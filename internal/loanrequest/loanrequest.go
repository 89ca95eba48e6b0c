// Package loanrequest models a member's request to borrow a book through its
// Pending -> Approved/Denied lifecycle. Approved and Denied are terminal.
package loanrequest

import (
	"errors"
	"time"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusDenied   = "DENIED"
)

// MaxAdvance is how far ahead the desired return date may lie.
const MaxAdvance = 30 * 24 * time.Hour

var (
	// ErrNotFound is returned when a request is not found.
	ErrNotFound = errors.New("loan request not found")
	// ErrNotPending is returned when a decision targets an already-decided
	// request.
	ErrNotPending = errors.New("loan request already decided")
	// ErrDuplicatePending is returned when the member already has a pending
	// request for the same book.
	ErrDuplicatePending = errors.New("pending request already exists")
	// ErrActiveLoan is returned when the member already holds the book.
	ErrActiveLoan = errors.New("member already has this book on loan")
	// ErrInvalidDate is returned when the desired return date is outside
	// the tomorrow..+30d window.
	ErrInvalidDate = errors.New("desired return date out of range")
)

// LoanRequest is immutable once it leaves Pending.
type LoanRequest struct {
	ID                string     `json:"id"`
	BookID            string     `json:"book_id"`
	BookTitle         string     `json:"book_title,omitempty"`
	MemberID          string     `json:"member_id"`
	MemberName        string     `json:"member_name,omitempty"`
	RequestedAt       time.Time  `json:"requested_at"`
	Status            string     `json:"status"`
	DesiredReturnDate *time.Time `json:"desired_return_date,omitempty"`
	DecidedBy         *string    `json:"decided_by,omitempty"`
	DecidedAt         *time.Time `json:"decided_at,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}
