package loanrequest

import (
	"context"
	"time"

	"libraryapi/internal/loan"
)

// Repository defines the contract for loan request storage. Approve runs the
// status transition, the inventory debit and the loan insert in a single
// transaction; an out-of-stock reserve rolls everything back and the request
// stays Pending.
type Repository interface {
	Create(ctx context.Context, req *LoanRequest) error
	GetByID(ctx context.Context, id string) (LoanRequest, error)
	HasPending(ctx context.Context, memberID, bookID string) (bool, error)
	Approve(ctx context.Context, id, deciderID string, decidedAt, dueDate time.Time) (loan.Loan, error)
	Deny(ctx context.Context, id, deciderID string, decidedAt time.Time, notes string) error
	ListPending(ctx context.Context) ([]LoanRequest, error)
	ListByMember(ctx context.Context, memberID string) ([]LoanRequest, error)
}

// Loans is the slice of the loan component the state machine needs: whether
// the member already holds the book.
type Loans interface {
	HasActive(ctx context.Context, memberID, bookID string) (bool, error)
}
