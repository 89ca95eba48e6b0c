package loan

import (
	"context"
	"time"
)

// Repository defines the contract for loan storage. Checkout and Return are
// transactional: the inventory debit/credit and the loan row commit together
// or not at all.
type Repository interface {
	Checkout(ctx context.Context, bookID, memberID string, loanDate, dueDate time.Time) (Loan, error)
	Return(ctx context.Context, id string, returnDate time.Time) (Loan, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Loan, error)
	HasActive(ctx context.Context, memberID, bookID string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]Loan, int, error)
	ListByMember(ctx context.Context, memberID string) ([]Loan, error)
}
