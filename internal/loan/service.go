package loan

import (
	"context"
	"time"
)

// Service provides the loan lifecycle: direct checkout, return, deletion and
// the listings consumed by the UI layer.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Checkout creates an active loan directly (librarian path), debiting the
// inventory ledger. Fails with inventory.ErrOutOfStock when no copy is left.
func (s *Service) Checkout(ctx context.Context, bookID, memberID string) (Loan, error) {
	loanDate := s.now()
	return s.repo.Checkout(ctx, bookID, memberID, loanDate, loanDate.Add(DefaultTerm))
}

// Return closes the loan and credits the copy back. Calling it again fails
// with ErrAlreadyReturned and leaves the counter untouched.
func (s *Service) Return(ctx context.Context, id string) (Loan, error) {
	return s.repo.Return(ctx, id, s.now())
}

// Delete purges a historical record. Refused with ErrActive while the book
// is still out; the copy was already released at return time, so deletion
// has no inventory effect.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Loan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) HasActive(ctx context.Context, memberID, bookID string) (bool, error) {
	return s.repo.HasActive(ctx, memberID, bookID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Loan, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByMember(ctx context.Context, memberID string) ([]Loan, error) {
	return s.repo.ListByMember(ctx, memberID)
}
