package loanrequest

import (
	"context"
	"time"

	"libraryapi/internal/loan"
)

// Service drives the request state machine.
type Service struct {
	repo  Repository
	loans Loans
	now   func() time.Time
}

func NewService(repo Repository, loans Loans) *Service {
	return &Service{repo: repo, loans: loans, now: time.Now}
}

// Submit stores a Pending request. Stock is not checked here; availability is
// only decided at approval time.
func (s *Service) Submit(ctx context.Context, memberID, bookID string, desiredReturnDate *time.Time) (LoanRequest, error) {
	if desiredReturnDate != nil {
		today := startOfDay(s.now())
		desired := startOfDay(*desiredReturnDate)
		if !desired.After(today) || desired.After(today.Add(MaxAdvance)) {
			return LoanRequest{}, ErrInvalidDate
		}
	}

	pending, err := s.repo.HasPending(ctx, memberID, bookID)
	if err != nil {
		return LoanRequest{}, err
	}
	if pending {
		return LoanRequest{}, ErrDuplicatePending
	}

	active, err := s.loans.HasActive(ctx, memberID, bookID)
	if err != nil {
		return LoanRequest{}, err
	}
	if active {
		return LoanRequest{}, ErrActiveLoan
	}

	req := LoanRequest{
		BookID:            bookID,
		MemberID:          memberID,
		RequestedAt:       s.now(),
		Status:            StatusPending,
		DesiredReturnDate: desiredReturnDate,
	}
	if err := s.repo.Create(ctx, &req); err != nil {
		return LoanRequest{}, err
	}
	return req, nil
}

// Approve transitions the request to Approved, reserves a copy and creates
// the loan, all in one transaction. On inventory.ErrOutOfStock the request is
// left Pending so the librarian can retry once a copy comes back.
func (s *Service) Approve(ctx context.Context, id, deciderID string) (loan.Loan, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return loan.Loan{}, err
	}
	if req.Status != StatusPending {
		return loan.Loan{}, ErrNotPending
	}

	decidedAt := s.now()
	dueDate := decidedAt.Add(loan.DefaultTerm)
	if req.DesiredReturnDate != nil {
		// End of the requested day.
		d := startOfDay(*req.DesiredReturnDate)
		dueDate = d.Add(23*time.Hour + 59*time.Minute)
	}

	return s.repo.Approve(ctx, id, deciderID, decidedAt, dueDate)
}

// Deny is symmetric to Approve but touches no inventory.
func (s *Service) Deny(ctx context.Context, id, deciderID, notes string) error {
	return s.repo.Deny(ctx, id, deciderID, s.now(), notes)
}

func (s *Service) GetByID(ctx context.Context, id string) (LoanRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListPending(ctx context.Context) ([]LoanRequest, error) {
	return s.repo.ListPending(ctx)
}

func (s *Service) ListByMember(ctx context.Context, memberID string) ([]LoanRequest, error) {
	return s.repo.ListByMember(ctx, memberID)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
