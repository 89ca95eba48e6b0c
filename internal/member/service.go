package member

import (
	"context"
	"errors"
)

// Service resolves accounts to member records and handles account purges.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve returns the member linked to the account, provisioning one with the
// fallback name on first need. Safe to call repeatedly for the same account.
func (s *Service) Resolve(ctx context.Context, userID, fallbackName, email string) (Member, error) {
	m, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Member{}, err
	}
	return s.repo.CreateForUser(ctx, userID, fallbackName, email)
}

func (s *Service) GetByID(ctx context.Context, id string) (Member, error) {
	return s.repo.GetByID(ctx, id)
}

// DeleteAccount removes the account and, when a member is linked, its whole
// loan and request history in one transaction. Refused with ErrActiveLoan
// while any loan is unreturned.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	return s.repo.PurgeAccount(ctx, userID)
}
