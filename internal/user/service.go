package user

import (
	"context"
	"errors"
)

// Service provides account management, including the librarian admin surface.
type Service struct {
	repo   Repository
	purger AccountPurger
}

func NewService(repo Repository, purger AccountPurger) *Service {
	return &Service{repo: repo, purger: purger}
}

func (s *Service) Register(ctx context.Context, email, fullName, hashedPassword string) (User, error) {
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return User{}, ErrAlreadyExists
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	newUser := &User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hashedPassword,
		Role:         RoleMember,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return User{}, err
	}
	return *newUser, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) ChangeRole(ctx context.Context, id, role string) error {
	if role != RoleMember && role != RoleLibrarian {
		return ErrInvalidRole
	}
	return s.repo.UpdateRole(ctx, id, role)
}

func (s *Service) Lock(ctx context.Context, adminID, id string) error {
	if adminID == id {
		return ErrSelf
	}
	return s.repo.SetLocked(ctx, id, true)
}

func (s *Service) Unlock(ctx context.Context, id string) error {
	return s.repo.SetLocked(ctx, id, false)
}

// Delete removes the account and its member history. Refused for the caller's
// own account and for the last remaining librarian; refused by the purger
// while the member holds an active loan.
func (s *Service) Delete(ctx context.Context, adminID, id string) error {
	if adminID == id {
		return ErrSelf
	}

	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Role == RoleLibrarian {
		n, err := s.repo.CountByRole(ctx, RoleLibrarian)
		if err != nil {
			return err
		}
		if n <= 1 {
			return ErrLastLibrarian
		}
	}

	return s.purger.DeleteAccount(ctx, id)
}
