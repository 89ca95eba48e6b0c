package user

import (
	"context"
)

// Repository defines the contract for account storage.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id, role string) error
	SetLocked(ctx context.Context, id string, locked bool) error
	CountByRole(ctx context.Context, role string) (int, error)
}

// AccountPurger removes an account together with its member history; the
// member package owns the transactional purge.
type AccountPurger interface {
	DeleteAccount(ctx context.Context, userID string) error
}
