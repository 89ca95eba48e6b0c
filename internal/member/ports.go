package member

import (
	"context"
)

// Repository defines the contract for member data storage.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Member, error)
	GetByID(ctx context.Context, id string) (Member, error)
	CreateForUser(ctx context.Context, userID, fullName, email string) (Member, error)
	PurgeAccount(ctx context.Context, userID string) error
}
