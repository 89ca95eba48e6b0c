// Package member maps authenticated accounts to library member records.
package member

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a member is not found.
	ErrNotFound = errors.New("member not found")
	// ErrActiveLoan is returned when an account purge is refused because the
	// member still holds an unreturned loan.
	ErrActiveLoan = errors.New("member has an active loan")
)

// Member is a library patron record, distinct from the login account.
// At most one member exists per account (unique constraint on user_id).
type Member struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     *string   `json:"email,omitempty"`
	UserID    *string   `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
