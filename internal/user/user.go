package user

import (
	"errors"
	"time"
)

const (
	RoleMember    = "MEMBER"
	RoleLibrarian = "LIBRARIAN"
)

var (
	// ErrNotFound is returned when a user is not found.
	ErrNotFound = errors.New("user not found")
	// ErrAlreadyExists is returned when the email is taken.
	ErrAlreadyExists = errors.New("user already exists")
	// ErrSelf is returned when an admin targets their own account.
	ErrSelf = errors.New("cannot target own account")
	// ErrLastLibrarian is returned when deleting the only librarian.
	ErrLastLibrarian = errors.New("cannot delete the only librarian")
	// ErrInvalidRole is returned for unknown role values.
	ErrInvalidRole = errors.New("invalid role")
)

// User is a login account. Library activity lives on the linked member
// record, not here.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Locked       bool      `json:"locked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
