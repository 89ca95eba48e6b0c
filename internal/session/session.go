package session

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no live session matches.
var ErrNotFound = errors.New("session not found")

// Session is a refresh-token record; only the SHA-256 hash of the token is
// stored.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	UserAgent        string    `json:"user_agent"`
	IPAddress        string    `json:"ip_address"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
}
