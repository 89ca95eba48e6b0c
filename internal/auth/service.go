package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"libraryapi/internal/member"
	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/session"
	"libraryapi/internal/user"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	// ErrLocked is returned when the account is locked by a librarian.
	ErrLocked = errors.New("account locked")
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type Service struct {
	secret   string
	users    *user.Service
	sessions *session.Service
	members  *member.Service
}

func NewService(secret string, users *user.Service, sessions *session.Service, members *member.Service) *Service {
	return &Service{
		secret:   secret,
		users:    users,
		sessions: sessions,
		members:  members,
	}
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Register creates the account and provisions the linked member record, the
// same lazy linkage the member resolver applies on first use.
func (s *Service) Register(ctx context.Context, email, fullName, password string) (user.User, error) {
	if err := crypto.ValidatePasswordStrength(password); err != nil {
		return user.User{}, err
	}

	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return user.User{}, err
	}

	u, err := s.users.Register(ctx, email, fullName, hashed)
	if err != nil {
		return user.User{}, err
	}

	if _, err := s.members.Resolve(ctx, u.ID, fullName, email); err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password, userAgent, ipAddress string) (string, string, int, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !crypto.VerifyPassword(u.PasswordHash, password) {
		return "", "", 0, ErrUnauthorized
	}
	if u.Locked {
		return "", "", 0, ErrLocked
	}

	accessToken, _, err := crypto.GenerateToken(s.secret, u.ID, u.Role, accessTokenTTL)
	if err != nil {
		return "", "", 0, err
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return "", "", 0, err
	}

	sess := &session.Session{
		UserID:           u.ID,
		RefreshTokenHash: hashToken(refreshToken),
		UserAgent:        userAgent,
		IPAddress:        ipAddress,
		ExpiresAt:        time.Now().Add(refreshTokenTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", "", 0, err
	}

	return accessToken, refreshToken, int(accessTokenTTL.Seconds()), nil
}

// Refresh rotates the refresh token: the presented one is consumed and a new
// session is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, int, error) {
	tokenHash := hashToken(refreshToken)
	sess, err := s.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return "", "", 0, ErrUnauthorized
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil || u.Locked {
		return "", "", 0, ErrUnauthorized
	}

	if err := s.sessions.DeleteByTokenHash(ctx, tokenHash); err != nil {
		return "", "", 0, err
	}

	accessToken, _, err := crypto.GenerateToken(s.secret, u.ID, u.Role, accessTokenTTL)
	if err != nil {
		return "", "", 0, err
	}

	newToken, err := newRefreshToken()
	if err != nil {
		return "", "", 0, err
	}

	newSess := &session.Session{
		UserID:           u.ID,
		RefreshTokenHash: hashToken(newToken),
		UserAgent:        sess.UserAgent,
		IPAddress:        sess.IPAddress,
		ExpiresAt:        time.Now().Add(refreshTokenTTL),
	}
	if err := s.sessions.Create(ctx, newSess); err != nil {
		return "", "", 0, err
	}

	return accessToken, newToken, int(accessTokenTTL.Seconds()), nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.DeleteByTokenHash(ctx, hashToken(refreshToken))
}

func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
