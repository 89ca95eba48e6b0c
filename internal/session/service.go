package session

import (
	"context"
	"log"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, sess *Session) error {
	return s.repo.Create(ctx, sess)
}

func (s *Service) GetByTokenHash(ctx context.Context, tokenHash string) (Session, error) {
	return s.repo.GetByTokenHash(ctx, tokenHash)
}

func (s *Service) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	return s.repo.DeleteByTokenHash(ctx, tokenHash)
}

// CleanupExpired removes expired sessions; wired to the cron sweep in cmd/api.
func (s *Service) CleanupExpired(ctx context.Context) {
	n, err := s.repo.CleanupExpired(ctx)
	if err != nil {
		log.Printf("session cleanup failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("session cleanup removed=%d", n)
	}
}
