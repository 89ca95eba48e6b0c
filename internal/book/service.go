package book

import (
	"context"
)

// Service provides catalog business logic for books.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) GetByID(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, b *Book) error {
	return s.repo.Create(ctx, b)
}

func (s *Service) Update(ctx context.Context, b *Book) error {
	return s.repo.Update(ctx, b)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
