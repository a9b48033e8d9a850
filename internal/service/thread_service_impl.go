package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nvetter/fieldline/internal/domain"
	"github.com/nvetter/fieldline/internal/repository"
)

type threadService struct {
	threads repository.ThreadRepo
}

func NewThreadService(threads repository.ThreadRepo) ThreadService {
	return &threadService{threads: threads}
}

func (s *threadService) Create(ctx context.Context, name string) (*domain.Thread, error) {
	t := &domain.Thread{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.threads.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *threadService) GetByID(ctx context.Context, id string) (*domain.Thread, error) {
	return s.threads.GetByID(ctx, id)
}

func (s *threadService) List(ctx context.Context) ([]*domain.Thread, error) {
	return s.threads.List(ctx)
}
