package psychologist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
	"github.com/aninkinaa/mentalwell1.0-api/internal/repository"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListRequest struct {
	Name         *string
	Topic        *string
	Availability *model.Availability
}

// ---------------------------------------------------------------------------
// Stores
// ---------------------------------------------------------------------------

type Store interface {
	List(ctx context.Context, filter repository.PsychologistFilter) ([]model.Psychologist, error)
	GetProfile(ctx context.Context, psychologistID uuid.UUID) (model.Psychologist, error)
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, req ListRequest) ([]model.Psychologist, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Psychologist, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type psychologistService struct {
	store Store
}

func New(store Store) Service {
	return &psychologistService{store: store}
}

func (s *psychologistService) List(ctx context.Context, req ListRequest) ([]model.Psychologist, error) {
	out, err := s.store.List(ctx, repository.PsychologistFilter{
		Name:         req.Name,
		Topic:        req.Topic,
		Availability: req.Availability,
	})
	if err != nil {
		return nil, fmt.Errorf("list psychologists: %w", err)
	}
	if out == nil {
		out = []model.Psychologist{}
	}
	return out, nil
}

func (s *psychologistService) GetByID(ctx context.Context, id uuid.UUID) (model.Psychologist, error) {
	p, err := s.store.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return p, ErrNotFound
		}
		return p, fmt.Errorf("get psychologist: %w", err)
	}
	return p, nil
}
