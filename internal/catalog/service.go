// Package catalog manages the bookable service collection.
package catalog

import (
	"context"
	"time"

	"styledecor/internal/domain"
	"styledecor/internal/repository/postgres"
	"styledecor/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceRepository is the persistence surface the catalog needs.
type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	Search(ctx context.Context, filter postgres.ServiceFilter) ([]*domain.Service, error)
	Update(ctx context.Context, id uuid.UUID, patch postgres.ServicePatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo   ServiceRepository
	logger logger.Logger
}

func NewService(repo ServiceRepository, log logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// CreateRequest carries a new catalog entry. The creator comes from the
// authenticated caller, never the body.
type CreateRequest struct {
	Name        string          `json:"name" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost" validate:"required,gt=0"`
	ImageURL    string          `json:"image_url"`
}

func (s *Service) Create(ctx context.Context, creatorEmail string, req *CreateRequest) (*domain.Service, error) {
	svc := &domain.Service{
		ID:             uuid.New(),
		Name:           req.Name,
		Category:       req.Category,
		Description:    req.Description,
		Cost:           req.Cost,
		ImageURL:       req.ImageURL,
		CreatedByEmail: creatorEmail,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.logger.Info("service created", logger.Fields{"service_id": svc.ID, "name": svc.Name})
	return svc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, filter postgres.ServiceFilter) ([]*domain.Service, error) {
	return s.repo.Search(ctx, filter)
}

// UpdateRequest is a partial update; nil fields are left as they are.
type UpdateRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Cost        *decimal.Decimal `json:"cost"`
	ImageURL    *string          `json:"image_url"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) error {
	patch := postgres.ServicePatch{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Cost:        req.Cost,
		ImageURL:    req.ImageURL,
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
