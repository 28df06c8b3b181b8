// Package decorator manages decorator profiles and the admin approval flow.
package decorator

import (
	"context"
	"time"

	"styledecor/internal/domain"
	"styledecor/pkg/cache"
	"styledecor/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	topDecoratorsLimit    = 8
	topDecoratorsCacheKey = "decorators:top"
	topDecoratorsCacheTTL = 5 * time.Minute
)

// DecoratorRepository is the persistence surface for decorator profiles.
type DecoratorRepository interface {
	Create(ctx context.Context, d *domain.Decorator) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Decorator, error)
	SetApproved(ctx context.Context, id uuid.UUID) error
	TopApproved(ctx context.Context, limit int) ([]*domain.Decorator, error)
}

// RoleGranter upgrades an identity's role on approval.
type RoleGranter interface {
	UpdateRole(ctx context.Context, email string, role domain.Role) error
}

type Service struct {
	repo   DecoratorRepository
	roles  RoleGranter
	cache  *cache.RedisCache
	logger logger.Logger
}

// NewService wires the profile store with the role store. cache may be nil;
// the top listing then always hits the database.
func NewService(repo DecoratorRepository, roles RoleGranter, c *cache.RedisCache, log logger.Logger) *Service {
	return &Service{repo: repo, roles: roles, cache: c, logger: log}
}

// CreateRequest captures a new decorator profile. Profiles start unapproved.
type CreateRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	Name      string          `json:"name" validate:"required"`
	Specialty string          `json:"specialty"`
	Rating    decimal.Decimal `json:"rating" validate:"gte=0,lte=5"`
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*domain.Decorator, error) {
	d := &domain.Decorator{
		ID:        uuid.New(),
		Email:     req.Email,
		Name:      req.Name,
		Specialty: req.Specialty,
		Rating:    req.Rating,
		Approved:  false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.invalidateTop(ctx)
	return d, nil
}

// Approve grants the decorator role to the profile's identity and then flips
// the approved flag. The role grant comes first so a profile is never visible
// as approved while the grant is still pending. Approving twice re-asserts
// the same state.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*domain.Decorator, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.roles.UpdateRole(ctx, d.Email, domain.RoleDecorator); err != nil {
		return nil, err
	}
	if err := s.repo.SetApproved(ctx, id); err != nil {
		return nil, err
	}

	d.Approved = true
	s.invalidateTop(ctx)
	s.logger.Info("decorator approved", logger.Fields{"decorator_id": id, "email": d.Email})
	return d, nil
}

// Top returns the eight highest-rated approved decorators, served from cache
// when warm.
func (s *Service) Top(ctx context.Context) ([]*domain.Decorator, error) {
	if s.cache != nil {
		var cached []*domain.Decorator
		if err := s.cache.Get(ctx, topDecoratorsCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	decorators, err := s.repo.TopApproved(ctx, topDecoratorsLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, topDecoratorsCacheKey, decorators, topDecoratorsCacheTTL); err != nil {
			s.logger.Warn("failed to cache top decorators", logger.Fields{"error": err.Error()})
		}
	}
	return decorators, nil
}

func (s *Service) invalidateTop(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, topDecoratorsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate top decorators cache", logger.Fields{"error": err.Error()})
	}
}
