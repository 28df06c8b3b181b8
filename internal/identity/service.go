// Package identity manages the email -> role mapping behind authorization.
package identity

import (
	"context"
	"errors"
	"time"

	"styledecor/internal/domain"
	pkgerrors "styledecor/pkg/errors"
	"styledecor/pkg/logger"

	"github.com/google/uuid"
)

// UserRepository is the persistence surface the service needs.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, email string, role domain.Role) error
}

type Service struct {
	repo   UserRepository
	logger logger.Logger
}

func NewService(repo UserRepository, log logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// RegisterRequest captures a first-time identity registration.
type RegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

// Register creates the identity with the default user role. Registering an
// existing email is a no-op; the stored record is returned unchanged.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*domain.User, bool, error) {
	user := &domain.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Name:      req.Name,
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
	}

	err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUserAlreadyExists) {
			existing, ferr := s.repo.FindByEmail(ctx, req.Email)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	s.logger.Info("identity registered", logger.Fields{"email": req.Email})
	return user, true, nil
}

// RoleOf returns the role for an email, defaulting to user for unknown
// identities.
func (s *Service) RoleOf(ctx context.Context, email string) (domain.Role, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			return domain.RoleUser, nil
		}
		return "", err
	}
	return user.Role, nil
}

// ListUsers returns every registered identity. Admin only; enforced at the
// routing layer.
func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}
