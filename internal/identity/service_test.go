package identity

import (
	"context"
	"testing"
	"time"

	"styledecor/internal/domain"
	pkgerrors "styledecor/pkg/errors"
	"styledecor/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, email string, role domain.Role) error {
	args := m.Called(ctx, email, role)
	return args.Error(0)
}

func TestRegister_NewIdentityDefaultsToUser(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "a@x.com" && u.Role == domain.RoleUser
	})).Return(nil)

	svc := NewService(repo, logger.NewNop())
	user, created, err := svc.Register(context.Background(), &RegisterRequest{Email: "a@x.com", Name: "Alice"})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RoleUser, user.Role)
	repo.AssertExpectations(t)
}

func TestRegister_ExistingEmailIsNoOp(t *testing.T) {
	repo := new(MockUserRepository)
	existing := &domain.User{
		ID:        uuid.New(),
		Email:     "a@x.com",
		Name:      "Alice",
		Role:      domain.RoleAdmin,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	repo.On("Create", mock.Anything, mock.Anything).Return(pkgerrors.ErrUserAlreadyExists)
	repo.On("FindByEmail", mock.Anything, "a@x.com").Return(existing, nil)

	svc := NewService(repo, logger.NewNop())
	user, created, err := svc.Register(context.Background(), &RegisterRequest{Email: "a@x.com", Name: "Alice Again"})

	require.NoError(t, err)
	assert.False(t, created)
	// The stored record wins; the role is untouched.
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	repo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoleOf_UnknownEmailDefaultsToUser(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "ghost@x.com").Return(nil, pkgerrors.ErrUserNotFound)

	svc := NewService(repo, logger.NewNop())
	role, err := svc.RoleOf(context.Background(), "ghost@x.com")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, role)
}

func TestRoleOf_KnownEmail(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "admin@x.com").Return(&domain.User{
		Email: "admin@x.com",
		Role:  domain.RoleAdmin,
	}, nil)

	svc := NewService(repo, logger.NewNop())
	role, err := svc.RoleOf(context.Background(), "admin@x.com")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)
}
