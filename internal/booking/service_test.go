package booking

import (
	"context"
	"testing"

	"styledecor/internal/domain"
	pkgerrors "styledecor/pkg/errors"
	"styledecor/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByOwner(ctx context.Context, email string) ([]*domain.Booking, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockServiceLookup struct {
	mock.Mock
}

func (m *MockServiceLookup) FindByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func TestCreate_PricesFromCatalog(t *testing.T) {
	repo := new(MockBookingRepository)
	services := new(MockServiceLookup)
	serviceID := uuid.New()

	services.On("FindByID", mock.Anything, serviceID).Return(&domain.Service{
		ID:   serviceID,
		Name: "Wedding Arch",
		Cost: decimal.NewFromInt(500),
	}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.UserEmail == "a@x.com" &&
			b.ServiceName == "Wedding Arch" &&
			b.Amount.Equal(decimal.NewFromInt(500)) &&
			b.Status == domain.BookingStatusPending &&
			b.PaymentStatus == domain.PaymentStatusUnpaid
	})).Return(nil)

	svc := NewService(repo, services, logger.NewNop())
	b, err := svc.Create(context.Background(), "a@x.com", &CreateRequest{ServiceID: serviceID})

	require.NoError(t, err)
	assert.Equal(t, "usd", b.Currency)
	repo.AssertExpectations(t)
}

func TestCreate_UnknownService(t *testing.T) {
	repo := new(MockBookingRepository)
	services := new(MockServiceLookup)
	serviceID := uuid.New()

	services.On("FindByID", mock.Anything, serviceID).Return(nil, pkgerrors.ErrServiceNotFound)

	svc := NewService(repo, services, logger.NewNop())
	_, err := svc.Create(context.Background(), "a@x.com", &CreateRequest{ServiceID: serviceID})

	assert.ErrorIs(t, err, pkgerrors.ErrServiceNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListOwn_ForeignEmailForbidden(t *testing.T) {
	repo := new(MockBookingRepository)
	svc := NewService(repo, new(MockServiceLookup), logger.NewNop())

	_, err := svc.ListOwn(context.Background(), "a@x.com", "b@x.com")

	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)
	repo.AssertNotCalled(t, "FindByOwner", mock.Anything, mock.Anything)
}

func TestListOwn_EmptyFilterUsesCaller(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("FindByOwner", mock.Anything, "a@x.com").Return([]*domain.Booking{}, nil)

	svc := NewService(repo, new(MockServiceLookup), logger.NewNop())
	_, err := svc.ListOwn(context.Background(), "a@x.com", "")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTransitionStatus_RejectsUnknownState(t *testing.T) {
	repo := new(MockBookingRepository)
	svc := NewService(repo, new(MockServiceLookup), logger.NewNop())

	err := svc.TransitionStatus(context.Background(), uuid.New(), domain.BookingStatus("Shipped"))

	assert.ErrorIs(t, err, pkgerrors.ErrInvalidStatus)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionStatus_UnknownBooking(t *testing.T) {
	repo := new(MockBookingRepository)
	id := uuid.New()
	repo.On("UpdateStatus", mock.Anything, id, domain.BookingStatusConfirmed).Return(pkgerrors.ErrBookingNotFound)

	svc := NewService(repo, new(MockServiceLookup), logger.NewNop())
	err := svc.TransitionStatus(context.Background(), id, domain.BookingStatusConfirmed)

	assert.ErrorIs(t, err, pkgerrors.ErrBookingNotFound)
}

func TestTransitionStatus_Confirmed(t *testing.T) {
	repo := new(MockBookingRepository)
	id := uuid.New()
	repo.On("UpdateStatus", mock.Anything, id, domain.BookingStatusConfirmed).Return(nil)

	svc := NewService(repo, new(MockServiceLookup), logger.NewNop())
	err := svc.TransitionStatus(context.Background(), id, domain.BookingStatusConfirmed)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
