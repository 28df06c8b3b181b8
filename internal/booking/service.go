// Package booking implements the booking ledger and its lifecycle rules.
package booking

import (
	"context"
	"time"

	"styledecor/internal/domain"
	pkgerrors "styledecor/pkg/errors"
	"styledecor/pkg/logger"

	"github.com/google/uuid"
)

// BookingRepository is the persistence surface for the booking ledger.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	FindByOwner(ctx context.Context, email string) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error
}

// ServiceLookup resolves the catalog entry a booking targets.
type ServiceLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

type Service struct {
	repo     BookingRepository
	services ServiceLookup
	logger   logger.Logger
}

func NewService(repo BookingRepository, services ServiceLookup, log logger.Logger) *Service {
	return &Service{repo: repo, services: services, logger: log}
}

// CreateRequest captures a new booking. The owner is always the verified
// caller; the amount is taken from the catalog, not the client.
type CreateRequest struct {
	ServiceID uuid.UUID  `json:"service_id" validate:"required"`
	EventDate *time.Time `json:"event_date"`
}

func (s *Service) Create(ctx context.Context, ownerEmail string, req *CreateRequest) (*domain.Booking, error) {
	svc, err := s.services.FindByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		ID:            uuid.New(),
		UserEmail:     ownerEmail,
		ServiceID:     svc.ID,
		ServiceName:   svc.Name,
		Amount:        svc.Cost,
		Currency:      "usd",
		EventDate:     req.EventDate,
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking created", logger.Fields{
		"booking_id": b.ID,
		"service":    b.ServiceName,
		"owner":      ownerEmail,
	})
	return b, nil
}

// ListOwn returns the caller's bookings. A filter email differing from the
// verified caller identity is Forbidden regardless of role.
func (s *Service) ListOwn(ctx context.Context, callerEmail, filterEmail string) ([]*domain.Booking, error) {
	if filterEmail != "" && filterEmail != callerEmail {
		return nil, pkgerrors.ErrForbidden
	}
	return s.repo.FindByOwner(ctx, callerEmail)
}

// TransitionStatus overwrites the lifecycle status. Only decorators may call
// this (enforced at the routing layer); the status must be a known state and
// the booking must exist. Payment status is never touched here.
func (s *Service) TransitionStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	if !domain.ValidBookingStatus(status) {
		return pkgerrors.ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info("booking status updated", logger.Fields{
		"booking_id": id,
		"status":     string(status),
	})
	return nil
}

// Get resolves one booking by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return s.repo.FindByID(ctx, id)
}
