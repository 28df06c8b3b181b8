// Package payment issues checkout intents and reconciles their outcomes
// against the booking ledger exactly once.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"styledecor/internal/domain"
	pkgerrors "styledecor/pkg/errors"
	"styledecor/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingLookup resolves the booking a session pays for.
type BookingLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

// PaymentRepository persists the append-only payment ledger. Record applies
// the booking update and the payment insert atomically and must reject a
// duplicate transaction id with ErrPaymentAlreadyRecorded.
type PaymentRepository interface {
	Record(ctx context.Context, p *domain.Payment) error
	FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	FindByEmail(ctx context.Context, email string) ([]*domain.Payment, error)
}

type Service struct {
	gateway    CheckoutGateway
	bookings   BookingLookup
	payments   PaymentRepository
	siteDomain string
	logger     logger.Logger
}

func NewService(gateway CheckoutGateway, bookings BookingLookup, payments PaymentRepository, siteDomain string, log logger.Logger) *Service {
	return &Service{
		gateway:    gateway,
		bookings:   bookings,
		payments:   payments,
		siteDomain: siteDomain,
		logger:     log,
	}
}

// CreateIntentRequest identifies the booking to pay for. The amount and
// service name come from the stored booking, never from the client.
type CreateIntentRequest struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
}

// CreateIntent opens a hosted checkout session for the booking and returns
// the redirect URL. The booking ledger is not mutated here; the session
// carries the booking id in metadata and reconciliation applies the outcome.
func (s *Service) CreateIntent(ctx context.Context, req *CreateIntentRequest) (string, error) {
	b, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return "", err
	}

	sess, err := s.gateway.CreateSession(ctx, CreateSessionParams{
		ServiceName:   b.ServiceName,
		AmountMinor:   b.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:      b.Currency,
		CustomerEmail: b.UserEmail,
		BookingID:     b.ID.String(),
		SuccessURL:    s.siteDomain + "/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.siteDomain + "/dashboard/payment-cancel",
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("checkout session created", logger.Fields{
		"booking_id": b.ID,
		"session_id": sess.ID,
	})
	return sess.URL, nil
}

// ReconcileResult reports the outcome of a reconciliation attempt.
type ReconcileResult struct {
	Success         bool   `json:"success"`
	AlreadyRecorded bool   `json:"already_recorded,omitempty"`
	Message         string `json:"message,omitempty"`
}

// Reconcile retrieves the session, validates payment completion, and applies
// the outcome to the booking ledger and payment store exactly once. The
// session id is the capability; no caller authorization is required. Safe to
// invoke any number of times for the same session.
func (s *Service) Reconcile(ctx context.Context, sessionID string) (*ReconcileResult, error) {
	sess, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.PaymentStatus != "paid" {
		s.logger.Info("checkout session not paid", logger.Fields{
			"session_id":     sessionID,
			"payment_status": sess.PaymentStatus,
		})
		return &ReconcileResult{Success: false}, nil
	}

	bookingID, err := uuid.Parse(sess.Metadata[metadataBookingKey])
	if err != nil {
		return nil, fmt.Errorf("session %s has no valid booking reference: %w", sessionID, err)
	}
	if sess.PaymentIntentID == "" {
		return nil, fmt.Errorf("session %s has no payment intent reference", sessionID)
	}

	// Fast path: already reconciled. The unique constraint below still
	// backstops concurrent attempts that both pass this check.
	existing, err := s.payments.FindByTransactionID(ctx, sess.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ReconcileResult{Success: true, AlreadyRecorded: true, Message: "Payment already recorded"}, nil
	}

	record := &domain.Payment{
		ID:            uuid.New(),
		TransactionID: sess.PaymentIntentID,
		BookingID:     bookingID,
		Amount:        decimal.NewFromInt(sess.AmountTotal).Div(decimal.NewFromInt(100)),
		Email:         sess.CustomerEmail,
		PaidAt:        time.Now().UTC(),
	}

	if err := s.payments.Record(ctx, record); err != nil {
		if errors.Is(err, pkgerrors.ErrPaymentAlreadyRecorded) {
			return &ReconcileResult{Success: true, AlreadyRecorded: true, Message: "Payment already recorded"}, nil
		}
		return nil, err
	}

	s.logger.Info("payment recorded", logger.Fields{
		"booking_id":     bookingID,
		"transaction_id": sess.PaymentIntentID,
		"amount":         record.Amount.String(),
	})
	return &ReconcileResult{Success: true}, nil
}

// ListOwn returns the caller's payment records, newest first. A filter email
// differing from the verified caller identity is Forbidden.
func (s *Service) ListOwn(ctx context.Context, callerEmail, filterEmail string) ([]*domain.Payment, error) {
	if filterEmail != "" && filterEmail != callerEmail {
		return nil, pkgerrors.ErrForbidden
	}
	return s.payments.FindByEmail(ctx, callerEmail)
}
