package payment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"styledecor/internal/domain"
	pkgerrors "styledecor/pkg/errors"
	"styledecor/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *MockGateway) RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

type MockBookingLookup struct {
	mock.Mock
}

func (m *MockBookingLookup) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Record(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func newTestService(gw *MockGateway, bookings *MockBookingLookup, payments *MockPaymentRepository) *Service {
	return NewService(gw, bookings, payments, "https://styledecor.example", logger.NewNop())
}

func paidSession(bookingID uuid.UUID) *CheckoutSession {
	return &CheckoutSession{
		ID:              "cs_test_123",
		PaymentStatus:   "paid",
		PaymentIntentID: "pi_test_456",
		AmountTotal:     50000,
		Currency:        "usd",
		CustomerEmail:   "a@x.com",
		Metadata:        map[string]string{"bookingId": bookingID.String()},
	}
}

// --- Reconcile ---

func TestReconcile_PaidSession_RecordsPayment(t *testing.T) {
	gw := new(MockGateway)
	payments := new(MockPaymentRepository)
	bookingID := uuid.New()

	gw.On("RetrieveSession", mock.Anything, "cs_test_123").Return(paidSession(bookingID), nil)
	payments.On("FindByTransactionID", mock.Anything, "pi_test_456").Return(nil, nil)
	payments.On("Record", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.TransactionID == "pi_test_456" &&
			p.BookingID == bookingID &&
			p.Amount.Equal(decimal.NewFromInt(500)) &&
			p.Email == "a@x.com"
	})).Return(nil)

	svc := newTestService(gw, new(MockBookingLookup), payments)
	result, err := svc.Reconcile(context.Background(), "cs_test_123")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.AlreadyRecorded)
	payments.AssertExpectations(t)
}

func TestReconcile_UnpaidSession_NoWrites(t *testing.T) {
	gw := new(MockGateway)
	payments := new(MockPaymentRepository)

	sess := paidSession(uuid.New())
	sess.PaymentStatus = "unpaid"
	gw.On("RetrieveSession", mock.Anything, "cs_test_123").Return(sess, nil)

	svc := newTestService(gw, new(MockBookingLookup), payments)
	result, err := svc.Reconcile(context.Background(), "cs_test_123")

	require.NoError(t, err)
	assert.False(t, result.Success)
	payments.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	payments.AssertNotCalled(t, "FindByTransactionID", mock.Anything, mock.Anything)
}

func TestReconcile_AlreadyRecorded_ShortCircuits(t *testing.T) {
	gw := new(MockGateway)
	payments := new(MockPaymentRepository)
	bookingID := uuid.New()

	gw.On("RetrieveSession", mock.Anything, "cs_test_123").Return(paidSession(bookingID), nil)
	payments.On("FindByTransactionID", mock.Anything, "pi_test_456").Return(&domain.Payment{
		ID:            uuid.New(),
		TransactionID: "pi_test_456",
		BookingID:     bookingID,
		PaidAt:        time.Now().UTC(),
	}, nil)

	svc := newTestService(gw, new(MockBookingLookup), payments)
	result, err := svc.Reconcile(context.Background(), "cs_test_123")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.AlreadyRecorded)
	payments.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestReconcile_DuplicateInsert_ReportedAsRecorded(t *testing.T) {
	// Two attempts can both pass the read check; the unique constraint turns
	// the losing insert into ErrPaymentAlreadyRecorded, which is a success.
	gw := new(MockGateway)
	payments := new(MockPaymentRepository)

	gw.On("RetrieveSession", mock.Anything, "cs_test_123").Return(paidSession(uuid.New()), nil)
	payments.On("FindByTransactionID", mock.Anything, "pi_test_456").Return(nil, nil)
	payments.On("Record", mock.Anything, mock.Anything).Return(pkgerrors.ErrPaymentAlreadyRecorded)

	svc := newTestService(gw, new(MockBookingLookup), payments)
	result, err := svc.Reconcile(context.Background(), "cs_test_123")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.AlreadyRecorded)
}

func TestReconcile_ConcurrentAttempts_RecordExactlyOnce(t *testing.T) {
	gw := new(MockGateway)
	payments := new(MockPaymentRepository)

	gw.On("RetrieveSession", mock.Anything, "cs_test_123").Return(paidSession(uuid.New()), nil)
	payments.On("FindByTransactionID", mock.Anything, "pi_test_456").Return(nil, nil)
	// First insert wins; every later one hits the unique constraint.
	payments.On("Record", mock.Anything, mock.Anything).Return(nil).Once()
	payments.On("Record", mock.Anything, mock.Anything).Return(pkgerrors.ErrPaymentAlreadyRecorded)

	svc := newTestService(gw, new(MockBookingLookup), payments)

	const attempts = 16
	results := make([]*ReconcileResult, attempts)
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Reconcile(context.Background(), "cs_test_123")
		}(i)
	}
	wg.Wait()

	recorded := 0
	for i, result := range results {
		require.NoError(t, errs[i])
		assert.True(t, result.Success)
		if !result.AlreadyRecorded {
			recorded++
		}
	}
	assert.Equal(t, 1, recorded, "exactly one attempt should record the payment")
}

func TestReconcile_GatewayFailure_Retryable(t *testing.T) {
	gw := new(MockGateway)
	payments := new(MockPaymentRepository)

	gw.On("RetrieveSession", mock.Anything, "cs_test_123").
		Return(nil, fmt.Errorf("retrieve: %w", pkgerrors.ErrGatewayUnavailable))

	svc := newTestService(gw, new(MockBookingLookup), payments)
	_, err := svc.Reconcile(context.Background(), "cs_test_123")

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrGatewayUnavailable)
	payments.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestReconcile_MissingBookingMetadata(t *testing.T) {
	gw := new(MockGateway)
	payments := new(MockPaymentRepository)

	sess := paidSession(uuid.New())
	sess.Metadata = map[string]string{}
	gw.On("RetrieveSession", mock.Anything, "cs_test_123").Return(sess, nil)

	svc := newTestService(gw, new(MockBookingLookup), payments)
	_, err := svc.Reconcile(context.Background(), "cs_test_123")

	require.Error(t, err)
	payments.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

// --- CreateIntent ---

func TestCreateIntent_PricesFromStoredBooking(t *testing.T) {
	gw := new(MockGateway)
	bookings := new(MockBookingLookup)
	bookingID := uuid.New()

	bookings.On("FindByID", mock.Anything, bookingID).Return(&domain.Booking{
		ID:          bookingID,
		UserEmail:   "a@x.com",
		ServiceName: "Wedding Arch",
		Amount:      decimal.NewFromInt(500),
		Currency:    "usd",
	}, nil)

	gw.On("CreateSession", mock.Anything, mock.MatchedBy(func(p CreateSessionParams) bool {
		return p.ServiceName == "Wedding Arch" &&
			p.AmountMinor == 50000 &&
			p.Currency == "usd" &&
			p.CustomerEmail == "a@x.com" &&
			p.BookingID == bookingID.String()
	})).Return(&CheckoutSession{ID: "cs_test_123", URL: "https://checkout.stripe.com/pay/cs_test_123"}, nil)

	svc := newTestService(gw, bookings, new(MockPaymentRepository))
	url, err := svc.CreateIntent(context.Background(), &CreateIntentRequest{BookingID: bookingID})

	require.NoError(t, err)
	assert.Contains(t, url, "cs_test_123")
	gw.AssertExpectations(t)
}

func TestCreateIntent_BookingNotFound(t *testing.T) {
	gw := new(MockGateway)
	bookings := new(MockBookingLookup)
	bookingID := uuid.New()

	bookings.On("FindByID", mock.Anything, bookingID).Return(nil, pkgerrors.ErrBookingNotFound)

	svc := newTestService(gw, bookings, new(MockPaymentRepository))
	_, err := svc.CreateIntent(context.Background(), &CreateIntentRequest{BookingID: bookingID})

	assert.ErrorIs(t, err, pkgerrors.ErrBookingNotFound)
	gw.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

// --- ListOwn ---

func TestListOwn_ForeignEmailForbidden(t *testing.T) {
	payments := new(MockPaymentRepository)
	svc := newTestService(new(MockGateway), new(MockBookingLookup), payments)

	_, err := svc.ListOwn(context.Background(), "a@x.com", "b@x.com")

	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)
	payments.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestListOwn_OwnEmail(t *testing.T) {
	payments := new(MockPaymentRepository)
	payments.On("FindByEmail", mock.Anything, "a@x.com").Return([]*domain.Payment{}, nil)

	svc := newTestService(new(MockGateway), new(MockBookingLookup), payments)
	_, err := svc.ListOwn(context.Background(), "a@x.com", "a@x.com")

	require.NoError(t, err)
	payments.AssertExpectations(t)
}
