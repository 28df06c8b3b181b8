package payment

import "context"

// CheckoutSession is the gateway-neutral view of a hosted checkout session.
type CheckoutSession struct {
	ID string
	// URL is the hosted checkout page the client is redirected to.
	URL string
	// PaymentStatus is the gateway's payment state, "paid" once settled.
	PaymentStatus string
	// PaymentIntentID is the external transaction id used for dedup.
	PaymentIntentID string
	// AmountTotal is the authoritative charged total in minor units.
	AmountTotal   int64
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
}

// CreateSessionParams describes the single-line-item session this system
// creates: one service, quantity 1, amount in minor units.
type CreateSessionParams struct {
	ServiceName   string
	AmountMinor   int64
	Currency      string
	CustomerEmail string
	BookingID     string
	SuccessURL    string
	CancelURL     string
}

// CheckoutGateway is the external hosted-checkout collaborator. Failures are
// transient: callers may retry safely because reconciliation is idempotent.
type CheckoutGateway interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
