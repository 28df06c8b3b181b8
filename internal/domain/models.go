// Package domain defines the core entities of the StyleDecor marketplace.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is the platform role attached to an identity.
type Role string

const (
	RoleUser      Role = "user"
	RoleDecorator Role = "decorator"
	RoleAdmin     Role = "admin"
)

// BookingStatus is the decorator-controlled lifecycle of a booking. It is an
// independent axis from payment status.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusRejected  BookingStatus = "Rejected"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// ValidBookingStatus reports whether s is one of the allowed lifecycle states.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusRejected,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus is the payment axis of a booking. It moves unpaid -> paid at
// most once and never reverses.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// User maps an identity (email) to a role.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Service is a bookable catalog item.
type Service struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Category       string          `db:"category" json:"category"`
	Description    string          `db:"description" json:"description"`
	Cost           decimal.Decimal `db:"cost" json:"cost"`
	ImageURL       string          `db:"image_url" json:"image_url"`
	CreatedByEmail string          `db:"created_by_email" json:"created_by_email"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Booking tracks a user's request to engage a service.
type Booking struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	UserEmail     string          `db:"user_email" json:"user_email"`
	ServiceID     uuid.UUID       `db:"service_id" json:"service_id"`
	ServiceName   string          `db:"service_name" json:"service_name"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency"`
	EventDate     *time.Time      `db:"event_date" json:"event_date,omitempty"`
	Status        BookingStatus   `db:"status" json:"status"`
	PaymentStatus PaymentStatus   `db:"payment_status" json:"payment_status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	PaidAt        *time.Time      `db:"paid_at" json:"paid_at,omitempty"`
}

// Payment is an immutable proof-of-payment ledger entry, deduplicated by the
// external transaction id.
type Payment struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	TransactionID string          `db:"transaction_id" json:"transaction_id"`
	BookingID     uuid.UUID       `db:"booking_id" json:"booking_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Email         string          `db:"email" json:"email"`
	PaidAt        time.Time       `db:"paid_at" json:"paid_at"`
}

// Decorator is a service-provider profile. Approval is one-way and also
// grants the linked identity the decorator role.
type Decorator struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Email     string          `db:"email" json:"email"`
	Name      string          `db:"name" json:"name"`
	Specialty string          `db:"specialty" json:"specialty"`
	Rating    decimal.Decimal `db:"rating" json:"rating"`
	Approved  bool            `db:"approved" json:"approved"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
