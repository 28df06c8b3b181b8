package postgres

import (
	"context"
	"database/sql"
	"errors"

	"styledecor/internal/domain"
	pkgerrors "styledecor/pkg/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Record applies a confirmed payment in one transaction: it marks the booking
// paid and appends the payment row. The UNIQUE constraint on transaction_id is
// the source of truth for dedup; a concurrent duplicate surfaces as
// ErrPaymentAlreadyRecorded and nothing is written. The booking update only
// touches rows still unpaid, so payment_status can never move paid -> unpaid.
func (r *PaymentRepository) Record(ctx context.Context, p *domain.Payment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	var exists bool
	err = tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, p.BookingID)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to check booking")
	}
	if !exists {
		return pkgerrors.ErrBookingNotFound
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE bookings
		SET payment_status = $1, paid_at = $2
		WHERE id = $3 AND payment_status = $4
	`, domain.PaymentStatusPaid, p.PaidAt, p.BookingID, domain.PaymentStatusUnpaid)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to mark booking paid")
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO payments (id, transaction_id, booking_id, amount, email, paid_at)
		VALUES (:id, :transaction_id, :booking_id, :amount, :email, :paid_at)
	`, p)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return pkgerrors.ErrPaymentAlreadyRecorded
		}
		return pkgerrors.Wrap(err, "failed to insert payment")
	}

	return tx.Commit()
}

func (r *PaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.GetContext(ctx, &p,
		`SELECT * FROM payments WHERE transaction_id = $1`, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "failed to find payment")
	}
	return &p, nil
}

func (r *PaymentRepository) FindByEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	payments := []*domain.Payment{}
	err := r.db.SelectContext(ctx, &payments,
		`SELECT * FROM payments WHERE email = $1 ORDER BY paid_at DESC`, email)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list payments")
	}
	return payments, nil
}
