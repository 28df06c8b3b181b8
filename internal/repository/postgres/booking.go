package postgres

import (
	"context"
	"database/sql"
	"errors"

	"styledecor/internal/domain"
	pkgerrors "styledecor/pkg/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, user_email, service_id, service_name, amount, currency,
			event_date, status, payment_status, created_at)
		VALUES (:id, :user_email, :service_id, :service_name, :amount, :currency,
			:event_date, :status, :payment_status, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, b); err != nil {
		return pkgerrors.Wrap(err, "failed to create booking")
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.GetContext(ctx, &b, `SELECT * FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.ErrBookingNotFound
		}
		return nil, pkgerrors.Wrap(err, "failed to find booking")
	}
	return &b, nil
}

func (r *BookingRepository) FindByOwner(ctx context.Context, email string) ([]*domain.Booking, error) {
	bookings := []*domain.Booking{}
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT * FROM bookings WHERE user_email = $1 ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list bookings")
	}
	return bookings, nil
}

// UpdateStatus overwrites the lifecycle status. The payment axis is untouched.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to update booking status")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pkgerrors.ErrBookingNotFound
	}
	return nil
}
