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

type DecoratorRepository struct {
	db *sqlx.DB
}

func NewDecoratorRepository(db *sqlx.DB) *DecoratorRepository {
	return &DecoratorRepository{db: db}
}

func (r *DecoratorRepository) Create(ctx context.Context, d *domain.Decorator) error {
	query := `
		INSERT INTO decorators (id, email, name, specialty, rating, approved, created_at)
		VALUES (:id, :email, :name, :specialty, :rating, :approved, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return pkgerrors.Wrap(err, "failed to create decorator")
	}
	return nil
}

func (r *DecoratorRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Decorator, error) {
	var d domain.Decorator
	err := r.db.GetContext(ctx, &d, `SELECT * FROM decorators WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.ErrDecoratorNotFound
		}
		return nil, pkgerrors.Wrap(err, "failed to find decorator")
	}
	return &d, nil
}

// SetApproved flips the approved flag. Re-approving an already approved
// profile matches a row and is a harmless re-assertion.
func (r *DecoratorRepository) SetApproved(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE decorators SET approved = TRUE WHERE id = $1`, id)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to approve decorator")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pkgerrors.ErrDecoratorNotFound
	}
	return nil
}

// TopApproved returns the highest-rated approved decorators.
func (r *DecoratorRepository) TopApproved(ctx context.Context, limit int) ([]*domain.Decorator, error) {
	decorators := []*domain.Decorator{}
	err := r.db.SelectContext(ctx, &decorators,
		`SELECT * FROM decorators WHERE approved = TRUE ORDER BY rating DESC LIMIT $1`, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list top decorators")
	}
	return decorators, nil
}
