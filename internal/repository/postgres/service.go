package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"styledecor/internal/domain"
	pkgerrors "styledecor/pkg/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ServiceFilter narrows a catalog search. Zero values mean "no filter".
type ServiceFilter struct {
	Search   string
	Category string
	MinCost  *decimal.Decimal
	MaxCost  *decimal.Decimal
	Limit    int
}

type ServiceRepository struct {
	db *sqlx.DB
}

func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(ctx context.Context, svc *domain.Service) error {
	query := `
		INSERT INTO services (id, name, category, description, cost, image_url, created_by_email, created_at)
		VALUES (:id, :name, :category, :description, :cost, :image_url, :created_by_email, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, svc); err != nil {
		return pkgerrors.Wrap(err, "failed to create service")
	}
	return nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	var svc domain.Service
	err := r.db.GetContext(ctx, &svc, `SELECT * FROM services WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.ErrServiceNotFound
		}
		return nil, pkgerrors.Wrap(err, "failed to find service")
	}
	return &svc, nil
}

// Search returns services matching the filter. The name match is a
// case-insensitive substring search.
func (r *ServiceRepository) Search(ctx context.Context, filter ServiceFilter) ([]*domain.Service, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.MinCost != nil && filter.MaxCost != nil {
		args = append(args, *filter.MinCost)
		conditions = append(conditions, fmt.Sprintf("cost >= $%d", len(args)))
		args = append(args, *filter.MaxCost)
		conditions = append(conditions, fmt.Sprintf("cost <= $%d", len(args)))
	}

	query := `SELECT * FROM services`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	services := []*domain.Service{}
	if err := r.db.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to search services")
	}
	return services, nil
}

// ServicePatch carries the fields an admin may change. Nil fields are left
// untouched.
type ServicePatch struct {
	Name        *string
	Category    *string
	Description *string
	Cost        *decimal.Decimal
	ImageURL    *string
}

func (r *ServiceRepository) Update(ctx context.Context, id uuid.UUID, patch ServicePatch) error {
	sets := []string{}
	args := []interface{}{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Cost != nil {
		add("cost", *patch.Cost)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE services SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to update service")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pkgerrors.ErrServiceNotFound
	}
	return nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to delete service")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pkgerrors.ErrServiceNotFound
	}
	return nil
}
