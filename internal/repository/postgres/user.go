// Package postgres implements the persistent stores on PostgreSQL.
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

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A duplicate email maps to ErrUserAlreadyExists
// so registration can treat it as a no-op.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, name, role, created_at)
		VALUES (:id, :email, :name, :role, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return pkgerrors.ErrUserAlreadyExists
		}
		return pkgerrors.Wrap(err, "failed to create user")
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(err, "failed to find user")
	}
	return &user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	users := []*domain.User{}
	err := r.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list users")
	}
	return users, nil
}

// UpdateRole sets the role for the identity with the given email.
func (r *UserRepository) UpdateRole(ctx context.Context, email string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1 WHERE email = $2`, role, email)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to update role")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pkgerrors.ErrUserNotFound
	}
	return nil
}
