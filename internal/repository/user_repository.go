package repository

import (
	"context"

	"jobboard/internal/database"
	"jobboard/internal/domain/user"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var _ user.Repository = (*PostgresUserRepository)(nil)

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	var (
		u    user.User
		role string
	)
	row := r.db.QueryRow(ctx,
		`SELECT id, name, email, role, is_verified, created_at FROM users WHERE id = $1`, id)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.IsVerified, &u.CreatedAt); err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "get user")
	}
	u.Role = user.Role(role)
	return u, nil
}
