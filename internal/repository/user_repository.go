package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aridharma/sheetdrop/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository wires a repository backed by pgxpool.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO users (id, full_name, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		user.ID,
		user.FullName,
		user.Email,
		user.PasswordHash,
	)
	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *userRepository) get(ctx context.Context, where string, arg any) (domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(
		ctx,
		`SELECT id, full_name, email, password_hash, created_at, updated_at FROM users `+where,
		arg,
	).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
