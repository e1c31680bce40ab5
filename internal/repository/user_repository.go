package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"polibest/api/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (user_id, email, name, picture, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	_, err := r.pool.Exec(ctx, query,
		user.UserID,
		user.Email,
		user.Name,
		user.Picture,
	)
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT user_id, email, name, picture, created_at
		FROM users WHERE email = $1
	`

	row := r.pool.QueryRow(ctx, query, email)
	var user models.User
	if err := row.Scan(
		&user.UserID,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (models.User, error) {
	const query = `
		SELECT user_id, email, name, picture, created_at
		FROM users WHERE user_id = $1
	`

	row := r.pool.QueryRow(ctx, query, userID)
	var user models.User
	if err := row.Scan(
		&user.UserID,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// UpdateProfile refreshes the provider-supplied fields on every login.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, name string, picture *string) error {
	const query = `
		UPDATE users SET name = $2, picture = $3 WHERE user_id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, userID, name, picture)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
