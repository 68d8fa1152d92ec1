// Package repository provides PostgreSQL persistence for the storefront
// backend.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

// PostgresAuthRepository implements user and session-token persistence
// against a PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the
// given database connection.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// EmailExists checks whether a user with the specified email is registered.
func (r *PostgresAuthRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts a new user row with the given password hash.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, u models.User, passwordHash []byte) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (id, username, email, password_hash, is_admin, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, u.Email, passwordHash, u.IsAdmin, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UserByEmail fetches a user and their password hash by email.
// Returns sql.ErrNoRows when no such user exists.
func (r *PostgresAuthRepository) UserByEmail(ctx context.Context, email string) (*models.User, []byte, error) {
	var u models.User
	var hash []byte
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, username, email, password_hash, is_admin, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Username, &u.Email, &hash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, nil, err
	}
	return &u, hash, nil
}

// CreateToken records a session token for the user.
func (r *PostgresAuthRepository) CreateToken(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("create token: %w", err)
	}
	return nil
}

// DeleteToken revokes a session token. Deleting an unknown token is not
// an error.
func (r *PostgresAuthRepository) DeleteToken(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM tokens WHERE token = $1`, token)
	return err
}

// UserByToken resolves an unexpired session token to its user.
// Returns sql.ErrNoRows for unknown or expired tokens.
func (r *PostgresAuthRepository) UserByToken(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT u.id, u.username, u.email, u.is_admin, u.created_at
		 FROM tokens t JOIN users u ON u.id = t.user_id
		 WHERE t.token = $1 AND t.expires_at > NOW()`,
		token,
	).Scan(&u.ID, &u.Username, &u.Email, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
