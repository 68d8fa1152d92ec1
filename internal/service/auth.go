// Package service provides the business logic of the storefront backend,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

// Sentinel errors the handlers translate into HTTP statuses.
var (
	// ErrInvalidCredentials is returned for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidToken is returned for unknown or expired session tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrValidation wraps rejected input; the message is user-facing.
	ErrValidation = errors.New("validation failed")
)

// tokenTTL is the lifetime of an issued session token.
const tokenTTL = 30 * 24 * time.Hour

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u models.User, passwordHash []byte) error
	UserByEmail(ctx context.Context, email string) (*models.User, []byte, error)
	CreateToken(ctx context.Context, token, userID string, expiresAt time.Time) error
	DeleteToken(ctx context.Context, token string) error
	UserByToken(ctx context.Context, token string) (*models.User, error)
}

// AuthService implements registration, login, and token-based session
// resolution.
type AuthService struct {
	repo AuthRepository
}

// NewAuthService constructs an AuthService using the provided repository.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Register creates an account and issues a session token for it.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, "", validationError("username is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", validationError("a valid email is required")
	}
	if len(password) < 6 {
		return nil, "", validationError("password must be at least 6 characters")
	}

	taken, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user, hash); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, hash, err := s.repo.UserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes a session token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.repo.DeleteToken(ctx, token)
}

// UserByToken resolves a bearer token to its user.
func (s *AuthService) UserByToken(ctx context.Context, token string) (*models.User, error) {
	user, err := s.repo.UserByToken(ctx, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueToken(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.repo.CreateToken(ctx, token, userID, time.Now().UTC().Add(tokenTTL)); err != nil {
		return "", err
	}
	return token, nil
}
