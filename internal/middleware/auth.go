// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// UserSource resolves a bearer token to its user.
type UserSource interface {
	UserByToken(ctx context.Context, token string) (*models.User, error)
}

// BearerAuth enforces token authentication.
//
// It extracts the token from the "Authorization: Bearer <token>" header,
// resolves it to a user, and stores the user in the request context for
// downstream handlers. Requests with a missing, malformed, unknown, or
// expired token are rejected with 401.
func BearerAuth(users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				unauthorized(w)
				return
			}

			user, err := users.UserByToken(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Please login to continue."})
}

// UserFromContext extracts the authenticated user from the request
// context. Returns nil if the request was not authenticated.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// WithUser returns a context carrying the given user; used by handler
// tests to simulate an authenticated request.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
