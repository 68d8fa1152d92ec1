package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/middleware"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/service"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	user  *models.User
	token string
	err   error

	logoutToken string
}

func (f *fakeAuthService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	return f.user, f.token, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	return f.user, f.token, f.err
}

func (f *fakeAuthService) Logout(ctx context.Context, token string) error {
	f.logoutToken = token
	return f.err
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "validation error passes through",
			body:           `{"username":"ana","email":"ana@example.com","password":"123"}`,
			service:        &fakeAuthService{err: service.ErrValidation},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "validation failed",
		},
		{
			name:           "email taken",
			body:           `{"username":"ana","email":"ana@example.com","password":"secret1"}`,
			service:        &fakeAuthService{err: service.ErrEmailTaken},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "email is already registered",
		},
		{
			name:           "repository failure",
			body:           `{"username":"ana","email":"ana@example.com","password":"secret1"}`,
			service:        &fakeAuthService{err: errors.New("db down")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "internal error",
		},
		{
			name: "success",
			body: `{"username":"ana","email":"ana@example.com","password":"secret1"}`,
			service: &fakeAuthService{
				user:  &models.User{ID: "u1", Username: "ana", Email: "ana@example.com"},
				token: "tok-1",
			},
			expectedCode:   http.StatusCreated,
			expectedSubstr: `"token":"tok-1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service}
			h.Register(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(res.Body); err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if !bytes.Contains(buf.Bytes(), []byte(tt.expectedSubstr)) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, buf.String())
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `{`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "bad credentials",
			body:           `{"email":"ana@example.com","password":"wrong"}`,
			service:        &fakeAuthService{err: service.ErrInvalidCredentials},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "Invalid email or password",
		},
		{
			name: "success",
			body: `{"email":"ana@example.com","password":"secret1"}`,
			service: &fakeAuthService{
				user:  &models.User{ID: "u1", Username: "ana"},
				token: "tok-1",
			},
			expectedCode:   http.StatusOK,
			expectedSubstr: `"token":"tok-1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service}
			h.Login(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(res.Body); err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if !bytes.Contains(buf.Bytes(), []byte(tt.expectedSubstr)) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, buf.String())
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &fakeAuthService{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer tok-1")

	h := &AuthHandler{AuthService: svc}
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.logoutToken != "tok-1" {
		t.Errorf("expected token passed through, got %q", svc.logoutToken)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	user := &models.User{ID: "u1", Username: "ana", Email: "ana@example.com"}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), user))

	h := &AuthHandler{AuthService: &fakeAuthService{}}
	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		User models.User `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.User.Username != "ana" {
		t.Errorf("unexpected user %+v", payload.User)
	}
}

func TestAuthHandler_MeWithoutUser(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/auth/me", nil)

	h := &AuthHandler{AuthService: &fakeAuthService{}}
	h.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
