// Package session owns the client's authentication state: the current
// token, the signed-in user, and the loading/authenticated/anonymous
// lifecycle. No other component mutates this state directly.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/client/api"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/client/storage"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

// Status is the session lifecycle state.
type Status int

const (
	// StatusLoading means a stored token is being validated.
	StatusLoading Status = iota
	// StatusAuthenticated means a validated user is signed in.
	StatusAuthenticated
	// StatusAnonymous means no valid session exists.
	StatusAnonymous
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// AuthClient is the slice of the API facade the store drives.
type AuthClient interface {
	Login(ctx context.Context, email, password string) api.AuthResult
	Register(ctx context.Context, username, email, password string) api.AuthResult
	Logout(ctx context.Context) api.Result
	CurrentUser(ctx context.Context) api.UserResult
}

// logoutTimeout bounds the fire-and-forget server logout call.
const logoutTimeout = 5 * time.Second

// Store holds the session state. It starts in StatusLoading; Initialize
// resolves it from durable storage.
//
// Invariant: user is non-nil iff the status is StatusAuthenticated, and an
// empty token implies the status is not StatusAuthenticated.
type Store struct {
	auth   AuthClient
	tokens *storage.TokenStore
	log    *zap.Logger

	mu     sync.Mutex
	status Status
	user   *models.User
	subs   []func(Status)
}

// New constructs a Store around the auth facade and token storage.
func New(auth AuthClient, tokens *storage.TokenStore, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		auth:   auth,
		tokens: tokens,
		log:    log,
		status: StatusLoading,
	}
}

// Subscribe registers fn to be invoked on every status transition. The
// cart store uses this to fetch on sign-in and reset on sign-out.
func (s *Store) Subscribe(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// transition updates the status and user together and notifies
// subscribers when the status actually changed. Callbacks run outside
// the lock.
func (s *Store) transition(status Status, user *models.User) {
	s.mu.Lock()
	changed := s.status != status
	s.status = status
	s.user = user
	subs := make([]func(Status), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range subs {
		fn(status)
	}
}

// Status returns the current lifecycle state.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// User returns the signed-in user, or nil.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IsAuthenticated reports whether a validated user is signed in.
func (s *Store) IsAuthenticated() bool {
	return s.Status() == StatusAuthenticated
}

// Token returns the current auth token, or "".
func (s *Store) Token() string {
	return s.tokens.Token()
}

// Initialize resolves the startup state: with no stored token the session
// is anonymous; otherwise the token is validated against the backend and
// any failure clears it.
func (s *Store) Initialize(ctx context.Context) {
	if s.tokens.Token() == "" {
		s.transition(StatusAnonymous, nil)
		return
	}

	res := s.auth.CurrentUser(ctx)
	if !res.Success || res.User == nil {
		s.log.Info("stored token rejected, starting anonymous",
			zap.String("reason", res.Message))
		s.clearToken()
		s.transition(StatusAnonymous, nil)
		return
	}

	s.transition(StatusAuthenticated, res.User)
}

// Login authenticates with the backend and, on success, persists the
// token and transitions to authenticated. On failure the state is left
// unchanged. Concurrent calls are not deduplicated; the last applied
// response wins.
func (s *Store) Login(ctx context.Context, email, password string) api.Result {
	res := s.auth.Login(ctx, email, password)
	if !res.Success {
		return res.Result
	}
	s.persistToken(res.Token)
	s.transition(StatusAuthenticated, res.User)
	return res.Result
}

// Register creates an account and signs it in, symmetric to Login.
func (s *Store) Register(ctx context.Context, username, email, password string) api.Result {
	res := s.auth.Register(ctx, username, email, password)
	if !res.Success {
		return res.Result
	}
	s.persistToken(res.Token)
	s.transition(StatusAuthenticated, res.User)
	return res.Result
}

// Logout clears durable and in-memory state synchronously and
// unconditionally; local termination never waits on the network. The
// server-side revocation is fire-and-forget and only logged on failure.
func (s *Store) Logout(ctx context.Context) {
	s.clearToken()
	s.transition(StatusAnonymous, nil)

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)
		defer cancel()
		if res := s.auth.Logout(ctx); !res.Success {
			s.log.Warn("server logout failed", zap.String("message", res.Message))
		}
	}()
}

// Invalidate is the 401 hook: it drops the session immediately. It is
// idempotent, so any number of concurrent rejected requests produce a
// single authenticated-to-anonymous transition.
func (s *Store) Invalidate() {
	s.mu.Lock()
	already := s.status == StatusAnonymous
	s.mu.Unlock()
	if already {
		return
	}
	s.clearToken()
	s.transition(StatusAnonymous, nil)
}

// persistToken stores the token durably. Storage failures degrade to an
// in-memory session that will not survive a restart.
func (s *Store) persistToken(token string) {
	if err := s.tokens.SetToken(token); err != nil {
		s.log.Warn("failed to persist auth token, session is memory-only", zap.Error(err))
	}
}

func (s *Store) clearToken() {
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn("failed to clear stored auth token", zap.Error(err))
	}
}
