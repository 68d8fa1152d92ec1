package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/client/api"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/client/storage"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

// fakeAuthClient scripts the facade results and counts calls.
type fakeAuthClient struct {
	mu sync.Mutex

	loginResult    api.AuthResult
	registerResult api.AuthResult
	logoutResult   api.Result
	currentResult  api.UserResult

	loginCalls   int
	logoutCalls  int
	currentCalls int
}

func (f *fakeAuthClient) Login(ctx context.Context, email, password string) api.AuthResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	return f.loginResult
}

func (f *fakeAuthClient) Register(ctx context.Context, username, email, password string) api.AuthResult {
	return f.registerResult
}

func (f *fakeAuthClient) Logout(ctx context.Context) api.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutResult
}

func (f *fakeAuthClient) CurrentUser(ctx context.Context) api.UserResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currentCalls++
	return f.currentResult
}

func newTokens(t *testing.T) *storage.TokenStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	return storage.NewTokenStore(storage.New(path))
}

func successAuth(token string) api.AuthResult {
	return api.AuthResult{
		Result: api.Result{Success: true},
		Token:  token,
		User:   &models.User{ID: "u1", Username: "ana", Email: "ana@example.com"},
	}
}

func TestStore_StartsLoading(t *testing.T) {
	s := New(&fakeAuthClient{}, newTokens(t), nil)
	if got := s.Status(); got != StatusLoading {
		t.Errorf("expected loading, got %v", got)
	}
	if s.IsAuthenticated() {
		t.Error("expected not authenticated while loading")
	}
}

func TestInitialize_NoTokenIsAnonymous(t *testing.T) {
	auth := &fakeAuthClient{}
	s := New(auth, newTokens(t), nil)

	s.Initialize(context.Background())

	if got := s.Status(); got != StatusAnonymous {
		t.Errorf("expected anonymous, got %v", got)
	}
	if auth.currentCalls != 0 {
		t.Errorf("expected no network call without a token, got %d", auth.currentCalls)
	}
}

func TestInitialize_ValidTokenAuthenticates(t *testing.T) {
	tokens := newTokens(t)
	if err := tokens.SetToken("stored"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	auth := &fakeAuthClient{currentResult: api.UserResult{
		Result: api.Result{Success: true},
		User:   &models.User{ID: "u1", Username: "ana"},
	}}
	s := New(auth, tokens, nil)

	s.Initialize(context.Background())

	if got := s.Status(); got != StatusAuthenticated {
		t.Fatalf("expected authenticated, got %v", got)
	}
	if user := s.User(); user == nil || user.Username != "ana" {
		t.Errorf("unexpected user %+v", user)
	}
	if auth.currentCalls != 1 {
		t.Errorf("expected one validation call, got %d", auth.currentCalls)
	}
}

func TestInitialize_RejectedTokenIsCleared(t *testing.T) {
	tokens := newTokens(t)
	if err := tokens.SetToken("stale"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	auth := &fakeAuthClient{currentResult: api.UserResult{
		Result: api.Result{Success: false, Message: api.MsgUnauthorized},
	}}
	s := New(auth, tokens, nil)

	s.Initialize(context.Background())

	if got := s.Status(); got != StatusAnonymous {
		t.Errorf("expected anonymous, got %v", got)
	}
	if got := tokens.Token(); got != "" {
		t.Errorf("expected cleared token, got %q", got)
	}
}

func TestLogin_SuccessPersistsToken(t *testing.T) {
	tokens := newTokens(t)
	auth := &fakeAuthClient{loginResult: successAuth("fresh-token")}
	s := New(auth, tokens, nil)

	res := s.Login(context.Background(), "ana@example.com", "secret")
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if got := s.Status(); got != StatusAuthenticated {
		t.Errorf("expected authenticated, got %v", got)
	}
	if got := tokens.Token(); got != "fresh-token" {
		t.Errorf("expected persisted token, got %q", got)
	}
}

func TestLogin_FailureLeavesStateUnchanged(t *testing.T) {
	tokens := newTokens(t)
	auth := &fakeAuthClient{loginResult: api.AuthResult{
		Result: api.Result{Success: false, Message: "Invalid email or password"},
	}}
	s := New(auth, tokens, nil)
	s.Initialize(context.Background())

	res := s.Login(context.Background(), "ana@example.com", "wrong")
	if res.Success {
		t.Fatal("expected failure")
	}
	if got := s.Status(); got != StatusAnonymous {
		t.Errorf("expected anonymous, got %v", got)
	}
	if got := tokens.Token(); got != "" {
		t.Errorf("expected no token, got %q", got)
	}
}

func TestRegister_SuccessSignsIn(t *testing.T) {
	tokens := newTokens(t)
	auth := &fakeAuthClient{registerResult: successAuth("new-token")}
	s := New(auth, tokens, nil)

	res := s.Register(context.Background(), "ana", "ana@example.com", "secret")
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if got := s.Status(); got != StatusAuthenticated {
		t.Errorf("expected authenticated, got %v", got)
	}
	if got := tokens.Token(); got != "new-token" {
		t.Errorf("expected persisted token, got %q", got)
	}
}

func TestLogout_LocalStateClearsImmediately(t *testing.T) {
	tokens := newTokens(t)
	auth := &fakeAuthClient{
		loginResult:  successAuth("tok"),
		logoutResult: api.Result{Success: false, Message: api.MsgNetworkError},
	}
	s := New(auth, tokens, nil)
	s.Login(context.Background(), "ana@example.com", "secret")

	s.Logout(context.Background())

	// Local teardown never waits on the server call.
	if got := s.Status(); got != StatusAnonymous {
		t.Errorf("expected anonymous immediately, got %v", got)
	}
	if got := tokens.Token(); got != "" {
		t.Errorf("expected cleared token, got %q", got)
	}
	if user := s.User(); user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}

	// The fire-and-forget revocation still happens.
	deadline := time.After(time.Second)
	for {
		auth.mu.Lock()
		calls := auth.logoutCalls
		auth.mu.Unlock()
		if calls == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("server logout was never attempted")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestInvalidate_SingleTransition(t *testing.T) {
	tokens := newTokens(t)
	auth := &fakeAuthClient{loginResult: successAuth("tok")}
	s := New(auth, tokens, nil)
	s.Login(context.Background(), "ana@example.com", "secret")

	var transitions int
	s.Subscribe(func(status Status) {
		if status == StatusAnonymous {
			transitions++
		}
	})

	// Several rejected requests may all observe a 401.
	s.Invalidate()
	s.Invalidate()
	s.Invalidate()

	if transitions != 1 {
		t.Errorf("expected one anonymous transition, got %d", transitions)
	}
	if got := tokens.Token(); got != "" {
		t.Errorf("expected cleared token, got %q", got)
	}
}

func TestSubscribe_NotifiedOnChangeOnly(t *testing.T) {
	auth := &fakeAuthClient{loginResult: successAuth("tok")}
	s := New(auth, newTokens(t), nil)

	var statuses []Status
	s.Subscribe(func(status Status) { statuses = append(statuses, status) })

	s.Initialize(context.Background()) // loading -> anonymous
	s.Login(context.Background(), "ana@example.com", "secret")
	s.Login(context.Background(), "ana@example.com", "secret") // already authenticated

	want := []Status{StatusAnonymous, StatusAuthenticated}
	if len(statuses) != len(want) {
		t.Fatalf("expected %d notifications, got %v", len(want), statuses)
	}
	for i, status := range want {
		if statuses[i] != status {
			t.Errorf("notification %d: expected %v, got %v", i, status, statuses[i])
		}
	}
}
