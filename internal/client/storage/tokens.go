package storage

import "sync"

// TokenStore keeps the auth token in memory and mirrors it into the
// durable LocalStorage. Persistence failures do not lose the in-memory
// token: the session then simply does not survive a restart.
type TokenStore struct {
	ls *LocalStorage

	mu    sync.Mutex
	token string
}

// NewTokenStore loads any persisted token from ls.
func NewTokenStore(ls *LocalStorage) *TokenStore {
	ts := &TokenStore{ls: ls}
	var token string
	if ok, err := ls.Get(TokenKey, &token); err == nil && ok {
		ts.token = token
	}
	return ts
}

// Token returns the current token, or "" when anonymous.
func (ts *TokenStore) Token() string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.token
}

// SetToken updates the in-memory token and persists it. The returned
// error reports the persistence outcome only.
func (ts *TokenStore) SetToken(token string) error {
	ts.mu.Lock()
	ts.token = token
	ts.mu.Unlock()
	return ts.ls.Set(TokenKey, token)
}

// Clear drops the token from memory and durable storage.
func (ts *TokenStore) Clear() error {
	ts.mu.Lock()
	ts.token = ""
	ts.mu.Unlock()
	return ts.ls.Remove(TokenKey)
}
