// Package storage implements the client's durable local store: a single
// JSON file holding string keys mapped to JSON-encoded values. The auth
// token lives here between runs.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// TokenKey is the key under which the auth token is persisted.
const TokenKey = "token"

// LocalStorage is a file-backed key/value store. A missing or corrupt
// file behaves as an empty store so a broken local state never prevents
// the client from running.
type LocalStorage struct {
	path string

	mu     sync.Mutex
	values map[string]json.RawMessage
}

// New returns a LocalStorage persisting to the given path. The file is
// read immediately; read failures leave the store empty.
func New(path string) *LocalStorage {
	ls := &LocalStorage{path: path, values: make(map[string]json.RawMessage)}
	_ = ls.load()
	return ls
}

func (ls *LocalStorage) load() error {
	data, err := os.ReadFile(ls.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var values map[string]json.RawMessage
	if err := json.Unmarshal(data, &values); err != nil {
		// Corrupt file: start over rather than failing every operation.
		return fmt.Errorf("decode %s: %w", ls.path, err)
	}
	ls.values = values
	return nil
}

func (ls *LocalStorage) save() error {
	data, err := json.Marshal(ls.values)
	if err != nil {
		return err
	}
	return os.WriteFile(ls.path, data, 0600)
}

// Set stores v under key and persists the store to disk.
func (ls *LocalStorage) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.values == nil {
		ls.values = make(map[string]json.RawMessage)
	}
	ls.values[key] = data
	return ls.save()
}

// Get decodes the value stored under key into out and reports whether the
// key was present. Absent keys leave out untouched so callers can prefill
// it with a default.
func (ls *LocalStorage) Get(key string, out any) (bool, error) {
	ls.mu.Lock()
	data, ok := ls.values[key]
	ls.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

// Remove deletes key and persists the store. Removing an absent key is
// not an error.
func (ls *LocalStorage) Remove(key string) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if _, ok := ls.values[key]; !ok {
		return nil
	}
	delete(ls.values, key)
	return ls.save()
}
