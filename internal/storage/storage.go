// Package storage implements the key/value collaborator that persists user
// preferences (visible columns, presets, saved views, theme, sidebar flag).
//
// Storage failures are never fatal for the client: callers go through Read,
// Write and Delete, which log and swallow errors (and panics from foreign
// implementations) so a broken store behaves like an empty one.
package storage

import (
	"fmt"
	"log/slog"
	"sync"
)

// Storage keys. Each key is loaded and saved independently.
const (
	KeySidebarOpen     = "ebay-watchlist.sidebar.open"
	KeyTableColumns    = "ebay-watchlist.table.columns"
	KeyTablePresets    = "ebay-watchlist.table.presets"
	KeySavedViews      = "ebay-watchlist.saved-filter-views"
	KeyWatchedSearches = "ebay-watchlist.watched-searches"
	KeyTheme           = "ebay-watchlist.theme"

	// KeyLastQuery prefixes the last query string written for a location path.
	KeyLastQuery = "ebay-watchlist.last-query:"
)

// Storage is a synchronous string key/value store.
type Storage interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// Read returns the stored value, treating any failure as absent.
func Read(s Storage, key string, log *slog.Logger) (value string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logFailure(log, "get", key, fmt.Errorf("panic: %v", r))
			value, ok = "", false
		}
	}()

	v, found, err := s.Get(key)
	if err != nil {
		logFailure(log, "get", key, err)
		return "", false
	}
	return v, found
}

// Write stores value under key and reports whether it succeeded.
func Write(s Storage, key, value string, log *slog.Logger) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logFailure(log, "set", key, fmt.Errorf("panic: %v", r))
			ok = false
		}
	}()

	if err := s.Set(key, value); err != nil {
		logFailure(log, "set", key, err)
		return false
	}
	return true
}

// Delete removes key and reports whether it succeeded.
func Delete(s Storage, key string, log *slog.Logger) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logFailure(log, "remove", key, fmt.Errorf("panic: %v", r))
			ok = false
		}
	}()

	if err := s.Remove(key); err != nil {
		logFailure(log, "remove", key, err)
		return false
	}
	return true
}

func logFailure(log *slog.Logger, op, key string, err error) {
	if log == nil {
		return
	}
	log.Warn("preference storage failed", "op", op, "key", key, "error", err)
}

// Memory is an in-process Storage, used for ephemeral sessions and tests.
type Memory struct {
	values map[string]string
	mu     sync.RWMutex
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements Storage.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Storage.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Remove implements Storage.
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
