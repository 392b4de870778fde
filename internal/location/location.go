// Package location abstracts the address bar the query state is mirrored into.
package location

import (
	"strings"
	"sync"
)

// Location reads the current query string and replaces it without navigating.
type Location interface {
	// CurrentSearch returns the current query string, with or without a leading "?".
	CurrentSearch() string
	// Replace swaps the current entry for path + search. search has no leading "?".
	Replace(path, search string)
}

// Href joins a path and a serialized query string the way the address bar shows
// it: the bare path when the query is empty.
func Href(path, search string) string {
	search = strings.TrimPrefix(search, "?")
	if path == "" {
		path = "/"
	}
	if search == "" {
		return path
	}
	return path + "?" + search
}

// Memory is an in-process Location that records every replacement.
type Memory struct {
	mu      sync.Mutex
	path    string
	search  string
	history []string
}

// NewMemory creates a location starting at href (for example "/favorites?page=2").
func NewMemory(href string) *Memory {
	path, search, _ := strings.Cut(href, "?")
	if path == "" {
		path = "/"
	}
	return &Memory{path: path, search: search}
}

// CurrentSearch implements Location.
func (m *Memory) CurrentSearch() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.search
}

// Replace implements Location.
func (m *Memory) Replace(path, search string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if path == "" {
		path = m.path
	}
	m.path = path
	m.search = strings.TrimPrefix(search, "?")
	m.history = append(m.history, Href(m.path, m.search))
}

// Path returns the current path.
func (m *Memory) Path() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

// Href returns the current path and query string.
func (m *Memory) Href() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Href(m.path, m.search)
}

// Replacements returns every href written through Replace, oldest first.
func (m *Memory) Replacements() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.history...)
}
