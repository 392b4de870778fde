// Package prefs reads and writes the small UI preferences: the filter sidebar
// flag and the theme override.
package prefs

import (
	"log/slog"

	"github.com/watchlist/triage/internal/logger"
	"github.com/watchlist/triage/internal/storage"
)

// Theme is an explicit color scheme choice.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool { return t == ThemeLight || t == ThemeDark }

// Preferences wraps a storage collaborator. Every read tolerates missing or
// corrupt values.
type Preferences struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates Preferences over s.
func New(s storage.Storage, log *slog.Logger) *Preferences {
	return &Preferences{storage: s, logger: logger.OrDiscard(log)}
}

// SidebarOpen reports whether the filter sidebar is open. Only the stored
// value "0" means closed.
func (p *Preferences) SidebarOpen() bool {
	v, ok := storage.Read(p.storage, storage.KeySidebarOpen, p.logger)
	return !ok || v != "0"
}

// SetSidebarOpen persists the sidebar flag.
func (p *Preferences) SetSidebarOpen(open bool) {
	v := "0"
	if open {
		v = "1"
	}
	storage.Write(p.storage, storage.KeySidebarOpen, v, p.logger)
}

// Theme returns the stored theme. ok is false when no valid override is
// stored and the system scheme applies.
func (p *Preferences) Theme() (theme Theme, ok bool) {
	v, found := storage.Read(p.storage, storage.KeyTheme, p.logger)
	if !found {
		return "", false
	}
	t := Theme(v)
	if !t.Valid() {
		return "", false
	}
	return t, true
}

// SetTheme stores an override. A nil theme removes it.
func (p *Preferences) SetTheme(theme *Theme) {
	if theme == nil || !theme.Valid() {
		storage.Delete(p.storage, storage.KeyTheme, p.logger)
		return
	}
	storage.Write(p.storage, storage.KeyTheme, string(*theme), p.logger)
}
