package location

import (
	"log/slog"
	"strings"

	"github.com/watchlist/triage/internal/logger"
	"github.com/watchlist/triage/internal/storage"
)

// Stored is a Location kept in preference storage, one query string per path.
// A later process opened on the same path resumes from the last replacement.
type Stored struct {
	storage storage.Storage
	logger  *slog.Logger
	path    string
}

// NewStored creates a stored location for path.
func NewStored(s storage.Storage, path string, log *slog.Logger) *Stored {
	if path == "" {
		path = "/"
	}
	return &Stored{storage: s, logger: logger.OrDiscard(log), path: path}
}

// CurrentSearch implements Location.
func (l *Stored) CurrentSearch() string {
	search, _ := storage.Read(l.storage, l.key(), l.logger)
	return search
}

// Replace implements Location. Only the configured path is stored; a
// different path is logged and written under the configured one.
func (l *Stored) Replace(path, search string) {
	if path != "" && path != l.path {
		l.logger.Debug("location path differs from stored path", "path", path, "stored_path", l.path)
	}
	search = strings.TrimPrefix(search, "?")
	if search == "" {
		storage.Delete(l.storage, l.key(), l.logger)
		return
	}
	storage.Write(l.storage, l.key(), search, l.logger)
}

// Path returns the stored path.
func (l *Stored) Path() string { return l.path }

// Href returns the path and stored query string.
func (l *Stored) Href() string { return Href(l.path, l.CurrentSearch()) }

func (l *Stored) key() string { return storage.KeyLastQuery + l.path }
