package providers

import (
	"github.com/samber/do/v2"

	"github.com/watchlist/triage/internal/columns"
	"github.com/watchlist/triage/internal/config"
	"github.com/watchlist/triage/internal/events"
	"github.com/watchlist/triage/internal/logger"
	"github.com/watchlist/triage/internal/prefs"
	"github.com/watchlist/triage/internal/savedviews"
	"github.com/watchlist/triage/internal/storage"
	"github.com/watchlist/triage/internal/validation"
)

// StorageHandle wraps the preference database with shutdown capability.
type StorageHandle struct {
	*storage.Badger
}

// Shutdown implements do.Shutdownable.
func (h *StorageHandle) Shutdown() error {
	return h.Close()
}

// ProvideStorage opens the preference database. An empty storage path keeps
// preferences in memory for the life of the process.
func ProvideStorage(i do.Injector) (*StorageHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := storage.OpenBadger(cfg.Storage.Path, log.Logger)
	if err != nil {
		return nil, err
	}
	return &StorageHandle{Badger: db}, nil
}

// ProvideEventBus provides the event bus controllers publish to.
func ProvideEventBus(i do.Injector) (*events.Bus, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return events.NewBus(log.Logger), nil
}

// ProvideColumnStore provides the dense-table column and preset store.
func ProvideColumnStore(i do.Injector) (*columns.Store, error) {
	db := do.MustInvoke[*StorageHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)
	bus := do.MustInvoke[*events.Bus](i)

	return columns.NewStore(db, v, log.Logger, bus), nil
}

// ProvideSavedViews provides the saved view and watched search store.
func ProvideSavedViews(i do.Injector) (*savedviews.Store, error) {
	db := do.MustInvoke[*StorageHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return savedviews.NewStore(db, v, log.Logger), nil
}

// ProvidePreferences provides the theme and sidebar preferences.
func ProvidePreferences(i do.Injector) (*prefs.Preferences, error) {
	db := do.MustInvoke[*StorageHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return prefs.New(db, log.Logger), nil
}
