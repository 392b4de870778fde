// Package di provides dependency injection configuration for the triage client.
package di

import (
	"github.com/samber/do/v2"

	"github.com/watchlist/triage/internal/columns"
	"github.com/watchlist/triage/internal/config"
	"github.com/watchlist/triage/internal/di/providers"
	"github.com/watchlist/triage/internal/events"
	"github.com/watchlist/triage/internal/logger"
	"github.com/watchlist/triage/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
// overrides are the command-line configuration values.
func NewContainer(overrides config.Overrides) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, overrides)

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideEventBus)

	// Preference storage
	do.Provide(injector, providers.ProvideStorage)
	do.Provide(injector, providers.ProvideColumnStore)
	do.Provide(injector, providers.ProvideSavedViews)
	do.Provide(injector, providers.ProvidePreferences)

	// Listings API
	do.Provide(injector, providers.ProvideTransport)
	do.Provide(injector, providers.ProvideLocation)
	do.Provide(injector, providers.ProvideQueryController)
	do.Provide(injector, providers.ProvideActions)
	do.Provide(injector, providers.ProvideSuggestions)

	return injector
}

// Bootstrap initializes the services every command needs, so configuration
// and storage errors surface before any command runs.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*validation.Validator](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*events.Bus](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StorageHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*columns.Store](injector); err != nil {
		return err
	}
	return nil
}
