// Package providers contains dependency injection providers for the triage client.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/watchlist/triage/internal/config"
	"github.com/watchlist/triage/internal/logger"
	"github.com/watchlist/triage/internal/validation"
)

// ProvideConfig provides the client configuration, applying the command-line
// overrides registered in the container.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	overrides, err := do.Invoke[config.Overrides](i)
	if err != nil {
		overrides = config.Overrides{}
	}
	return config.Load(overrides)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development" && cfg.Logger.Level == "debug",
		Environment: cfg.App.Environment,
	})

	log.Debug("Starting triage client",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"api_url", cfg.API.BaseURL,
		"storage_path", cfg.Storage.Path,
	)

	return log, nil
}

// ProvideValidator provides the persisted-record validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
