package providers

import (
	"context"

	"github.com/samber/do/v2"
	"golang.org/x/sync/singleflight"

	"github.com/watchlist/triage/internal/config"
	"github.com/watchlist/triage/internal/events"
	"github.com/watchlist/triage/internal/filtertags"
	"github.com/watchlist/triage/internal/ledger"
	"github.com/watchlist/triage/internal/location"
	"github.com/watchlist/triage/internal/logger"
	"github.com/watchlist/triage/internal/query"
	"github.com/watchlist/triage/internal/querysync"
	"github.com/watchlist/triage/internal/suggest"
	"github.com/watchlist/triage/internal/transport"
)

// ProvideTransport provides the listings API client.
func ProvideTransport(i do.Injector) (*transport.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return transport.New(transport.Config{
		BaseURL:      cfg.API.BaseURL,
		Timeout:      cfg.API.Timeout,
		SuggestRPS:   cfg.API.SuggestRPS,
		SuggestBurst: cfg.API.SuggestBurst,
	}, log.Logger), nil
}

// ProvideLocation provides the stored location for the configured route.
func ProvideLocation(i do.Injector) (*location.Stored, error) {
	cfg := do.MustInvoke[*config.Config](i)
	db := do.MustInvoke[*StorageHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return location.NewStored(db, querysync.BasePath(routeMode(cfg)), log.Logger), nil
}

// QueryControllerHandle wraps the query controller with shutdown capability.
type QueryControllerHandle struct {
	*querysync.Controller
}

// Shutdown implements do.Shutdownable.
func (h *QueryControllerHandle) Shutdown() error {
	return h.Close()
}

// ProvideQueryController provides the query controller for the configured
// route. It is not started; callers start it once they have applied their own
// changes to the stored query.
func ProvideQueryController(i do.Injector) (*QueryControllerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	client := do.MustInvoke[*transport.Client](i)
	loc := do.MustInvoke[*location.Stored](i)
	log := do.MustInvoke[*logger.Logger](i)
	bus := do.MustInvoke[*events.Bus](i)

	c := querysync.New(client, loc,
		querysync.ForRoute(routeMode(cfg)),
		querysync.WithLogger(log.Logger),
		querysync.WithEmitter(bus),
	)

	// A fresh session starts from the configured page size.
	if loc.CurrentSearch() == "" && cfg.Items.DefaultPageSize != query.DefaultPageSize {
		c.UpdateQuery(query.WithPageSize(cfg.Items.DefaultPageSize))
	}
	return &QueryControllerHandle{Controller: c}, nil
}

// ProvideActions provides the item actions over a fresh ledger.
func ProvideActions(i do.Injector) (*ledger.Actions, error) {
	client := do.MustInvoke[*transport.Client](i)
	log := do.MustInvoke[*logger.Logger](i)
	bus := do.MustInvoke[*events.Bus](i)

	return ledger.NewActions(ledger.New(), client,
		ledger.WithLogger(log.Logger),
		ledger.WithEmitter(bus),
	), nil
}

// Suggestions groups the autocomplete controllers of the three tag filters.
// They share one request-coalescing group.
type Suggestions struct {
	Seller       *suggest.Controller
	Category     *suggest.Controller
	MainCategory *suggest.Controller
}

// For returns the controller of field, or nil.
func (s *Suggestions) For(field filtertags.Field) *suggest.Controller {
	switch field {
	case filtertags.FieldSeller:
		return s.Seller
	case filtertags.FieldCategory:
		return s.Category
	case filtertags.FieldMainCategory:
		return s.MainCategory
	default:
		return nil
	}
}

// Shutdown implements do.Shutdownable by waiting for running lookups.
func (s *Suggestions) Shutdown(_ context.Context) error {
	s.Seller.Wait()
	s.Category.Wait()
	s.MainCategory.Wait()
	return nil
}

// ProvideSuggestions provides the tag filter autocomplete controllers.
func ProvideSuggestions(i do.Injector) (*Suggestions, error) {
	client := do.MustInvoke[*transport.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	group := &singleflight.Group{}
	opts := []suggest.Option{suggest.WithLogger(log.Logger), suggest.WithGroup(group)}

	return &Suggestions{
		Seller:       suggest.New(filtertags.FieldSeller, suggest.SellerFetcher(client), opts...),
		Category:     suggest.New(filtertags.FieldCategory, suggest.CategoryFetcher(client), opts...),
		MainCategory: suggest.New(filtertags.FieldMainCategory, nil, opts...),
	}, nil
}

func routeMode(cfg *config.Config) query.RouteMode {
	if cfg.FavoritesOnly() {
		return query.RouteFavorites
	}
	return query.RouteAll
}
