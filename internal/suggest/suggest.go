// Package suggest drives the autocomplete list of one tag filter input.
//
// Fetches start only once the trimmed input reaches MinChars. Responses for
// anything but the latest input are discarded, and identical in-flight
// lookups share one request.
package suggest

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/watchlist/triage/internal/domain"
	"github.com/watchlist/triage/internal/filtertags"
	"github.com/watchlist/triage/internal/logger"
	"github.com/watchlist/triage/internal/query"
)

// MinChars is the shortest trimmed input that triggers a fetch.
const MinChars = 2

// Fetcher loads suggestions for q. scope carries the main categories that
// narrow category lookups; seller lookups ignore it.
type Fetcher func(ctx context.Context, q string, scope []string) ([]domain.Suggestion, error)

// Source is the part of the transport the fetchers need.
type Source interface {
	SellerSuggestions(ctx context.Context, q string) ([]domain.Suggestion, error)
	CategorySuggestions(ctx context.Context, q string, mainCategories []string) ([]domain.Suggestion, error)
}

// SellerFetcher fetches seller suggestions from src.
func SellerFetcher(src Source) Fetcher {
	return func(ctx context.Context, q string, _ []string) ([]domain.Suggestion, error) {
		return src.SellerSuggestions(ctx, q)
	}
}

// CategoryFetcher fetches category suggestions from src.
func CategoryFetcher(src Source) Fetcher {
	return func(ctx context.Context, q string, scope []string) ([]domain.Suggestion, error) {
		return src.CategorySuggestions(ctx, q, scope)
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger.OrDiscard(log) }
}

// WithGroup shares request coalescing with other controllers.
func WithGroup(g *singleflight.Group) Option {
	return func(c *Controller) { c.group = g }
}

// Controller holds the input text and suggestion list of one field.
type Controller struct {
	field  filtertags.Field
	fetch  Fetcher
	group  *singleflight.Group
	logger *slog.Logger

	mu          sync.Mutex
	input       string
	scope       []string
	suggestions []domain.Suggestion
	generation  uint64
	inflight    sync.WaitGroup
}

// New creates a controller for field. A nil fetch serves the fixed main
// category options locally instead.
func New(field filtertags.Field, fetch Fetcher, opts ...Option) *Controller {
	c := &Controller{
		field:       field,
		fetch:       fetch,
		group:       &singleflight.Group{},
		logger:      logger.Discard(),
		suggestions: []domain.Suggestion{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if fetch == nil {
		c.suggestions = staticSuggestions("")
	}
	return c
}

// Field returns the filter field this controller feeds.
func (c *Controller) Field() filtertags.Field { return c.field }

// Input returns the current input text.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Suggestions returns the current suggestion list.
func (c *Controller) Suggestions() []domain.Suggestion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.suggestions)
}

// SetInput records new input text and refreshes the suggestions for it.
func (c *Controller) SetInput(ctx context.Context, input string) {
	c.mu.Lock()
	c.input = input
	c.refreshLocked(ctx)
	c.mu.Unlock()
}

// SetScope changes the main categories narrowing category lookups and
// refreshes the suggestions for the current input.
func (c *Controller) SetScope(ctx context.Context, scope []string) {
	c.mu.Lock()
	c.scope = slices.Clone(scope)
	c.refreshLocked(ctx)
	c.mu.Unlock()
}

// Wait blocks until no lookup is in flight.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Commit is the blur handler: when the input equals one of the current
// suggestions (ignoring case) it returns the patch adding that suggestion as a
// tag and clears the input. Otherwise it returns nil and changes nothing.
func (c *Controller) Commit() query.Patch {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, ok := filtertags.MatchAgainstOptions(c.input, domain.Values(c.suggestions))
	if !ok {
		return nil
	}
	c.resetLocked()
	return filtertags.AddTag(c.field, match)
}

// Submit is the Enter handler: any non-blank input becomes a tag and the input
// is cleared.
func (c *Controller) Submit() query.Patch {
	c.mu.Lock()
	defer c.mu.Unlock()

	patch := filtertags.AddTag(c.field, c.input)
	c.resetLocked()
	return patch
}

func (c *Controller) resetLocked() {
	c.input = ""
	c.generation++
	if c.fetch == nil {
		c.suggestions = staticSuggestions("")
	} else {
		c.suggestions = []domain.Suggestion{}
	}
}

// refreshLocked starts a lookup for the current input. Callers hold c.mu.
func (c *Controller) refreshLocked(ctx context.Context) {
	c.generation++
	gen := c.generation

	if c.fetch == nil {
		c.suggestions = staticSuggestions(c.input)
		return
	}

	q := c.input
	if utf8.RuneCountInString(strings.TrimSpace(q)) < MinChars {
		c.suggestions = []domain.Suggestion{}
		return
	}

	scope := slices.Clone(c.scope)
	key := string(c.field) + "\x00" + q + "\x00" + strings.Join(scope, "\x00")
	// A shared call must not fail because one of its callers went away.
	fetchCtx := context.WithoutCancel(ctx)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		v, err, shared := c.group.Do(key, func() (any, error) {
			return c.fetch(fetchCtx, q, scope)
		})

		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation {
			c.logger.Debug("discarding stale suggestions", "field", c.field, "q", q)
			return
		}
		if err != nil {
			c.logger.Debug("suggestion lookup failed", "field", c.field, "q", q, "error", err)
			c.suggestions = []domain.Suggestion{}
			return
		}
		c.suggestions = slices.Clone(v.([]domain.Suggestion))
		c.logger.Debug("suggestions loaded",
			"field", c.field,
			"q", q,
			"count", len(c.suggestions),
			"shared", shared,
		)
	}()
}

func staticSuggestions(input string) []domain.Suggestion {
	var options []string
	if strings.TrimSpace(input) == "" {
		options = filtertags.MainCategoryOptions
	} else {
		options = filtertags.FilterOptions(filtertags.MainCategoryOptions, input)
	}
	out := make([]domain.Suggestion, len(options))
	for i, o := range options {
		out[i] = domain.Suggestion{Value: o, Label: o}
	}
	return out
}
