// Package querysync keeps the items query state, the address bar and the
// fetched result page in step.
//
// Every state change replaces the location with the serialized query and,
// when the serialized query differs from the last fetched one, starts a
// fetch. Only the most recently started fetch may write the result, loading
// flag or error; older fetches are cancelled and their outcome is discarded.
package querysync

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/watchlist/triage/internal/domain"
	"github.com/watchlist/triage/internal/events"
	"github.com/watchlist/triage/internal/location"
	"github.com/watchlist/triage/internal/logger"
	"github.com/watchlist/triage/internal/query"
)

// MsgLoadFailed is shown when a failed fetch carries no message of its own.
const MsgLoadFailed = "Failed to load items"

// errNoResult stands in for a fetcher that returned neither a page nor an error.
var errNoResult = errors.New(MsgLoadFailed)

// Fetcher loads one result page for a serialized query string.
type Fetcher interface {
	FetchResults(ctx context.Context, search string) (*domain.ResultSet, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithForcedFacet pins part of the state. The patch is re-applied after every
// update and reset so callers cannot clear it.
func WithForcedFacet(p query.Patch) Option {
	return func(c *Controller) { c.forced = p }
}

// ForRoute configures the forced facet and base path of a route.
func ForRoute(mode query.RouteMode) Option {
	return func(c *Controller) {
		c.forced = query.Forced(mode)
		c.basePath = BasePath(mode)
	}
}

// WithBasePath sets the path the query string is written under.
func WithBasePath(path string) Option {
	return func(c *Controller) { c.basePath = path }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger.OrDiscard(log) }
}

// WithEmitter sets the event sink.
func WithEmitter(e events.Emitter) Option {
	return func(c *Controller) { c.emitter = events.OrNoop(e) }
}

// BasePath returns the location path of a route.
func BasePath(mode query.RouteMode) string {
	if mode == query.RouteFavorites {
		return "/favorites"
	}
	return "/"
}

// Snapshot is a consistent read of the controller.
type Snapshot struct {
	State   query.State
	Result  *domain.ResultSet
	Loading bool
	Error   string
}

// Controller owns one view's query state. Views must not share a controller.
type Controller struct {
	fetcher  Fetcher
	loc      location.Location
	basePath string
	forced   query.Patch
	logger   *slog.Logger
	emitter  events.Emitter

	mu         sync.Mutex
	ctx        context.Context
	started    bool
	closed     bool
	state      query.State
	result     *domain.ResultSet
	loading    bool
	errMsg     string
	fetchKey   string
	generation uint64
	cancel     context.CancelFunc
	inflight   sync.WaitGroup
}

// New creates a controller reading and writing loc and fetching through f.
// The state is read from loc immediately; updates made before Start change
// the state and the location without fetching.
func New(f Fetcher, loc location.Location, opts ...Option) *Controller {
	c := &Controller{
		fetcher:  f,
		loc:      loc,
		basePath: "/",
		logger:   logger.Discard(),
		emitter:  events.NoopEmitter{},
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = query.Apply(query.Parse(loc.CurrentSearch()), c.forced)
	return c
}

// Start writes the current state to the location and loads its first page.
// The state is the one read by New plus any updates made since, so those
// updates survive a location that failed to keep them. ctx bounds every
// fetch the controller starts; Start itself does not block.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.started = true
	pending := c.commitLocked(c.state, true)
	c.mu.Unlock()

	c.emitAll(pending)
}

// UpdateQuery applies patches to the current state. A patch that leaves the
// state unchanged writes nothing and fetches nothing.
func (c *Controller) UpdateQuery(patches ...query.Patch) {
	c.mu.Lock()
	next := query.Apply(c.state, append(slices.Clip(patches), c.forced)...)
	pending := c.commitLocked(next, false)
	c.mu.Unlock()

	c.emitAll(pending)
}

// ResetQuery returns to the default state, forced facet included.
func (c *Controller) ResetQuery() {
	c.UpdateQuery(func(s *query.State) { *s = query.Default() })
}

// Reload fetches the current state again even though it has not changed.
func (c *Controller) Reload() {
	c.mu.Lock()
	pending := c.fetchLocked()
	c.mu.Unlock()

	c.emitAll(pending)
}

// State returns a copy of the current state.
func (c *Controller) State() query.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Snapshot returns the state together with the latest fetch outcome.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:   c.state.Clone(),
		Result:  c.result,
		Loading: c.loading,
		Error:   c.errMsg,
	}
}

// Href returns the address the current state is written under.
func (c *Controller) Href() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return location.Href(c.basePath, query.Serialize(c.state))
}

// Wait blocks until no fetch is running.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Close cancels the running fetch and waits for it. Later updates still
// change the state but start no fetches.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closed = true
	c.generation++
	c.loading = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.inflight.Wait()
	return nil
}

// commitLocked installs next, mirrors it into the location and fetches when
// the fetch key moved. It returns the events to emit once c.mu is released.
func (c *Controller) commitLocked(next query.State, initial bool) []events.Event {
	if !initial && next.Equal(c.state) {
		return nil
	}
	c.state = next
	search := query.Serialize(next)
	c.loc.Replace(c.basePath, search)

	pending := []events.Event{events.New(events.EventQueryChanged, "", search)}
	if !c.started {
		return pending
	}
	if initial || search != c.fetchKey {
		pending = append(pending, c.fetchLocked()...)
	}
	return pending
}

func (c *Controller) fetchLocked() []events.Event {
	if c.closed || !c.started {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	gen := c.generation
	key := query.Serialize(c.state)
	c.fetchKey = key

	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	c.loading = true
	c.errMsg = ""

	c.inflight.Add(1)
	go c.run(ctx, cancel, gen, key)

	return []events.Event{events.New(events.EventResultsLoading, "", key)}
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, gen uint64, key string) {
	defer c.inflight.Done()
	defer cancel()

	rs, err := c.fetcher.FetchResults(ctx, key)
	if err == nil && rs == nil {
		err = errNoResult
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("discarding stale results", "query", key)
		return
	}
	c.loading = false
	c.cancel = nil

	var ev events.Event
	if err != nil {
		c.result = nil
		c.errMsg = errorMessage(err)
		ev = events.New(events.EventResultsFailed, "", c.errMsg)
		c.logger.Warn("failed to load items", "query", key, "error", err)
	} else {
		c.result = rs
		ev = events.New(events.EventResultsLoaded, "", key)
		c.logger.Debug("items loaded", "query", key, "count", len(rs.Items), "total", rs.Total)
	}
	c.mu.Unlock()

	c.emitter.Emit(ev)
}

func (c *Controller) emitAll(pending []events.Event) {
	for _, ev := range pending {
		c.emitter.Emit(ev)
	}
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgLoadFailed
}
