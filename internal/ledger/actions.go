package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/watchlist/triage/internal/domain"
	"github.com/watchlist/triage/internal/events"
	"github.com/watchlist/triage/internal/logger"
	"github.com/watchlist/triage/internal/transport"
)

// Action error messages shown to the user.
const (
	MsgFavoriteFailed = "Could not update favorite state. Please retry."
	MsgHiddenFailed   = "Could not update hidden state. Please retry."
	MsgNoteFailed     = "Could not update note. Please retry."
	MsgRefreshFailed  = "Could not refresh item data. Please retry."
)

// errEmptyResponse is returned when the API answers without an error or a body.
var errEmptyResponse = errors.New("empty response")

// Mutator is the part of the transport the actions call.
type Mutator interface {
	MutateFacet(ctx context.Context, itemID string, facet transport.Facet, value bool) error
	MutateNote(ctx context.Context, itemID, text string) (*domain.NoteResult, error)
	RefreshItem(ctx context.Context, itemID string) (*domain.ItemRow, error)
}

// Option configures Actions.
type Option func(*Actions)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *Actions) { a.logger = logger.OrDiscard(log) }
}

// WithEmitter sets the event sink.
func WithEmitter(e events.Emitter) Option {
	return func(a *Actions) { a.emitter = events.OrNoop(e) }
}

// WithClock replaces the clock used for optimistic note timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Actions) { a.now = now }
}

type inflightKey struct {
	kind   Kind
	itemID string
}

// Actions runs the per-item user actions against a Ledger. Actions on
// different items, and on different facets of one item, never wait for each
// other. Two actions on the same facet of the same item are not serialized:
// whichever response arrives last decides the facet.
type Actions struct {
	ledger  *Ledger
	mutator Mutator
	logger  *slog.Logger
	emitter events.Emitter
	now     func() time.Time

	mu          sync.Mutex
	inflight    map[inflightKey]int
	actionError string
}

// NewActions creates the action runner.
func NewActions(l *Ledger, m Mutator, opts ...Option) *Actions {
	a := &Actions{
		ledger:   l,
		mutator:  m,
		logger:   logger.Discard(),
		emitter:  events.NoopEmitter{},
		now:      time.Now,
		inflight: make(map[inflightKey]int),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ledger returns the ledger the actions write to.
func (a *Actions) Ledger() *Ledger { return a.ledger }

// ToggleFavorite flips the favorite flag of the displayed row.
func (a *Actions) ToggleFavorite(ctx context.Context, row domain.ItemRow) error {
	return a.toggle(ctx, row, FavoritePatch{Value: !row.Favorite}, transport.FacetFavorite, !row.Favorite, MsgFavoriteFailed)
}

// ToggleHidden flips the hidden flag of the displayed row.
func (a *Actions) ToggleHidden(ctx context.Context, row domain.ItemRow) error {
	return a.toggle(ctx, row, HiddenPatch{Value: !row.Hidden}, transport.FacetHidden, !row.Hidden, MsgHiddenFailed)
}

func (a *Actions) toggle(ctx context.Context, row domain.ItemRow, m Mutation, facet transport.Facet, value bool, failMsg string) error {
	a.ClearActionError()
	previous := a.ledger.ApplyOptimistic(row, m)
	a.patched(row.ItemID, m)

	done := a.begin(m.Kind(), row.ItemID)
	err := a.mutator.MutateFacet(ctx, row.ItemID, facet, value)
	done()

	if err != nil {
		a.rollback(row.ItemID, previous, failMsg, err)
		return err
	}
	a.ledger.Commit(row.ItemID, m)
	return nil
}

// UpdateNote saves text as the row's note. The text is trimmed; blank text
// clears the note and both timestamps. The optimistic note keeps the existing
// creation time or starts it now; the API's timestamps replace both on
// success.
func (a *Actions) UpdateNote(ctx context.Context, row domain.ItemRow, text string) error {
	a.ClearActionError()
	text = strings.TrimSpace(text)

	optimistic := NotePatch{}
	if text != "" {
		now := a.now().UTC()
		created := now
		if row.CreatedAt != nil {
			created = *row.CreatedAt
		}
		optimistic.Note = domain.Note{Text: &text, CreatedAt: &created, ModifiedAt: &now}
	}
	previous := a.ledger.ApplyOptimistic(row, optimistic)
	a.patched(row.ItemID, optimistic)

	done := a.begin(KindNote, row.ItemID)
	result, err := a.mutator.MutateNote(ctx, row.ItemID, text)
	done()
	if err == nil && result == nil {
		err = errEmptyResponse
	}

	if err != nil {
		a.rollback(row.ItemID, previous, MsgNoteFailed, err)
		return err
	}
	committed := NotePatch{Note: result.Note}
	a.ledger.Commit(row.ItemID, committed)
	a.patched(row.ItemID, committed)
	return nil
}

// Refresh re-fetches the item and overlays its fresh display fields. Nothing
// is applied optimistically and the favorite, hidden and note facets are left
// alone.
func (a *Actions) Refresh(ctx context.Context, itemID string) error {
	a.ClearActionError()

	done := a.begin(KindRefresh, itemID)
	fresh, err := a.mutator.RefreshItem(ctx, itemID)
	done()
	if err == nil && fresh == nil {
		err = errEmptyResponse
	}

	if err != nil {
		a.fail(itemID, MsgRefreshFailed, err)
		return err
	}
	m := RefreshPatch{Listing: fresh.Listing}
	a.ledger.Commit(itemID, m)
	a.patched(itemID, m)
	return nil
}

// InFlight reports whether an action of kind is running for itemID.
func (a *Actions) InFlight(kind Kind, itemID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inflight[inflightKey{kind, itemID}] > 0
}

// IsRefreshing reports whether itemID is being refreshed.
func (a *Actions) IsRefreshing(itemID string) bool {
	return a.InFlight(KindRefresh, itemID)
}

// ActionError returns the last action failure message, or "".
func (a *Actions) ActionError() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.actionError
}

// ClearActionError dismisses the action failure message.
func (a *Actions) ClearActionError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actionError = ""
}

func (a *Actions) begin(kind Kind, itemID string) (done func()) {
	key := inflightKey{kind, itemID}
	a.mu.Lock()
	a.inflight[key]++
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.inflight[key]--; a.inflight[key] <= 0 {
			delete(a.inflight, key)
		}
	}
}

func (a *Actions) rollback(itemID string, previous Mutation, msg string, err error) {
	a.ledger.Rollback(itemID, previous)
	a.patched(itemID, previous)
	a.fail(itemID, msg, err)
}

func (a *Actions) fail(itemID, msg string, err error) {
	a.mu.Lock()
	a.actionError = msg
	a.mu.Unlock()

	a.logger.Warn("item action failed",
		"item_id", itemID,
		"message", msg,
		"error", err,
	)
	a.emitter.Emit(events.New(events.EventActionFailed, itemID, msg))
}

func (a *Actions) patched(itemID string, m Mutation) {
	a.emitter.Emit(events.New(events.EventItemPatched, itemID, m.Kind()))
}
