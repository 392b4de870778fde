package savedviews

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	domainerrors "github.com/watchlist/triage/internal/errors"
	"github.com/watchlist/triage/internal/logger"
	"github.com/watchlist/triage/internal/query"
	"github.com/watchlist/triage/internal/storage"
	"github.com/watchlist/triage/internal/validation"
)

// Store holds the saved views and watched searches in memory and writes every
// change through to storage.
type Store struct {
	storage storage.Storage
	logger  *slog.Logger

	mu       sync.RWMutex
	views    []SavedView
	searches []WatchedSearch
}

// NewStore loads both collections from s.
func NewStore(s storage.Storage, v *validation.Validator, log *slog.Logger) *Store {
	log = logger.OrDiscard(log)
	if v == nil {
		v = validation.New()
	}
	return &Store{
		storage:  s,
		logger:   log,
		views:    LoadViews(s, v, log),
		searches: LoadSearches(s, v, log),
	}
}

// Views returns the saved views in save order.
func (st *Store) Views() []SavedView {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return slices.Clone(st.views)
}

// View looks up a saved view by id.
func (st *Store) View(id string) (SavedView, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, v := range st.views {
		if v.ID == id {
			return v, nil
		}
	}
	return SavedView{}, domainerrors.NotFoundf("saved view %q not found", id)
}

// SaveView stores the filters of state under name, replacing a view with the
// same derived id in place.
func (st *Store) SaveView(name string, mode query.RouteMode, state query.State) (SavedView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedView{}, domainerrors.Validation("saved view name is required")
	}
	if !mode.Valid() {
		return SavedView{}, domainerrors.Validationf("unknown route mode %q", mode)
	}

	view := SavedView{ID: ViewIDFromName(name), Name: name, RouteMode: mode, Query: FiltersOf(state)}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.views = upsert(st.views, view, func(v SavedView) string { return v.ID })
	SaveViews(st.storage, st.views, st.logger)
	return view, nil
}

// DeleteView removes a saved view.
func (st *Store) DeleteView(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next, ok := remove(st.views, id, func(v SavedView) string { return v.ID })
	if !ok {
		return domainerrors.NotFoundf("saved view %q not found", id)
	}
	st.views = next
	SaveViews(st.storage, st.views, st.logger)
	return nil
}

// Searches returns the watched searches in save order.
func (st *Store) Searches() []WatchedSearch {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return slices.Clone(st.searches)
}

// SaveSearch stores a watched search, replacing one with the same derived id
// in place. A blank maxPrice is stored as null.
func (st *Store) SaveSearch(name, q string, mainCategory, category []string, maxPrice string) (WatchedSearch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return WatchedSearch{}, domainerrors.Validation("watched search name is required")
	}

	search := WatchedSearch{
		ID:           SearchIDFromName(name),
		Name:         name,
		Q:            strings.TrimSpace(q),
		MainCategory: nonNil(mainCategory),
		Category:     nonNil(category),
	}
	if p := strings.TrimSpace(maxPrice); p != "" {
		search.MaxPrice = &p
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.searches = upsert(st.searches, search, func(w WatchedSearch) string { return w.ID })
	SaveSearches(st.storage, st.searches, st.logger)
	return search, nil
}

// DeleteSearch removes a watched search.
func (st *Store) DeleteSearch(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next, ok := remove(st.searches, id, func(w WatchedSearch) string { return w.ID })
	if !ok {
		return domainerrors.NotFoundf("watched search %q not found", id)
	}
	st.searches = next
	SaveSearches(st.storage, st.searches, st.logger)
	return nil
}

func upsert[T any](items []T, item T, id func(T) string) []T {
	out := slices.Clone(items)
	if i := slices.IndexFunc(out, func(v T) bool { return id(v) == id(item) }); i >= 0 {
		out[i] = item
		return out
	}
	return append(out, item)
}

func remove[T any](items []T, target string, id func(T) string) ([]T, bool) {
	i := slices.IndexFunc(items, func(v T) bool { return id(v) == target })
	if i < 0 {
		return items, false
	}
	return slices.Delete(slices.Clone(items), i, i+1), true
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}
