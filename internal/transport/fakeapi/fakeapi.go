// Package fakeapi is an in-memory implementation of the listings API for
// tests and local demos. It filters, sorts and pages like the real service and
// can inject failures or hold requests per operation.
package fakeapi

import (
	"cmp"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/watchlist/triage/internal/domain"
	domainerrors "github.com/watchlist/triage/internal/errors"
	"github.com/watchlist/triage/internal/http/response"
	"github.com/watchlist/triage/internal/logger"
	"github.com/watchlist/triage/internal/query"
)

// Op names an endpoint for failure injection and hooks.
type Op string

// Operations.
const (
	OpItems               Op = "items"
	OpFavorite            Op = "favorite"
	OpHide                Op = "hide"
	OpNote                Op = "note"
	OpRefresh             Op = "refresh"
	OpSellerSuggestions   Op = "seller_suggestions"
	OpCategorySuggestions Op = "category_suggestions"
)

// Hook runs before an operation is served. It may block to hold the request.
type Hook func(r *http.Request)

// Call records one served request.
type Call struct {
	Op        Op
	ItemID    string
	RawQuery  string
	RequestID string
}

// API is the fake service. The zero value is not usable; call New.
type API struct {
	logger *slog.Logger
	now    func() time.Time

	mu         sync.Mutex
	items      []domain.ItemRow
	categories map[string]string // category -> main category
	failures   map[Op][]int
	hooks      map[Op]Hook
	refreshed  map[string]domain.Listing
	calls      []Call
}

// New creates a fake API seeded with items.
func New(log *slog.Logger, items ...domain.ItemRow) *API {
	return &API{
		logger:     logger.OrDiscard(log),
		now:        time.Now,
		items:      slices.Clone(items),
		categories: make(map[string]string),
		failures:   make(map[Op][]int),
		hooks:      make(map[Op]Hook),
		refreshed:  make(map[string]domain.Listing),
	}
}

// SetClock replaces the clock used for note timestamps and time filters.
func (a *API) SetClock(now func() time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = now
}

// SetMainCategory files category under a main category for suggestion
// narrowing.
func (a *API) SetMainCategory(category, mainCategory string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.categories[category] = mainCategory
}

// Fail makes the next call of op answer with status. Calls queue up.
func (a *API) Fail(op Op, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[op] = append(a.failures[op], status)
}

// Hook installs h for op, replacing any previous hook. A nil h removes it.
func (a *API) Hook(op Op, h Hook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if h == nil {
		delete(a.hooks, op)
		return
	}
	a.hooks[op] = h
}

// SetRefreshed sets the listing a refresh of itemID will return.
func (a *API) SetRefreshed(itemID string, l domain.Listing) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refreshed[itemID] = l
}

// Item returns the stored row for itemID.
func (a *API) Item(itemID string) (domain.ItemRow, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.index(itemID)
	if i < 0 {
		return domain.ItemRow{}, false
	}
	return a.items[i], true
}

// Calls returns every served request in arrival order.
func (a *API) Calls() []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.calls)
}

// CallCount returns how many requests for op were served.
func (a *API) CallCount(op Op) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Handler returns the API's routes.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/items", a.serve(OpItems, a.handleItems))
		r.Post("/items/{id}/favorite", a.serve(OpFavorite, a.handleFacet(OpFavorite)))
		r.Post("/items/{id}/hide", a.serve(OpHide, a.handleFacet(OpHide)))
		r.Post("/items/{id}/note", a.serve(OpNote, a.handleNote))
		r.Post("/items/{id}/refresh", a.serve(OpRefresh, a.handleRefresh))
		r.Get("/suggestions/sellers", a.serve(OpSellerSuggestions, a.handleSellerSuggestions))
		r.Get("/suggestions/categories", a.serve(OpCategorySuggestions, a.handleCategorySuggestions))
	})
	return r
}

// serve records the call, runs the hook outside the lock, then either
// answers with an injected failure or hands over to next.
func (a *API) serve(op Op, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.calls = append(a.calls, Call{
			Op:        op,
			ItemID:    chi.URLParam(r, "id"),
			RawQuery:  r.URL.RawQuery,
			RequestID: middleware.GetReqID(r.Context()),
		})
		hook := a.hooks[op]
		a.mu.Unlock()

		if hook != nil {
			hook(r)
		}

		a.mu.Lock()
		var status int
		if queued := a.failures[op]; len(queued) > 0 {
			status, a.failures[op] = queued[0], queued[1:]
		}
		a.mu.Unlock()

		if status != 0 {
			response.Error(w, status, "injected failure", a.logger)
			return
		}
		next(w, r)
	}
}

func (a *API) handleItems(w http.ResponseWriter, r *http.Request) {
	s := query.Parse(r.URL.RawQuery)

	a.mu.Lock()
	now := a.now()
	matched := make([]domain.ItemRow, 0, len(a.items))
	for _, it := range a.items {
		if a.matches(it, s, now) {
			matched = append(matched, it)
		}
	}
	a.mu.Unlock()

	sortRows(matched, s.Sort)

	total := len(matched)
	totalPages := (total + s.PageSize - 1) / s.PageSize
	start := min((s.Page-1)*s.PageSize, total)
	end := min(start+s.PageSize, total)

	response.Success(w, domain.ResultSet{
		Items:      matched[start:end],
		Page:       s.Page,
		PageSize:   s.PageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    s.Page < totalPages,
		HasPrev:    s.Page > 1,
		Sort:       string(s.Sort),
	}, a.logger)
}

// matches applies the query filters. Callers hold a.mu.
func (a *API) matches(it domain.ItemRow, s query.State, now time.Time) bool {
	if len(s.Seller) > 0 && !slices.Contains(s.Seller, it.Seller) {
		return false
	}
	if len(s.Category) > 0 && !slices.Contains(s.Category, it.Category) {
		return false
	}
	if len(s.MainCategory) > 0 && !slices.Contains(s.MainCategory, a.categories[it.Category]) {
		return false
	}
	if s.Q != "" && !strings.Contains(strings.ToLower(it.Title), strings.ToLower(s.Q)) {
		return false
	}
	if s.Favorite && !it.Favorite {
		return false
	}
	if !s.ShowHidden && it.Hidden {
		return false
	}
	if !s.ShowEnded {
		if ends, err := time.Parse(time.RFC3339, it.EndsAt); err == nil && !ends.After(now) {
			return false
		}
	}
	if s.Last24h {
		posted, err := time.Parse(time.RFC3339, it.PostedAt)
		if err != nil || now.Sub(posted) > 24*time.Hour {
			return false
		}
	}
	return true
}

func sortRows(rows []domain.ItemRow, sort query.Sort) {
	slices.SortStableFunc(rows, func(a, b domain.ItemRow) int {
		switch sort {
		case query.SortPriceLow:
			return cmp.Compare(a.Price, b.Price)
		case query.SortPriceHigh:
			return cmp.Compare(b.Price, a.Price)
		case query.SortBidsDesc:
			return cmp.Compare(b.Bids, a.Bids)
		case query.SortEndingSoonActive:
			return strings.Compare(a.EndsAt, b.EndsAt)
		default:
			return strings.Compare(b.PostedAt, a.PostedAt)
		}
	})
}

func (a *API) handleFacet(op Op) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Value *bool `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Value == nil {
			response.BadRequest(w, "value is required", a.logger)
			return
		}

		err := a.update(chi.URLParam(r, "id"), func(it *domain.ItemRow) {
			if op == OpHide {
				it.Hidden = *body.Value
			} else {
				it.Favorite = *body.Value
			}
		})
		if err != nil {
			response.HandleError(w, err, a.logger)
			return
		}
		response.Success(w, map[string]bool{"ok": true}, a.logger)
	}
}

func (a *API) handleNote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		NoteText *string `json:"note_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NoteText == nil {
		response.BadRequest(w, "note_text is required", a.logger)
		return
	}

	itemID := chi.URLParam(r, "id")
	var result domain.NoteResult
	err := a.update(itemID, func(it *domain.ItemRow) {
		text := strings.TrimSpace(*body.NoteText)
		if text == "" {
			it.Note = domain.Note{}
		} else {
			now := a.now().UTC()
			created := now
			if it.CreatedAt != nil {
				created = *it.CreatedAt
			}
			it.Note = domain.Note{Text: &text, CreatedAt: &created, ModifiedAt: &now}
		}
		result = domain.NoteResult{ItemID: it.ItemID, Note: it.Note}
	})
	if err != nil {
		response.HandleError(w, err, a.logger)
		return
	}
	response.Success(w, result, a.logger)
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	var fresh domain.ItemRow
	err := a.update(itemID, func(it *domain.ItemRow) {
		if l, ok := a.refreshed[itemID]; ok {
			it.Listing = l
		}
		fresh = *it
	})
	if err != nil {
		response.HandleError(w, err, a.logger)
		return
	}
	response.Success(w, map[string]domain.ItemRow{"item": fresh}, a.logger)
}

func (a *API) handleSellerSuggestions(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	a.mu.Lock()
	var values []string
	for _, it := range a.items {
		if strings.Contains(strings.ToLower(it.Seller), q) && !slices.Contains(values, it.Seller) {
			values = append(values, it.Seller)
		}
	}
	a.mu.Unlock()

	response.Success(w, suggestions(values), a.logger)
}

func (a *API) handleCategorySuggestions(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := strings.ToLower(strings.TrimSpace(params.Get("q")))
	mains := params["main_category"]

	a.mu.Lock()
	var values []string
	for _, it := range a.items {
		c := it.Category
		if !strings.Contains(strings.ToLower(c), q) || slices.Contains(values, c) {
			continue
		}
		if len(mains) > 0 && !slices.Contains(mains, a.categories[c]) {
			continue
		}
		values = append(values, c)
	}
	a.mu.Unlock()

	response.Success(w, suggestions(values), a.logger)
}

func suggestions(values []string) domain.SuggestionsResponse {
	slices.Sort(values)
	out := domain.SuggestionsResponse{Items: make([]domain.Suggestion, len(values))}
	for i, v := range values {
		out.Items[i] = domain.Suggestion{Value: v, Label: v}
	}
	return out
}

func (a *API) update(itemID string, fn func(*domain.ItemRow)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.index(itemID)
	if i < 0 {
		return domainerrors.NotFoundf("item %s not found", itemID)
	}
	fn(&a.items[i])
	return nil
}

func (a *API) index(itemID string) int {
	return slices.IndexFunc(a.items, func(it domain.ItemRow) bool { return it.ItemID == itemID })
}
