// Package savedviews persists named filter views and watched searches.
package savedviews

import (
	"slices"

	"github.com/watchlist/triage/internal/query"
	"github.com/watchlist/triage/internal/util"
)

// Id prefixes.
const (
	ViewIDPrefix   = "saved-view:"
	SearchIDPrefix = "watched-search:"
)

// ViewIDFromName derives a saved view id from its name.
func ViewIDFromName(name string) string {
	return util.PrefixedSlug(ViewIDPrefix, name, "view")
}

// SearchIDFromName derives a watched search id from its name.
func SearchIDFromName(name string) string {
	return util.PrefixedSlug(SearchIDPrefix, name, "search")
}

// Filters is a query state without its paging fields.
type Filters struct {
	Seller       []string   `json:"seller"`
	Category     []string   `json:"category"`
	MainCategory []string   `json:"main_category"`
	Q            string     `json:"q"`
	Favorite     bool       `json:"favorite"`
	ShowHidden   bool       `json:"show_hidden"`
	ShowEnded    bool       `json:"show_ended"`
	Last24h      bool       `json:"last_24h"`
	Sort         query.Sort `json:"sort"`
	View         query.View `json:"view"`
}

// FiltersOf strips paging from s.
func FiltersOf(s query.State) Filters {
	s = s.Normalize()
	return Filters{
		Seller:       s.Seller,
		Category:     s.Category,
		MainCategory: s.MainCategory,
		Q:            s.Q,
		Favorite:     s.Favorite,
		ShowHidden:   s.ShowHidden,
		ShowEnded:    s.ShowEnded,
		Last24h:      s.Last24h,
		Sort:         s.Sort,
		View:         s.View,
	}
}

// Patch restores the filters onto a state and returns to the first page. The
// page size is left alone.
func (f Filters) Patch() query.Patch {
	return func(s *query.State) {
		s.Seller = slices.Clone(f.Seller)
		s.Category = slices.Clone(f.Category)
		s.MainCategory = slices.Clone(f.MainCategory)
		s.Q = f.Q
		s.Favorite = f.Favorite
		s.ShowHidden = f.ShowHidden
		s.ShowEnded = f.ShowEnded
		s.Last24h = f.Last24h
		s.Sort = f.Sort
		s.View = f.View
		s.Page = query.DefaultPage
	}
}

// SavedView is a named filter set bound to a route.
type SavedView struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	RouteMode query.RouteMode `json:"route_mode"`
	Query     Filters         `json:"query"`
}

// Apply returns the patch that restores the view's filters.
func (v SavedView) Apply() query.Patch {
	return v.Query.Patch()
}

// WatchedSearch is a named search with an optional price ceiling.
type WatchedSearch struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Q            string   `json:"q"`
	MainCategory []string `json:"main_category"`
	Category     []string `json:"category"`
	MaxPrice     *string  `json:"max_price"`
}

// Apply returns the patch that runs the search: its text and categories
// replace the current ones and paging resets. Other filters are kept.
func (w WatchedSearch) Apply() query.Patch {
	return query.Chain(
		query.WithQ(w.Q),
		query.WithMainCategories(w.MainCategory...),
		query.WithCategories(w.Category...),
		query.ResetPage(),
	)
}
