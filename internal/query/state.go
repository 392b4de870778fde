// Package query defines the items filter/sort/paging state and its
// canonical query-string form.
package query

import "slices"

// Sort is the result ordering.
type Sort string

// Sort values.
const (
	SortNewest           Sort = "newest"
	SortEndingSoonActive Sort = "ending_soon_active"
	SortPriceLow         Sort = "price_low"
	SortPriceHigh        Sort = "price_high"
	SortBidsDesc         Sort = "bids_desc"
)

// Sorts lists every sort in display order.
var Sorts = []Sort{SortNewest, SortEndingSoonActive, SortPriceLow, SortPriceHigh, SortBidsDesc}

// Valid reports whether s is a known sort.
func (s Sort) Valid() bool { return slices.Contains(Sorts, s) }

// View is the result layout.
type View string

// View values.
const (
	ViewTable  View = "table"
	ViewHybrid View = "hybrid"
	ViewCards  View = "cards"
)

// Views lists every view in display order.
var Views = []View{ViewTable, ViewHybrid, ViewCards}

// Valid reports whether v is a known view.
func (v View) Valid() bool { return slices.Contains(Views, v) }

// ViewForViewport returns the view to render. Phone viewports have no room for
// the hybrid layout and fall back to cards.
func ViewForViewport(v View, phone bool) View {
	if phone && v == ViewHybrid {
		return ViewCards
	}
	return v
}

// RouteMode distinguishes the all-items screen from the favorites screen.
type RouteMode string

// Route modes.
const (
	RouteAll       RouteMode = "all"
	RouteFavorites RouteMode = "favorites"
)

// Valid reports whether m is a known route mode.
func (m RouteMode) Valid() bool { return m == RouteAll || m == RouteFavorites }

// Defaults for fields whose zero value is not the default.
const (
	DefaultSort     = SortNewest
	DefaultView     = ViewTable
	DefaultPage     = 1
	DefaultPageSize = 100
)

// State is the canonical filter/sort/paging state of the items screen.
// Multi-value fields preserve insertion order and never hold duplicates.
type State struct {
	Seller       []string `json:"seller"`
	Category     []string `json:"category"`
	MainCategory []string `json:"main_category"`
	Q            string   `json:"q"`
	Favorite     bool     `json:"favorite"`
	ShowHidden   bool     `json:"show_hidden"`
	ShowEnded    bool     `json:"show_ended"`
	Last24h      bool     `json:"last_24h"`
	Sort         Sort     `json:"sort"`
	View         View     `json:"view"`
	Page         int      `json:"page"`
	PageSize     int      `json:"page_size"`
}

// Default returns the compiled default state.
func Default() State {
	return State{
		Seller:       []string{},
		Category:     []string{},
		MainCategory: []string{},
		Sort:         DefaultSort,
		View:         DefaultView,
		Page:         DefaultPage,
		PageSize:     DefaultPageSize,
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Seller = cloneValues(s.Seller)
	out.Category = cloneValues(s.Category)
	out.MainCategory = cloneValues(s.MainCategory)
	return out
}

// Normalize returns s with every field forced into its domain: duplicate and
// empty multi-values dropped, unknown sort/view replaced by the defaults, and
// non-positive paging replaced by the defaults.
func (s State) Normalize() State {
	out := s
	out.Seller = uniqueValues(s.Seller)
	out.Category = uniqueValues(s.Category)
	out.MainCategory = uniqueValues(s.MainCategory)
	if !out.Sort.Valid() {
		out.Sort = DefaultSort
	}
	if !out.View.Valid() {
		out.View = DefaultView
	}
	if out.Page < 1 {
		out.Page = DefaultPage
	}
	if out.PageSize < 1 {
		out.PageSize = DefaultPageSize
	}
	return out
}

// Equal reports whether two states are field-for-field identical.
func (s State) Equal(o State) bool {
	return slices.Equal(s.Seller, o.Seller) &&
		slices.Equal(s.Category, o.Category) &&
		slices.Equal(s.MainCategory, o.MainCategory) &&
		s.Q == o.Q &&
		s.Favorite == o.Favorite &&
		s.ShowHidden == o.ShowHidden &&
		s.ShowEnded == o.ShowEnded &&
		s.Last24h == o.Last24h &&
		s.Sort == o.Sort &&
		s.View == o.View &&
		s.Page == o.Page &&
		s.PageSize == o.PageSize
}

// IsDefault reports whether s serializes to the empty query string.
func (s State) IsDefault() bool {
	return s.Normalize().Equal(Default())
}

func cloneValues(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}

func uniqueValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
