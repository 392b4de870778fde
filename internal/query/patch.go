package query

import "slices"

// Patch edits a state in place. Patches are applied to a private copy of the
// previous state, so a patch may read the previous values it is replacing.
// Multi-value patches replace the whole list.
type Patch func(*State)

// Apply returns the normalized result of applying patches to a copy of prev.
func Apply(prev State, patches ...Patch) State {
	next := prev.Clone()
	for _, p := range patches {
		if p != nil {
			p(&next)
		}
	}
	return next.Normalize()
}

// WithSellers replaces the seller filter.
func WithSellers(values ...string) Patch {
	return func(s *State) { s.Seller = slices.Clone(values) }
}

// WithCategories replaces the category filter.
func WithCategories(values ...string) Patch {
	return func(s *State) { s.Category = slices.Clone(values) }
}

// WithMainCategories replaces the main category filter.
func WithMainCategories(values ...string) Patch {
	return func(s *State) { s.MainCategory = slices.Clone(values) }
}

// WithQ sets the free-text search.
func WithQ(q string) Patch {
	return func(s *State) { s.Q = q }
}

// WithFavorite sets the favorites-only flag.
func WithFavorite(v bool) Patch {
	return func(s *State) { s.Favorite = v }
}

// WithShowHidden sets the show-hidden flag.
func WithShowHidden(v bool) Patch {
	return func(s *State) { s.ShowHidden = v }
}

// WithShowEnded sets the show-ended flag.
func WithShowEnded(v bool) Patch {
	return func(s *State) { s.ShowEnded = v }
}

// WithLast24h sets the posted-in-last-24h flag.
func WithLast24h(v bool) Patch {
	return func(s *State) { s.Last24h = v }
}

// WithSort sets the sort.
func WithSort(v Sort) Patch {
	return func(s *State) { s.Sort = v }
}

// WithView sets the view.
func WithView(v View) Patch {
	return func(s *State) { s.View = v }
}

// WithPage sets the page number.
func WithPage(n int) Patch {
	return func(s *State) { s.Page = n }
}

// WithPageSize sets the page size.
func WithPageSize(n int) Patch {
	return func(s *State) { s.PageSize = n }
}

// ResetPage returns to the first page. Every filter change is paired with it.
func ResetPage() Patch {
	return WithPage(DefaultPage)
}

// ChangeSort sets the sort and returns to the first page.
func ChangeSort(v Sort) Patch {
	return func(s *State) {
		s.Sort = v
		s.Page = DefaultPage
	}
}

// ChangeView sets the view (downgraded for phones) and returns to the first page.
func ChangeView(v View, phone bool) Patch {
	return func(s *State) {
		s.View = ViewForViewport(v, phone)
		s.Page = DefaultPage
	}
}

// NextPage moves forward one page.
func NextPage() Patch {
	return func(s *State) { s.Page++ }
}

// PrevPage moves back one page, stopping at the first.
func PrevPage() Patch {
	return func(s *State) {
		if s.Page > DefaultPage {
			s.Page--
		}
	}
}

// Forced returns the patch a route pins on every state: the favorites screen
// always filters on favorite=true. It is nil for the all-items screen.
func Forced(mode RouteMode) Patch {
	if mode == RouteFavorites {
		return WithFavorite(true)
	}
	return nil
}

// Chain combines patches into one.
func Chain(patches ...Patch) Patch {
	return func(s *State) {
		for _, p := range patches {
			if p != nil {
				p(s)
			}
		}
	}
}
