package ledger

import "github.com/watchlist/triage/internal/domain"

// Kind names an action kind. In-flight state is tracked per kind per item.
type Kind string

// Action kinds.
const (
	KindFavorite Kind = "favorite"
	KindHidden   Kind = "hidden"
	KindNote     Kind = "note"
	KindRefresh  Kind = "refresh"
)

// Mutation is a value for exactly one facet of an item. The concrete types are
// FavoritePatch, HiddenPatch, NotePatch and RefreshPatch.
type Mutation interface {
	Kind() Kind
	isMutation()
}

// FavoritePatch sets the favorite flag.
type FavoritePatch struct{ Value bool }

// HiddenPatch sets the hidden flag.
type HiddenPatch struct{ Value bool }

// NotePatch sets the whole note, timestamps included.
type NotePatch struct{ Note domain.Note }

// RefreshPatch replaces the read-only display fields.
type RefreshPatch struct{ Listing domain.Listing }

func (FavoritePatch) Kind() Kind { return KindFavorite }
func (HiddenPatch) Kind() Kind   { return KindHidden }
func (NotePatch) Kind() Kind     { return KindNote }
func (RefreshPatch) Kind() Kind  { return KindRefresh }

func (FavoritePatch) isMutation() {}
func (HiddenPatch) isMutation()   {}
func (NotePatch) isMutation()     {}
func (RefreshPatch) isMutation()  {}

// Patch is the sparse overlay for one item. A nil field has no opinion; it
// never means "clear".
type Patch struct {
	Favorite *bool
	Hidden   *bool
	Note     *domain.Note
	Listing  *domain.Listing
}

// Empty reports whether the patch holds no facet at all.
func (p Patch) Empty() bool {
	return p.Favorite == nil && p.Hidden == nil && p.Note == nil && p.Listing == nil
}

// With returns p with m's facet replaced. It is the only place mutations are
// folded into a patch.
func (p Patch) With(m Mutation) Patch {
	switch m := m.(type) {
	case FavoritePatch:
		v := m.Value
		p.Favorite = &v
	case HiddenPatch:
		v := m.Value
		p.Hidden = &v
	case NotePatch:
		n := cloneNote(m.Note)
		p.Note = &n
	case RefreshPatch:
		l := m.Listing
		p.Listing = &l
	}
	return p
}

// Current returns the value of kind's facet as seen through p over row: the
// patch's value when present, otherwise the row's.
func (p Patch) Current(row domain.ItemRow, kind Kind) Mutation {
	switch kind {
	case KindFavorite:
		if p.Favorite != nil {
			return FavoritePatch{Value: *p.Favorite}
		}
		return FavoritePatch{Value: row.Favorite}
	case KindHidden:
		if p.Hidden != nil {
			return HiddenPatch{Value: *p.Hidden}
		}
		return HiddenPatch{Value: row.Hidden}
	case KindNote:
		if p.Note != nil {
			return NotePatch{Note: cloneNote(*p.Note)}
		}
		return NotePatch{Note: cloneNote(row.Note)}
	case KindRefresh:
		if p.Listing != nil {
			return RefreshPatch{Listing: *p.Listing}
		}
		return RefreshPatch{Listing: row.Listing}
	default:
		return nil
	}
}

// Apply returns a copy of row with every present facet of p merged over it.
func (p Patch) Apply(row domain.ItemRow) domain.ItemRow {
	out := row
	if p.Listing != nil {
		out.Listing = *p.Listing
	}
	if p.Favorite != nil {
		out.Favorite = *p.Favorite
	}
	if p.Hidden != nil {
		out.Hidden = *p.Hidden
	}
	if p.Note != nil {
		out.Note = cloneNote(*p.Note)
	}
	return out
}

func (p Patch) clone() Patch {
	out := Patch{}
	if p.Favorite != nil {
		out = out.With(FavoritePatch{Value: *p.Favorite})
	}
	if p.Hidden != nil {
		out = out.With(HiddenPatch{Value: *p.Hidden})
	}
	if p.Note != nil {
		out = out.With(NotePatch{Note: *p.Note})
	}
	if p.Listing != nil {
		out = out.With(RefreshPatch{Listing: *p.Listing})
	}
	return out
}

func cloneNote(n domain.Note) domain.Note {
	out := domain.Note{}
	if n.Text != nil {
		t := *n.Text
		out.Text = &t
	}
	if n.CreatedAt != nil {
		t := *n.CreatedAt
		out.CreatedAt = &t
	}
	if n.ModifiedAt != nil {
		t := *n.ModifiedAt
		out.ModifiedAt = &t
	}
	return out
}
