// Package filtertags implements the set-like operations behind the seller,
// category and main category tag filters.
package filtertags

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/watchlist/triage/internal/query"
)

// MainCategoryOptions is the fixed option list for the main category field.
var MainCategoryOptions = []string{"Musical Instruments", "Computers", "Videogames"}

// MergeUnique appends candidate unless values already holds it (exact,
// case-sensitive). values is never modified.
func MergeUnique(values []string, candidate string) []string {
	out := slices.Clone(values)
	if slices.Contains(out, candidate) {
		return out
	}
	return append(out, candidate)
}

// Remove drops every exact match of candidate. values is never modified.
func Remove(values []string, candidate string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != candidate {
			out = append(out, v)
		}
	}
	return out
}

// MatchAgainstOptions returns the option equal to rawInput ignoring case,
// surrounding whitespace and Unicode composition. Prefixes and substrings never
// match. ok is false when there is no such option.
func MatchAgainstOptions(rawInput string, options []string) (option string, ok bool) {
	needle := fold(rawInput)
	if needle == "" {
		return "", false
	}
	for _, o := range options {
		if strings.EqualFold(fold(o), needle) {
			return o, true
		}
	}
	return "", false
}

// FilterOptions returns the options containing input, ignoring case. It only
// feeds the suggestion list; it never decides a commit.
func FilterOptions(options []string, input string) []string {
	needle := strings.ToLower(fold(input))
	out := make([]string, 0, len(options))
	for _, o := range options {
		if strings.Contains(strings.ToLower(fold(o)), needle) {
			out = append(out, o)
		}
	}
	return out
}

func fold(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Field names a multi-value filter.
type Field string

// Tag filter fields.
const (
	FieldSeller       Field = "seller"
	FieldCategory     Field = "category"
	FieldMainCategory Field = "main_category"
)

// Valid reports whether f is a tag filter field.
func (f Field) Valid() bool {
	return f == FieldSeller || f == FieldCategory || f == FieldMainCategory
}

func (f Field) slot(s *query.State) *[]string {
	switch f {
	case FieldSeller:
		return &s.Seller
	case FieldCategory:
		return &s.Category
	case FieldMainCategory:
		return &s.MainCategory
	default:
		return nil
	}
}

// Values returns the field's current tags.
func (f Field) Values(s query.State) []string {
	slot := f.slot(&s)
	if slot == nil {
		return nil
	}
	return slices.Clone(*slot)
}

// AddTag returns a patch merging the trimmed value into field and returning to
// the first page. Empty values and unknown fields yield nil.
func AddTag(field Field, value string) query.Patch {
	value = strings.TrimSpace(value)
	if value == "" || !field.Valid() {
		return nil
	}
	return func(s *query.State) {
		slot := field.slot(s)
		*slot = MergeUnique(*slot, value)
		s.Page = query.DefaultPage
	}
}

// RemoveTag returns a patch dropping value from field and returning to the
// first page.
func RemoveTag(field Field, value string) query.Patch {
	if !field.Valid() {
		return nil
	}
	return func(s *query.State) {
		slot := field.slot(s)
		*slot = Remove(*slot, value)
		s.Page = query.DefaultPage
	}
}

// QuickFilter is the row-click affordance: the value becomes a tag of field and
// paging resets. Repeating it changes nothing beyond the first application.
func QuickFilter(field Field, value string) query.Patch {
	return AddTag(field, value)
}
