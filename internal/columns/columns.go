// Package columns manages which dense-table columns are visible and the named
// presets that select them.
package columns

import (
	"slices"
	"strings"

	"github.com/watchlist/triage/internal/util"
)

// Key identifies a dense-table column.
type Key string

// Column keys in display order.
const (
	Image    Key = "image"
	Title    Key = "title"
	Price    Key = "price"
	Bids     Key = "bids"
	Seller   Key = "seller"
	Category Key = "category"
	Posted   Key = "posted"
	Ends     Key = "ends"
	Actions  Key = "actions"
)

// Definition pairs a column key with its header label.
type Definition struct {
	Key   Key    `json:"key"`
	Label string `json:"label"`
}

// Definitions is the fixed catalog. Its order is the only display order.
var Definitions = []Definition{
	{Image, "Image"},
	{Title, "Title"},
	{Price, "Price"},
	{Bids, "Bids"},
	{Seller, "Seller"},
	{Category, "Category"},
	{Posted, "Posted"},
	{Ends, "Ends"},
	{Actions, "Actions"},
}

// Catalog returns every column key in display order.
func Catalog() []Key {
	out := make([]Key, len(Definitions))
	for i, d := range Definitions {
		out[i] = d.Key
	}
	return out
}

// Default returns the columns shown when nothing valid is stored.
func Default() []Key {
	return Catalog()
}

// Label returns the header label for k, or the key itself when unknown.
func Label(k Key) string {
	for _, d := range Definitions {
		if d.Key == k {
			return d.Label
		}
	}
	return string(k)
}

// Valid reports whether k is in the catalog.
func (k Key) Valid() bool {
	return slices.ContainsFunc(Definitions, func(d Definition) bool { return d.Key == k })
}

// Normalize drops unknown keys and duplicates and reorders the rest into
// catalog order. An empty result becomes the full default set, so no input can
// hide every column.
func Normalize[S ~string](raw []S) []Key {
	selected := make(map[Key]bool, len(raw))
	for _, r := range raw {
		selected[Key(r)] = true
	}

	out := make([]Key, 0, len(Definitions))
	for _, d := range Definitions {
		if selected[d.Key] {
			out = append(out, d.Key)
		}
	}
	if len(out) == 0 {
		return Default()
	}
	return out
}

// Toggle flips k in the visible set. Removing the last visible column is
// refused and returns current unchanged.
func Toggle(current []Key, k Key) []Key {
	if !k.Valid() {
		return slices.Clone(current)
	}
	if !slices.Contains(current, k) {
		return Normalize(append(slices.Clone(current), k))
	}
	next := slices.DeleteFunc(slices.Clone(current), func(c Key) bool { return c == k })
	if len(next) == 0 {
		return slices.Clone(current)
	}
	return Normalize(next)
}

// Preset is a named, ordered column selection.
type Preset struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Columns []Key  `json:"columns"`
}

// Built-in preset ids.
const (
	PresetAll     = "preset:all"
	PresetTriage  = "preset:triage"
	PresetCompact = "preset:compact"
)

// UserPresetPrefix namespaces presets created by the user. Only these can be
// deleted.
const UserPresetPrefix = "custom:"

// CustomSelection is the active preset id when the visible columns match no
// preset.
const CustomSelection = ""

// BuiltinPresets returns the immutable presets.
func BuiltinPresets() []Preset {
	return []Preset{
		{ID: PresetAll, Label: "All columns", Columns: Catalog()},
		{ID: PresetTriage, Label: "Triage", Columns: []Key{Image, Title, Price, Seller, Posted, Ends, Actions}},
		{ID: PresetCompact, Label: "Compact", Columns: []Key{Image, Title, Price, Ends, Actions}},
	}
}

// PresetIDFromLabel derives a user preset id from its label. Blank labels map
// to custom:preset.
func PresetIDFromLabel(label string) string {
	return util.PrefixedSlug(UserPresetPrefix, label, "preset")
}

// IsUserPreset reports whether id belongs to a deletable user preset.
func IsUserPreset(id string) bool {
	return strings.HasPrefix(id, UserPresetPrefix) && len(id) > len(UserPresetPrefix)
}

// MatchPreset returns the id of the first preset whose columns equal cols in
// order, or CustomSelection.
func MatchPreset(presets []Preset, cols []Key) string {
	for _, p := range presets {
		if slices.Equal(p.Columns, cols) {
			return p.ID
		}
	}
	return CustomSelection
}
