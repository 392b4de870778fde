package filtertags

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/watchlist/triage/internal/query"
)

func TestMergeUnique(t *testing.T) {
	in := []string{"alice"}

	out := MergeUnique(in, "bob")
	assert.Equal(t, []string{"alice", "bob"}, out)
	assert.Equal(t, []string{"alice"}, in)

	assert.Equal(t, []string{"alice"}, MergeUnique(in, "alice"))
	assert.Equal(t, []string{"alice", "Alice"}, MergeUnique(in, "Alice"))
	assert.Equal(t, []string{"x"}, MergeUnique(nil, "x"))
}

func TestRemove(t *testing.T) {
	assert.Equal(t, []string{"b"}, Remove([]string{"a", "b", "a"}, "a"))
	assert.Equal(t, []string{"a"}, Remove([]string{"a"}, "A"))
	assert.Empty(t, Remove(nil, "a"))
}

func TestMatchAgainstOptions(t *testing.T) {
	options := []string{"alice_shop", "Bob's Gear", "Caf\u00e9"}

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"exact", "alice_shop", "alice_shop", true},
		{"case insensitive", "ALICE_SHOP", "alice_shop", true},
		{"surrounding space", "  bob's gear ", "Bob's Gear", true},
		{"decomposed unicode", "cafe\u0301", "Caf\u00e9", true},
		{"prefix never matches", "alice_sh", "", false},
		{"substring never matches", "shop", "", false},
		{"empty", "   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchAgainstOptions(tt.input, options)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterOptions(t *testing.T) {
	assert.Equal(t, []string{"Musical Instruments"}, FilterOptions(MainCategoryOptions, "music"))
	assert.Equal(t, []string{"Computers"}, FilterOptions(MainCategoryOptions, "PUT"))
	assert.Equal(t, MainCategoryOptions, FilterOptions(MainCategoryOptions, ""))
	assert.Empty(t, FilterOptions(MainCategoryOptions, "xyz"))
}

func TestAddTag(t *testing.T) {
	prev := query.Apply(query.Default(), query.WithSellers("alice"), query.WithPage(4))

	next := query.Apply(prev, AddTag(FieldSeller, "  bob "))
	assert.Equal(t, []string{"alice", "bob"}, next.Seller)
	assert.Equal(t, 1, next.Page)

	assert.Nil(t, AddTag(FieldSeller, "   "))
	assert.Nil(t, AddTag(Field("price"), "x"))
}

func TestRemoveTag(t *testing.T) {
	prev := query.Apply(query.Default(), query.WithCategories("Synths", "Drums"), query.WithPage(2))

	next := query.Apply(prev, RemoveTag(FieldCategory, "Synths"))
	assert.Equal(t, []string{"Drums"}, next.Category)
	assert.Equal(t, 1, next.Page)
	assert.Equal(t, []string{"Synths", "Drums"}, prev.Category)
}

func TestQuickFilter_Idempotent(t *testing.T) {
	once := query.Apply(query.Default(), QuickFilter(FieldMainCategory, "Computers"))
	twice := query.Apply(once, QuickFilter(FieldMainCategory, "Computers"))

	assert.Equal(t, []string{"Computers"}, once.MainCategory)
	assert.True(t, once.Equal(twice))
}

func TestFieldValues(t *testing.T) {
	s := query.Apply(query.Default(), query.WithSellers("a"), query.WithCategories("c"))
	assert.Equal(t, []string{"a"}, FieldSeller.Values(s))
	assert.Equal(t, []string{"c"}, FieldCategory.Values(s))
	assert.Empty(t, FieldMainCategory.Values(s))
	assert.Nil(t, Field("x").Values(s))
}
