package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply_DoesNotMutatePrevious(t *testing.T) {
	prev := Default()
	prev.Seller = []string{"alice"}

	next := Apply(prev, WithSellers("alice", "bob"), WithQ("moog"))

	assert.Equal(t, []string{"alice"}, prev.Seller)
	assert.Empty(t, prev.Q)
	assert.Equal(t, []string{"alice", "bob"}, next.Seller)
	assert.Equal(t, "moog", next.Q)
}

func TestApply_Normalizes(t *testing.T) {
	next := Apply(Default(), WithCategories("A", "A", "B"), WithPage(0), WithSort("unknown"))

	assert.Equal(t, []string{"A", "B"}, next.Category)
	assert.Equal(t, 1, next.Page)
	assert.Equal(t, SortNewest, next.Sort)
}

func TestApply_NilPatchIgnored(t *testing.T) {
	assert.True(t, Apply(Default(), nil, Forced(RouteAll)).Equal(Default()))
}

func TestChangeSortAndView_ResetPage(t *testing.T) {
	prev := Apply(Default(), WithPage(5))

	assert.Equal(t, 1, Apply(prev, ChangeSort(SortPriceLow)).Page)
	assert.Equal(t, 1, Apply(prev, ChangeView(ViewCards, false)).Page)
	assert.Equal(t, ViewCards, Apply(prev, ChangeView(ViewHybrid, true)).View)
	assert.Equal(t, ViewHybrid, Apply(prev, ChangeView(ViewHybrid, false)).View)
}

func TestPaging(t *testing.T) {
	s := Apply(Default(), NextPage(), NextPage())
	assert.Equal(t, 3, s.Page)

	s = Apply(s, PrevPage(), PrevPage(), PrevPage())
	assert.Equal(t, 1, s.Page)
}

func TestForced(t *testing.T) {
	assert.Nil(t, Forced(RouteAll))
	assert.True(t, Apply(Default(), Forced(RouteFavorites)).Favorite)
}

func TestChain(t *testing.T) {
	s := Apply(Default(), Chain(WithShowEnded(true), nil, ResetPage(), WithLast24h(true)))
	assert.True(t, s.ShowEnded)
	assert.True(t, s.Last24h)
}

func TestViewForViewport(t *testing.T) {
	tests := []struct {
		view  View
		phone bool
		want  View
	}{
		{ViewHybrid, true, ViewCards},
		{ViewHybrid, false, ViewHybrid},
		{ViewTable, true, ViewTable},
		{ViewCards, true, ViewCards},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ViewForViewport(tt.view, tt.phone))
	}
}

func TestClone_Independent(t *testing.T) {
	a := Default()
	a.Seller = []string{"x"}
	b := a.Clone()
	b.Seller[0] = "y"
	assert.Equal(t, "x", a.Seller[0])
}
