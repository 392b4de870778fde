package savedviews

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/watchlist/triage/internal/errors"
	"github.com/watchlist/triage/internal/query"
	"github.com/watchlist/triage/internal/storage"
	"github.com/watchlist/triage/internal/validation"
)

func TestIDs(t *testing.T) {
	assert.Equal(t, "saved-view:cheap-synths", ViewIDFromName("Cheap Synths!"))
	assert.Equal(t, "saved-view:view", ViewIDFromName("???"))
	assert.Equal(t, "watched-search:moog-voyager", SearchIDFromName(" Moog  Voyager "))
	assert.Equal(t, "watched-search:search", SearchIDFromName(""))
}

func TestLoadViews_DropsInvalidEntries(t *testing.T) {
	s := storage.NewMemory()
	require.NoError(t, s.Set(storage.KeySavedViews, `[
		{"id":"saved-view:a","name":"A","route_mode":"all","query":{"seller":["alice"],"sort":"bids_desc"}},
		{"id":"saved-view:b","name":"B","route_mode":"recent","query":{}},
		{"id":"saved-view:c","name":"C","route_mode":"favorites"},
		{"id":"saved-view:d","route_mode":"all","query":{}},
		{"id":"saved-view:e","name":"E","route_mode":"favorites","query":{"favorite":true}},
		5
	]`))

	views := LoadViews(s, validation.New(), nil)

	require.Len(t, views, 2)
	assert.Equal(t, "saved-view:a", views[0].ID)
	assert.Equal(t, []string{"alice"}, views[0].Query.Seller)
	assert.Equal(t, query.RouteFavorites, views[1].RouteMode)
}

func TestLoadSearches_DropsInvalidEntries(t *testing.T) {
	s := storage.NewMemory()
	require.NoError(t, s.Set(storage.KeyWatchedSearches, `[
		{"id":"watched-search:a","name":"A","q":"moog","main_category":[],"category":["Synths"],"max_price":"500"},
		{"id":"watched-search:b","name":"B","q":"","main_category":[],"category":[],"max_price":null},
		{"id":"watched-search:c","name":"C","q":"","main_category":[],"category":[],"max_price":12},
		{"id":"watched-search:d","name":"D","q":"","main_category":[],"category":[]},
		{"id":"watched-search:e","name":"E","main_category":[],"category":[],"max_price":null},
		{"id":"watched-search:f","name":"F","q":"","main_category":"x","category":[],"max_price":null}
	]`))

	searches := LoadSearches(s, validation.New(), nil)

	require.Len(t, searches, 2)
	require.NotNil(t, searches[0].MaxPrice)
	assert.Equal(t, "500", *searches[0].MaxPrice)
	assert.Nil(t, searches[1].MaxPrice)
}

func TestLoad_CorruptCollections(t *testing.T) {
	s := storage.NewMemory()
	require.NoError(t, s.Set(storage.KeySavedViews, "{not json"))
	require.NoError(t, s.Set(storage.KeyWatchedSearches, `{"id":"x"}`))

	st := NewStore(s, nil, nil)
	assert.Empty(t, st.Views())
	assert.Empty(t, st.Searches())
}

func TestStore_SaveViewUpserts(t *testing.T) {
	s := storage.NewMemory()
	st := NewStore(s, nil, nil)

	state := query.Apply(query.Default(), query.WithSellers("alice"), query.WithPage(7), query.WithPageSize(25))
	view, err := st.SaveView("Alice", query.RouteAll, state)
	require.NoError(t, err)
	assert.Equal(t, "saved-view:alice", view.ID)

	_, err = st.SaveView("Bob", query.RouteFavorites, query.Default())
	require.NoError(t, err)

	_, err = st.SaveView("alice", query.RouteAll, query.Apply(query.Default(), query.WithQ("rhodes")))
	require.NoError(t, err)

	views := st.Views()
	require.Len(t, views, 2)
	assert.Equal(t, "saved-view:alice", views[0].ID)
	assert.Equal(t, "rhodes", views[0].Query.Q)

	reloaded := NewStore(s, nil, nil)
	assert.Equal(t, views, reloaded.Views())
}

func TestStore_SaveViewRejects(t *testing.T) {
	st := NewStore(storage.NewMemory(), nil, nil)

	_, err := st.SaveView("  ", query.RouteAll, query.Default())
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = st.SaveView("x", query.RouteMode("recent"), query.Default())
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestStore_DeleteView(t *testing.T) {
	st := NewStore(storage.NewMemory(), nil, nil)
	_, err := st.SaveView("A", query.RouteAll, query.Default())
	require.NoError(t, err)

	require.NoError(t, st.DeleteView("saved-view:a"))
	assert.Empty(t, st.Views())
	assert.ErrorIs(t, st.DeleteView("saved-view:a"), domainerrors.ErrNotFound)

	_, err = st.View("saved-view:a")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSavedView_ApplyRestoresFiltersAndResetsPage(t *testing.T) {
	saved := query.Apply(query.Default(),
		query.WithSellers("alice"),
		query.WithShowEnded(true),
		query.WithSort(query.SortPriceLow),
		query.WithPageSize(25),
	)
	view := SavedView{ID: "saved-view:x", Name: "x", RouteMode: query.RouteAll, Query: FiltersOf(saved)}

	current := query.Apply(query.Default(), query.WithQ("old"), query.WithPage(9), query.WithPageSize(50))
	next := query.Apply(current, view.Apply())

	assert.Equal(t, []string{"alice"}, next.Seller)
	assert.True(t, next.ShowEnded)
	assert.Equal(t, query.SortPriceLow, next.Sort)
	assert.Empty(t, next.Q)
	assert.Equal(t, 1, next.Page)
	assert.Equal(t, 50, next.PageSize)
}

func TestStore_Searches(t *testing.T) {
	s := storage.NewMemory()
	st := NewStore(s, nil, nil)

	search, err := st.SaveSearch("Voyager", " moog voyager ", nil, []string{"Synths"}, " ")
	require.NoError(t, err)
	assert.Equal(t, "watched-search:voyager", search.ID)
	assert.Equal(t, "moog voyager", search.Q)
	assert.Nil(t, search.MaxPrice)
	assert.Equal(t, []string{}, search.MainCategory)

	_, err = st.SaveSearch("voyager", "moog", nil, nil, "900")
	require.NoError(t, err)

	reloaded := NewStore(s, nil, nil).Searches()
	require.Len(t, reloaded, 1)
	require.NotNil(t, reloaded[0].MaxPrice)
	assert.Equal(t, "900", *reloaded[0].MaxPrice)

	next := query.Apply(query.Apply(query.Default(), query.WithSellers("bob"), query.WithPage(3)), reloaded[0].Apply())
	assert.Equal(t, "moog", next.Q)
	assert.Equal(t, []string{"bob"}, next.Seller)
	assert.Equal(t, 1, next.Page)

	require.NoError(t, st.DeleteSearch("watched-search:voyager"))
	assert.ErrorIs(t, st.DeleteSearch("watched-search:voyager"), domainerrors.ErrNotFound)

	_, err = st.SaveSearch("", "q", nil, nil, "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
