package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Empty(t *testing.T) {
	for _, search := range []string{"", "?"} {
		got := Parse(search)
		assert.True(t, got.Equal(Default()), "Parse(%q) = %+v", search, got)
	}
}

func TestParse_Fields(t *testing.T) {
	got := Parse("?seller=alice&seller=bob&category=Synths&main_category=Computers&q=moog+voyager&favorite=1&show_hidden=1&show_ended=1&last_24h=1&sort=price_high&view=cards&page=4&page_size=25")

	assert.Equal(t, []string{"alice", "bob"}, got.Seller)
	assert.Equal(t, []string{"Synths"}, got.Category)
	assert.Equal(t, []string{"Computers"}, got.MainCategory)
	assert.Equal(t, "moog voyager", got.Q)
	assert.True(t, got.Favorite)
	assert.True(t, got.ShowHidden)
	assert.True(t, got.ShowEnded)
	assert.True(t, got.Last24h)
	assert.Equal(t, SortPriceHigh, got.Sort)
	assert.Equal(t, ViewCards, got.View)
	assert.Equal(t, 4, got.Page)
	assert.Equal(t, 25, got.PageSize)
}

func TestParse_FallbacksAreIndependent(t *testing.T) {
	tests := []struct {
		name   string
		search string
		check  func(t *testing.T, s State)
	}{
		{"unknown sort", "sort=cheapest&page=2", func(t *testing.T, s State) {
			assert.Equal(t, SortNewest, s.Sort)
			assert.Equal(t, 2, s.Page)
		}},
		{"unknown view", "view=grid&sort=bids_desc", func(t *testing.T, s State) {
			assert.Equal(t, ViewTable, s.View)
			assert.Equal(t, SortBidsDesc, s.Sort)
		}},
		{"zero page", "page=0", func(t *testing.T, s State) { assert.Equal(t, 1, s.Page) }},
		{"negative page", "page=-3", func(t *testing.T, s State) { assert.Equal(t, 1, s.Page) }},
		{"non numeric page", "page=abc", func(t *testing.T, s State) { assert.Equal(t, 1, s.Page) }},
		{"trailing garbage page", "page=3abc", func(t *testing.T, s State) { assert.Equal(t, 1, s.Page) }},
		{"zero page size", "page_size=0", func(t *testing.T, s State) { assert.Equal(t, 100, s.PageSize) }},
		{"bool needs exactly 1", "favorite=true&show_hidden=yes&show_ended=0", func(t *testing.T, s State) {
			assert.False(t, s.Favorite)
			assert.False(t, s.ShowHidden)
			assert.False(t, s.ShowEnded)
		}},
		{"malformed escape skipped", "q=%zz&seller=alice", func(t *testing.T, s State) {
			assert.Empty(t, s.Q)
			assert.Equal(t, []string{"alice"}, s.Seller)
		}},
		{"duplicates collapsed", "seller=alice&seller=bob&seller=alice", func(t *testing.T, s State) {
			assert.Equal(t, []string{"alice", "bob"}, s.Seller)
		}},
		{"empty values dropped", "seller=&category=Synths&category=", func(t *testing.T, s State) {
			assert.Empty(t, s.Seller)
			assert.Equal(t, []string{"Synths"}, s.Category)
		}},
		{"first single value wins", "q=first&q=second&sort=price_low&sort=price_high", func(t *testing.T, s State) {
			assert.Equal(t, "first", s.Q)
			assert.Equal(t, SortPriceLow, s.Sort)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Parse(tt.search))
		})
	}
}

func TestSerialize_Default(t *testing.T) {
	assert.Equal(t, "", Serialize(Default()))
	assert.True(t, Default().IsDefault())
}

func TestSerialize_OnlyNonDefaults(t *testing.T) {
	s := Default()
	s.Seller = []string{"alice"}
	s.Sort = SortBidsDesc
	s.Page = 3

	assert.Equal(t, "seller=alice&sort=bids_desc&page=3", Serialize(s))
}

func TestSerialize_Order(t *testing.T) {
	s := State{
		Seller:       []string{"b", "a"},
		Category:     []string{"Synths"},
		MainCategory: []string{"Musical Instruments"},
		Q:            "rhodes & wurli",
		Favorite:     true,
		ShowHidden:   true,
		ShowEnded:    true,
		Last24h:      true,
		Sort:         SortEndingSoonActive,
		View:         ViewHybrid,
		Page:         2,
		PageSize:     50,
	}

	assert.Equal(t,
		"seller=b&seller=a&category=Synths&main_category=Musical+Instruments&q=rhodes+%26+wurli&favorite=1&show_hidden=1&show_ended=1&last_24h=1&sort=ending_soon_active&view=hybrid&page=2&page_size=50",
		Serialize(s))
}

func TestSerialize_NormalizesFirst(t *testing.T) {
	s := State{Seller: []string{"alice", "alice"}, Sort: "bogus", Page: -1}
	assert.Equal(t, "seller=alice", Serialize(s))
}

func TestRoundTrip(t *testing.T) {
	searches := []string{
		"",
		"?seller=alice&page=3&sort=bids_desc",
		"seller=alice&seller=alice&page=0",
		"q=%E6%97%A5%E6%9C%AC&view=hybrid",
		"favorite=1&favorite=0&page_size=100",
		"main_category=Computers&category=Laptops&category=Laptops&last_24h=1",
		"sort=nope&view=nope&page=x&page_size=-1",
		"q=a+b%2Bc&seller=x%26y",
	}

	for _, search := range searches {
		t.Run(search, func(t *testing.T) {
			parsed := Parse(search)
			again := Parse(Serialize(parsed))
			assert.True(t, parsed.Equal(again), "round trip changed %q: %+v vs %+v", search, parsed, again)
			assert.Equal(t, Serialize(parsed), Serialize(again))
		})
	}
}

func TestRoundTrip_SellerPageSort(t *testing.T) {
	s := Parse("?seller=alice&page=3&sort=bids_desc")

	want := Default()
	want.Seller = []string{"alice"}
	want.Page = 3
	want.Sort = SortBidsDesc
	require.True(t, want.Equal(s), "got %+v", s)

	assert.Equal(t, "seller=alice&sort=bids_desc&page=3", Serialize(s))
}

func TestParse_KeepsSemicolons(t *testing.T) {
	s := Parse("?q=a;b&seller=x;y&page=2")
	assert.Equal(t, "a;b", s.Q)
	assert.Equal(t, []string{"x;y"}, s.Seller)
	assert.Equal(t, 2, s.Page)

	assert.Equal(t, "seller=x%3By&q=a%3Bb&page=2", Serialize(s))
	assert.True(t, s.Equal(Parse(Serialize(s))))
}

func FuzzParseSerialize(f *testing.F) {
	f.Add("")
	f.Add("?seller=alice&page=3&sort=bids_desc")
	f.Add("q=%zz&page=99999999999999999999")
	f.Add("seller=a;b&view=cards")

	f.Fuzz(func(t *testing.T, search string) {
		parsed := Parse(search)
		again := Parse(Serialize(parsed))
		if !parsed.Equal(again) {
			t.Fatalf("not idempotent for %q: %+v vs %+v", search, parsed, again)
		}
		if parsed.Page < 1 || parsed.PageSize < 1 || !parsed.Sort.Valid() || !parsed.View.Valid() {
			t.Fatalf("out of domain for %q: %+v", search, parsed)
		}
	})
}
