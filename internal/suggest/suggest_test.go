package suggest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/singleflight"

	"github.com/watchlist/triage/internal/domain"
	"github.com/watchlist/triage/internal/filtertags"
	"github.com/watchlist/triage/internal/query"
)

func values(v ...string) []domain.Suggestion {
	out := make([]domain.Suggestion, len(v))
	for i, s := range v {
		out[i] = domain.Suggestion{Value: s, Label: s}
	}
	return out
}

func fixed(result ...string) (Fetcher, *atomic.Int32) {
	var calls atomic.Int32
	return func(context.Context, string, []string) ([]domain.Suggestion, error) {
		calls.Add(1)
		return values(result...), nil
	}, &calls
}

func TestSetInput_Threshold(t *testing.T) {
	fetch, calls := fixed("alice_shop")
	c := New(filtertags.FieldSeller, fetch)

	for _, in := range []string{"", "a", " a ", "é"} {
		c.SetInput(context.Background(), in)
		c.Wait()
		assert.Empty(t, c.Suggestions(), in)
	}
	assert.Zero(t, calls.Load())

	c.SetInput(context.Background(), "al")
	c.Wait()
	assert.Equal(t, values("alice_shop"), c.Suggestions())
	assert.EqualValues(t, 1, calls.Load())

	c.SetInput(context.Background(), "a")
	assert.Empty(t, c.Suggestions(), "dropping below the threshold clears the list")
}

func TestCommit_ExactMatchOnly(t *testing.T) {
	fetch, _ := fixed("alice_shop")

	c := New(filtertags.FieldSeller, fetch)
	c.SetInput(context.Background(), "alice_shop")
	c.Wait()

	patch := c.Commit()
	require.NotNil(t, patch)
	next := query.Apply(query.Apply(query.Default(), query.WithPage(3)), patch)
	assert.Equal(t, []string{"alice_shop"}, next.Seller)
	assert.Equal(t, 1, next.Page)
	assert.Empty(t, c.Input())

	c.SetInput(context.Background(), "alice_sh")
	c.Wait()
	assert.Nil(t, c.Commit())
	assert.Equal(t, "alice_sh", c.Input())
}

func TestCommit_IgnoresCase(t *testing.T) {
	fetch, _ := fixed("alice_shop")
	c := New(filtertags.FieldSeller, fetch)
	c.SetInput(context.Background(), "ALICE_SHOP ")
	c.Wait()

	next := query.Apply(query.Default(), c.Commit())
	assert.Equal(t, []string{"alice_shop"}, next.Seller)
}

func TestSubmit(t *testing.T) {
	fetch, _ := fixed()
	c := New(filtertags.FieldCategory, fetch)

	c.SetInput(context.Background(), "  Drum Machines ")
	next := query.Apply(query.Default(), c.Submit())
	assert.Equal(t, []string{"Drum Machines"}, next.Category)
	assert.Empty(t, c.Input())

	c.SetInput(context.Background(), "   ")
	assert.Nil(t, c.Submit())
}

func TestLatestResponseWins(t *testing.T) {
	gates := map[string]chan struct{}{"al": make(chan struct{}), "ali": make(chan struct{})}
	fetch := func(_ context.Context, q string, _ []string) ([]domain.Suggestion, error) {
		<-gates[q]
		return values("result:" + q), nil
	}
	c := New(filtertags.FieldSeller, fetch)

	c.SetInput(context.Background(), "al")
	c.SetInput(context.Background(), "ali")

	close(gates["ali"])
	require.Eventually(t, func() bool {
		return len(c.Suggestions()) == 1
	}, time.Second, 5*time.Millisecond)

	close(gates["al"])
	c.Wait()
	assert.Equal(t, values("result:ali"), c.Suggestions())
}

func TestFailureClearsList(t *testing.T) {
	var fail atomic.Bool
	fetch := func(context.Context, string, []string) ([]domain.Suggestion, error) {
		if fail.Load() {
			return nil, errors.New("seller suggestions failed: 500")
		}
		return values("bob"), nil
	}
	c := New(filtertags.FieldSeller, fetch)

	c.SetInput(context.Background(), "bo")
	c.Wait()
	require.Len(t, c.Suggestions(), 1)

	fail.Store(true)
	c.SetInput(context.Background(), "bob")
	c.Wait()
	assert.Empty(t, c.Suggestions())
}

func TestIdenticalLookupsCoalesce(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 4)
	var calls atomic.Int32
	fetch := func(context.Context, string, []string) ([]domain.Suggestion, error) {
		calls.Add(1)
		started <- struct{}{}
		<-release
		return values("alice"), nil
	}

	group := &singleflight.Group{}
	a := New(filtertags.FieldSeller, fetch, WithGroup(group))
	b := New(filtertags.FieldSeller, fetch, WithGroup(group))

	a.SetInput(context.Background(), "ali")
	<-started
	b.SetInput(context.Background(), "ali")
	time.Sleep(50 * time.Millisecond)
	close(release)

	a.Wait()
	b.Wait()
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, values("alice"), a.Suggestions())
	assert.Equal(t, values("alice"), b.Suggestions())
}

func TestSetScope_Refetches(t *testing.T) {
	var mu sync.Mutex
	var scopes [][]string
	fetch := func(_ context.Context, _ string, scope []string) ([]domain.Suggestion, error) {
		mu.Lock()
		defer mu.Unlock()
		scopes = append(scopes, scope)
		return values("Synths"), nil
	}
	c := New(filtertags.FieldCategory, fetch)

	c.SetScope(context.Background(), []string{"Computers"})
	c.Wait()
	c.SetInput(context.Background(), "sy")
	c.Wait()
	c.SetScope(context.Background(), []string{"Musical Instruments"})
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][]string{{"Computers"}, {"Musical Instruments"}}, scopes)
}

func TestMainCategory_StaticOptions(t *testing.T) {
	c := New(filtertags.FieldMainCategory, nil)
	assert.Equal(t, values(filtertags.MainCategoryOptions...), c.Suggestions())

	c.SetInput(context.Background(), "c")
	assert.Equal(t, values("Musical Instruments", "Computers"), c.Suggestions())

	c.SetInput(context.Background(), "computers")
	next := query.Apply(query.Default(), c.Commit())
	assert.Equal(t, []string{"Computers"}, next.MainCategory)
	assert.Len(t, c.Suggestions(), len(filtertags.MainCategoryOptions))
}

type stubSource struct{ mains []string }

func (s *stubSource) SellerSuggestions(context.Context, string) ([]domain.Suggestion, error) {
	return values("seller"), nil
}

func (s *stubSource) CategorySuggestions(_ context.Context, _ string, mains []string) ([]domain.Suggestion, error) {
	s.mains = mains
	return values("category"), nil
}

func TestSourceFetchers(t *testing.T) {
	src := &stubSource{}

	got, err := SellerFetcher(src)(context.Background(), "x", []string{"ignored"})
	require.NoError(t, err)
	assert.Equal(t, values("seller"), got)

	got, err = CategoryFetcher(src)(context.Background(), "x", []string{"Computers"})
	require.NoError(t, err)
	assert.Equal(t, values("category"), got)
	assert.Equal(t, []string{"Computers"}, src.mains)
}
