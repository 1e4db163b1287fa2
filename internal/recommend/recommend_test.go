package recommend

import (
	"testing"

	"github.com/mmcdole/netkin/internal/catalog"
	"github.com/mmcdole/netkin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Index {
	titles := []domain.Movie{
		{ID: "m1", Title: "One", Genre: "ACTION"},
		{ID: "m2", Title: "Two", Genre: "DRAMA"},
	}
	for _, id := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"} {
		titles = append(titles, domain.Movie{ID: id, Title: id, Genre: "ACTION"})
	}
	titles = append(titles, domain.Movie{ID: "c1", Title: "Comedy", Genre: "COMEDY"})
	return catalog.NewIndex(titles)
}

func ids(movies []domain.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}

func TestRecommendedForScopesByGenre(t *testing.T) {
	cat := testCatalog()
	p := domain.Profile{History: []string{"m1", "m2"}}

	got := RecommendedFor(p, cat, 0)
	require.Len(t, got, DefaultRecommendLimit)
	for _, m := range got {
		assert.Equal(t, "ACTION", m.Genre)
		assert.NotEqual(t, "m1", m.ID)
	}
	assert.Equal(t, []string{"a1", "a2", "a3", "a4", "a5", "a6"}, ids(got))
}

func TestRecommendedForEmptyHistory(t *testing.T) {
	assert.Empty(t, RecommendedFor(domain.Profile{}, testCatalog(), 6))
}

func TestRecommendedForUnresolvedHead(t *testing.T) {
	p := domain.Profile{History: []string{"gone", "m1"}}
	assert.Empty(t, RecommendedFor(p, testCatalog(), 6))
}

func TestRecommendedForRespectsLimit(t *testing.T) {
	p := domain.Profile{History: []string{"m1"}}
	assert.Len(t, RecommendedFor(p, testCatalog(), 2), 2)
}

func TestWatchItAgain(t *testing.T) {
	cat := testCatalog()
	p := domain.Profile{History: []string{"m2", "gone", "m1", "a1", "a2", "a3", "a4", "a5", "a6", "a7"}}

	got := WatchItAgain(p, cat, 0)
	// The first eight entries, minus the one the catalog no longer has
	assert.Equal(t, []string{"m2", "m1", "a1", "a2", "a3", "a4", "a5"}, ids(got))

	assert.Equal(t, []string{"m2"}, ids(WatchItAgain(p, cat, 2)))
}

func TestContinueWatching(t *testing.T) {
	cat := testCatalog()
	p := domain.Profile{
		History:  []string{"m2", "m1", "a1"},
		Progress: map[string]float64{"m1": 30, "a1": 0, "c1": 12, "gone": 40, "m2": 5},
	}

	assert.Equal(t, []string{"m2", "m1", "c1"}, ids(ContinueWatching(p, cat)))
}

func TestMyListAndBecauseYouWatched(t *testing.T) {
	cat := testCatalog()
	p := domain.Profile{Watchlist: []string{"c1", "gone", "m2"}, History: []string{"m1"}}

	assert.Equal(t, []string{"c1", "m2"}, ids(MyList(p, cat)))

	seed, ok := BecauseYouWatched(p, cat)
	assert.True(t, ok)
	assert.Equal(t, "m1", seed.ID)

	_, ok = BecauseYouWatched(domain.Profile{}, cat)
	assert.False(t, ok)
}

func TestFunctionsDoNotMutateProfile(t *testing.T) {
	p := domain.Profile{
		History:  []string{"m1", "m2"},
		Progress: map[string]float64{"m1": 3},
	}
	before := p.Clone()

	ContinueWatching(p, testCatalog())
	WatchItAgain(p, testCatalog(), 1)
	RecommendedFor(p, testCatalog(), 1)

	assert.Equal(t, before.History, p.History)
	assert.Equal(t, before.Progress, p.Progress)
}
