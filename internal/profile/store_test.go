package profile

import (
	"errors"
	"testing"

	"github.com/mmcdole/netkin/internal/domain"
	"github.com/mmcdole/netkin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingBackend wraps a real store and fails writes on demand
type failingBackend struct {
	*store.Store
	failSaves bool
	saves     int
}

func (f *failingBackend) SaveProfiles(p domain.ProfileSet) error {
	f.saves++
	if f.failSaves {
		return errors.New("disk full")
	}
	return f.Store.SaveProfiles(p)
}

func newTestStore(t *testing.T) (*Store, *failingBackend) {
	t.Helper()
	mem, err := store.New("")
	require.NoError(t, err)
	backend := &failingBackend{Store: mem}
	s := NewStore(backend, nil)
	s.LoadOrDefault()
	return s, backend
}

func TestLoadOrDefaultWithoutData(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, DefaultProfiles(), s.Profiles())
}

func TestLoadOrDefaultMalformed(t *testing.T) {
	mem, err := store.New("")
	require.NoError(t, err)
	require.NoError(t, mem.PutRaw(store.KeyProfiles, []byte(`[{"id": 7`)))

	s := NewStore(mem, nil)
	assert.Equal(t, DefaultProfiles(), s.LoadOrDefault())
}

func TestLoadOrDefaultReadsStoredSet(t *testing.T) {
	mem, err := store.New("")
	require.NoError(t, err)
	stored := domain.ProfileSet{{ID: "a", Name: "Ada", History: []string{"m1", "m1"}}}
	require.NoError(t, mem.SaveProfiles(stored))

	got := NewStore(mem, nil).LoadOrDefault()
	require.Len(t, got, 1)
	assert.Equal(t, "Ada", got[0].Name)
	assert.Equal(t, []string{"m1"}, got[0].History)
	assert.NotNil(t, got[0].Progress)
}

func TestLoadOrDefaultDropsInvalidEntries(t *testing.T) {
	mem, err := store.New("")
	require.NoError(t, err)
	require.NoError(t, mem.PutRaw(store.KeyProfiles, []byte(
		`[{"id":"1","name":"Ada","ratings":{"m1":9,"m2":0,"m3":4},"progress":{"m1":-3,"m2":0,"m3":42}}]`)))

	s := NewStore(mem, nil)
	got := s.LoadOrDefault()
	require.Len(t, got, 1)
	assert.Equal(t, map[string]int{"m3": 4}, got[0].Ratings)
	assert.Equal(t, map[string]float64{"m3": 42}, got[0].Progress)

	// Later writes must not trip over the repaired data
	added, err := s.ToggleWatchlist("1", "m1")
	require.NoError(t, err)
	assert.True(t, added)
	require.NoError(t, s.SetRating("1", "m2", 3))
}

func TestLoadOrDefaultLegacyWatchlist(t *testing.T) {
	mem, err := store.New("")
	require.NoError(t, err)
	require.NoError(t, mem.PutRaw(store.KeyWatchlist, []byte(`["c2","c1","c2"]`)))

	got := NewStore(mem, nil).LoadOrDefault()
	assert.Equal(t, []string{"c2", "c1"}, got[0].Watchlist)
	assert.Empty(t, got[1].Watchlist)
}

func TestSelect(t *testing.T) {
	s, _ := newTestStore(t)

	p, ok := s.Select("1")
	assert.True(t, ok)
	assert.Equal(t, "Viewer", p.Name)

	_, ok = s.Select("missing")
	assert.False(t, ok)
}

func TestUpdateUnknownProfileIsNoOp(t *testing.T) {
	s, backend := newTestStore(t)
	before := s.Profiles()

	after, err := s.Update("missing", func(p domain.Profile) domain.Profile {
		p.Name = "changed"
		return p
	})
	assert.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Zero(t, backend.saves)
}

func TestUpdateTouchesOnlyOneProfile(t *testing.T) {
	s, backend := newTestStore(t)

	set, err := s.Update("2", func(p domain.Profile) domain.Profile {
		p.Name = "Little Ones"
		return p
	})
	require.NoError(t, err)
	assert.Equal(t, "Viewer", set[0].Name)
	assert.Equal(t, "Little Ones", set[1].Name)
	assert.Equal(t, 1, backend.saves)
}

func TestToggleWatchlistIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Update("1", func(p domain.Profile) domain.Profile {
		p.Watchlist = []string{"m3", "m2"}
		return p
	})
	require.NoError(t, err)

	// m1 is absent and m3 is the head; both round-trip exactly
	for _, id := range []string{"m1", "m3"} {
		before, _ := s.Select("1")

		added, err := s.ToggleWatchlist("1", id)
		require.NoError(t, err)
		_, err = s.ToggleWatchlist("1", id)
		require.NoError(t, err)

		after, _ := s.Select("1")
		assert.Equal(t, before.Watchlist, after.Watchlist, "toggling %s twice", id)
		assert.Equal(t, id == "m1", added)
	}
}

func TestToggleWatchlistPrepends(t *testing.T) {
	s, _ := newTestStore(t)

	added, err := s.ToggleWatchlist("1", "m1")
	require.NoError(t, err)
	assert.True(t, added)
	_, err = s.ToggleWatchlist("1", "m2")
	require.NoError(t, err)

	p, _ := s.Select("1")
	assert.Equal(t, []string{"m2", "m1"}, p.Watchlist)
}

func TestToggleWatchlistUnknownProfile(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.ToggleWatchlist("missing", "m1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestRecordProgressPromotesHistory(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Update("1", func(p domain.Profile) domain.Profile {
		p.History = []string{"m2", "m1"}
		return p
	})
	require.NoError(t, err)

	require.NoError(t, s.RecordProgress("1", "m1", 30, 600))

	p, _ := s.Select("1")
	assert.Equal(t, []string{"m1", "m2"}, p.History)
	assert.Equal(t, 30.0, p.Progress["m1"])
}

func TestRecordProgressCompletion(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Update("1", func(p domain.Profile) domain.Profile {
		p.History = []string{"m1"}
		p.Progress = map[string]float64{"m1": 500}
		return p
	})
	require.NoError(t, err)

	require.NoError(t, s.RecordProgress("1", "m1", 583, 600))

	p, _ := s.Select("1")
	_, has := p.Progress["m1"]
	assert.False(t, has)
	assert.Equal(t, []string{"m1"}, p.History)
}

func TestRecordProgressClampsAndIgnoresZeroDuration(t *testing.T) {
	s, backend := newTestStore(t)

	require.NoError(t, s.RecordProgress("1", "m1", 10, 0))
	assert.Zero(t, backend.saves)

	require.NoError(t, s.RecordProgress("1", "m1", -5, 100))
	p, _ := s.Select("1")
	assert.Equal(t, 0.0, p.Progress["m1"])
	assert.Equal(t, []string{"m1"}, p.History)
}

func TestSetRating(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.SetRating("1", "m1", 2))
	require.NoError(t, s.SetRating("1", "m1", 5))
	assert.ErrorIs(t, s.SetRating("1", "m1", 6), domain.ErrInvalidRating)
	assert.ErrorIs(t, s.SetRating("1", "m1", 0), domain.ErrInvalidRating)

	p, _ := s.Select("1")
	assert.Equal(t, 5, p.RatingFor("m1"))
	assert.Empty(t, p.History, "rating must not count as watching")
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	s, backend := newTestStore(t)
	backend.failSaves = true

	added, err := s.ToggleWatchlist("1", "m1")
	assert.True(t, added)
	assert.ErrorIs(t, err, domain.ErrNotDurable)

	p, _ := s.Select("1")
	assert.Equal(t, []string{"m1"}, p.Watchlist)
}

func TestAddProfile(t *testing.T) {
	s, _ := newTestStore(t)

	p, err := s.AddProfile("  Guest ", false)
	require.NoError(t, err)
	assert.Equal(t, "Guest", p.Name)
	assert.NotEmpty(t, p.ID)

	got, ok := s.Select(p.ID)
	assert.True(t, ok)
	assert.Equal(t, p.Name, got.Name)
	assert.Len(t, s.Profiles(), 3)
}
