package store

import (
	"testing"

	"github.com/mmcdole/netkin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfiles() domain.ProfileSet {
	return domain.ProfileSet{
		{
			ID:        "p1",
			Name:      "Viewer",
			Watchlist: []string{"m2", "m1"},
			History:   []string{"m1"},
			Ratings:   map[string]int{"m1": 4},
			Progress:  map[string]float64{"m1": 42.5},
		},
	}
}

func TestProfilesPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveProfiles(sampleProfiles()))
	require.NoError(t, s.Close())

	s, err = New(dir)
	require.NoError(t, err)
	defer s.Close()

	got, found, err := s.GetProfiles()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleProfiles(), got)
}

func TestGetProfilesAbsent(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	got, found, err := s.GetProfiles()
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestGetProfilesMalformed(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	require.NoError(t, s.PutRaw(KeyProfiles, []byte(`{"not":"a list"`)))

	_, found, err := s.GetProfiles()
	assert.True(t, found)
	assert.Error(t, err)
}

func TestCurrentUserLifecycle(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	user, err := s.GetCurrentUser()
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, s.SaveCurrentUser(domain.User{Email: "ada@example.com", Name: "ada"}))
	user, err = s.GetCurrentUser()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ada", user.Name)

	require.NoError(t, s.ClearCurrentUser())
	user, err = s.GetCurrentUser()
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestLegacyWatchlist(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)

	_, ok := s.GetLegacyWatchlist()
	assert.False(t, ok)

	require.NoError(t, s.PutRaw(KeyWatchlist, []byte(`["c1","c2"]`)))
	ids, ok := s.GetLegacyWatchlist()
	assert.True(t, ok)
	assert.Equal(t, []string{"c1", "c2"}, ids)

	require.NoError(t, s.PutRaw(KeyWatchlist, []byte(`nope`)))
	_, ok = s.GetLegacyWatchlist()
	assert.False(t, ok)
}

func TestPutRawUnknownKey(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	assert.Error(t, s.PutRaw("other", []byte(`{}`)))
}
