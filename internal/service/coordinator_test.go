package service

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/netkin/internal/catalog"
	"github.com/mmcdole/netkin/internal/domain"
	"github.com/mmcdole/netkin/internal/playback"
	"github.com/mmcdole/netkin/internal/profile"
	"github.com/mmcdole/netkin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notification struct {
	message string
	kind    domain.NotificationKind
}

type flakyBackend struct {
	*store.Store
	fail bool
}

func (f *flakyBackend) SaveProfiles(p domain.ProfileSet) error {
	if f.fail {
		return errors.New("quota exceeded")
	}
	return f.Store.SaveProfiles(p)
}

type harness struct {
	c       *Coordinator
	backend *flakyBackend
	notes   []notification
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mem, err := store.New("")
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })

	h := &harness{backend: &flakyBackend{Store: mem}}
	profiles := profile.NewStore(h.backend, nil)
	profiles.LoadOrDefault()

	cat := catalog.NewIndex([]domain.Movie{
		{ID: "m1", Title: "First", Genre: "ACTION", ContentRating: domain.RatingR, DurationSeconds: 120},
		{ID: "m2", Title: "Second", Genre: "ACTION", ContentRating: domain.RatingPG13, DurationSeconds: 120},
		{ID: "k1", Title: "Cartoon", Genre: "FAMILY", ContentRating: domain.RatingG, DurationSeconds: 60},
	})

	cfg := playback.DefaultConfig()
	cfg.LoadInterval = time.Millisecond
	cfg.TickInterval = time.Millisecond
	cfg.CountdownInterval = time.Millisecond
	cfg.NextUpCountdown = 2

	notifier := domain.NotifierFunc(func(message string, kind domain.NotificationKind) {
		h.notes = append(h.notes, notification{message, kind})
	})
	h.c = NewCoordinator(profiles, cat, cfg, notifier, nil)
	return h
}

func (h *harness) errorNotes() int {
	n := 0
	for _, note := range h.notes {
		if note.kind == domain.NotifyError {
			n++
		}
	}
	return n
}

// eventLoop runs commands the way the bubbletea runtime would, feeding
// timer messages back into the coordinator
type eventLoop struct {
	t     *testing.T
	c     *Coordinator
	queue []tea.Cmd
}

func (l *eventLoop) push(cmd tea.Cmd) {
	if cmd != nil {
		l.queue = append(l.queue, cmd)
	}
}

func (l *eventLoop) runUntil(cond func() bool) {
	l.t.Helper()
	for steps := 0; !cond(); steps++ {
		require.Less(l.t, steps, 10000, "condition never reached")
		require.NotEmpty(l.t, l.queue, "event loop went idle")

		cmd := l.queue[0]
		l.queue = l.queue[1:]
		switch msg := cmd().(type) {
		case playback.TickMsg:
			l.push(l.c.Update(msg))
		case tea.BatchMsg:
			for _, c := range msg {
				l.push(c)
			}
		}
	}
}

func playing(c *Coordinator) func() bool {
	return func() bool {
		s := c.Session()
		return s != nil && s.State() == playback.StatePlaying
	}
}

func TestToggleWatchlistNotifies(t *testing.T) {
	h := newHarness(t)

	_, err := h.c.ToggleWatchlist("m1")
	assert.ErrorIs(t, err, domain.ErrNoActiveProfile)

	require.NoError(t, h.c.SelectProfile("1"))
	added, err := h.c.ToggleWatchlist("m1")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"m1"}, ids(h.c.MyList()))

	added, err = h.c.ToggleWatchlist("m1")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, h.c.MyList())

	assert.Equal(t, []notification{
		{MsgAddedToList, domain.NotifySuccess},
		{MsgRemovedFromList, domain.NotifySuccess},
	}, h.notes)
}

func TestSelectProfileUnknown(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.c.SelectProfile("nope"), domain.ErrProfileNotFound)
	_, ok := h.c.ActiveProfile()
	assert.False(t, ok)
}

func TestRate(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.SelectProfile("1"))

	assert.ErrorIs(t, h.c.Rate("m1", 9), domain.ErrInvalidRating)
	require.NoError(t, h.c.Rate("m1", 4))

	p, _ := h.c.ActiveProfile()
	stars, ok := p.RatingFor("m1")
	assert.True(t, ok)
	assert.Equal(t, 4, stars)
}

func TestStorageFailureNotifiesOncePerOutage(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.SelectProfile("1"))

	h.backend.fail = true
	_, err := h.c.ToggleWatchlist("m1")
	require.NoError(t, err, "durability failures are soft")
	_, err = h.c.ToggleWatchlist("m2")
	require.NoError(t, err)
	assert.Equal(t, 1, h.errorNotes())

	// In-memory state stays authoritative
	assert.Equal(t, []string{"m2", "m1"}, ids(h.c.MyList()))

	h.backend.fail = false
	_, err = h.c.ToggleWatchlist("k1")
	require.NoError(t, err)
	assert.Equal(t, 1, h.errorNotes())

	h.backend.fail = true
	_, err = h.c.ToggleWatchlist("k1")
	require.NoError(t, err)
	assert.Equal(t, 2, h.errorNotes())
	assert.Equal(t, MsgNotDurable, h.notes[len(h.notes)-1].message)
}

func TestProgressWriteFailureIsReported(t *testing.T) {
	h := newHarness(t)
	var logs bytes.Buffer
	h.c.logger = slog.New(slog.NewTextHandler(&logs, nil))
	require.NoError(t, h.c.SelectProfile("1"))

	h.backend.fail = true
	h.c.RecordProgress("1", "m1", 10, 120)
	h.c.RecordProgress("1", "m1", 11, 120)

	assert.Equal(t, 1, h.errorNotes())
	assert.Equal(t, MsgNotDurable, h.notes[len(h.notes)-1].message)
	assert.Contains(t, logs.String(), "storage write failed")
	assert.Equal(t, []string{"m1"}, ids(h.c.ContinueWatching()))

	h.backend.fail = false
	h.c.RecordProgress("1", "m1", 12, 120)
	assert.Contains(t, logs.String(), "storage writes recovered")
	assert.Equal(t, 1, h.errorNotes())
}

func TestOpenRequiresProfileAndTitle(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.c.Open("m1"), domain.ErrNoActiveProfile)

	require.NoError(t, h.c.SelectProfile("1"))
	assert.ErrorIs(t, h.c.Open("missing"), domain.ErrMovieNotFound)
	assert.Nil(t, h.c.Session())

	_, err := h.c.SubmitPIN("1234")
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestKidProfileGateThroughCoordinator(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.SelectProfile("2"))
	require.NoError(t, h.c.Open("m1"))

	assert.Nil(t, h.c.Watch())
	assert.Equal(t, playback.StateLocked, h.c.Session().State())

	_, err := h.c.SubmitPIN("9999")
	assert.ErrorIs(t, err, domain.ErrIncorrectPIN)
	assert.Equal(t, playback.StateLocked, h.c.Session().State())

	cmd, err := h.c.SubmitPIN("1234")
	require.NoError(t, err)
	assert.Equal(t, playback.StateLoading, h.c.Session().State())

	loop := &eventLoop{t: t, c: h.c}
	loop.push(cmd)
	loop.runUntil(playing(h.c))
}

func TestOpeningAnotherTitleFlushesAndReplaces(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.SelectProfile("1"))
	require.NoError(t, h.c.Open("m1"))

	loop := &eventLoop{t: t, c: h.c}
	loop.push(h.c.Watch())
	loop.runUntil(playing(h.c))
	loop.push(h.c.Seek(30))
	first := h.c.Session()

	require.NoError(t, h.c.Open("m2"))
	assert.True(t, first.Closed())
	assert.Equal(t, "m2", h.c.Session().Movie().ID)
	assert.Equal(t, playback.StateOverview, h.c.Session().State())

	p, _ := h.c.ActiveProfile()
	offset, ok := p.ProgressFor("m1")
	require.True(t, ok)
	assert.GreaterOrEqual(t, offset, 30.0)

	// The replaced session's pending ticks are dropped
	for _, cmd := range loop.queue {
		if msg, ok := cmd().(playback.TickMsg); ok {
			assert.Nil(t, h.c.Update(msg))
		}
	}
	assert.Equal(t, playback.StateOverview, h.c.Session().State())
}

func TestNextUpAutoplayHandsOver(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.SelectProfile("1"))
	require.NoError(t, h.c.Open("m1"))

	loop := &eventLoop{t: t, c: h.c}
	loop.push(h.c.Watch())
	loop.runUntil(playing(h.c))

	loop.push(h.c.Seek(111))
	first := h.c.Session()
	require.True(t, first.NextUpVisible())
	assert.Equal(t, "m2", first.NextUp().ID)

	loop.runUntil(func() bool {
		return h.c.Session() != first
	})
	assert.True(t, first.Closed())
	assert.Equal(t, "m2", h.c.Session().Movie().ID)
	assert.Equal(t, playback.StateLoading, h.c.Session().State())

	p, _ := h.c.ActiveProfile()
	offset, ok := p.ProgressFor("m1")
	require.True(t, ok, "the previous title's progress is flushed")
	assert.GreaterOrEqual(t, offset, 111.0)

	loop.runUntil(playing(h.c))
	p, _ = h.c.ActiveProfile()
	assert.Equal(t, []string{"m2", "m1"}, p.History)
}

func TestPlayNowHandsOverImmediately(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.SelectProfile("1"))
	require.NoError(t, h.c.Open("m1"))

	loop := &eventLoop{t: t, c: h.c}
	loop.push(h.c.Watch())
	loop.runUntil(playing(h.c))
	h.c.Seek(115)

	assert.NotNil(t, h.c.PlayNow())
	assert.Equal(t, "m2", h.c.Session().Movie().ID)
	assert.Equal(t, playback.StateLoading, h.c.Session().State())
}

func TestSwitchingProfileClosesSession(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.SelectProfile("1"))
	require.NoError(t, h.c.Open("k1"))
	s := h.c.Session()

	require.NoError(t, h.c.SelectProfile("2"))
	assert.True(t, s.Closed())
	assert.Nil(t, h.c.Session())
}

func TestDerivedListsFollowActiveProfile(t *testing.T) {
	h := newHarness(t)
	assert.Nil(t, h.c.ContinueWatching())
	assert.Nil(t, h.c.RecommendedFor())

	require.NoError(t, h.c.SelectProfile("1"))
	h.c.RecordProgress("1", "m1", 40, 120)

	assert.Equal(t, []string{"m1"}, ids(h.c.ContinueWatching()))
	assert.Equal(t, []string{"m1"}, ids(h.c.WatchItAgain()))
	assert.Equal(t, []string{"m2"}, ids(h.c.RecommendedFor()))
	seed, ok := h.c.BecauseYouWatched()
	assert.True(t, ok)
	assert.Equal(t, "m1", seed.ID)
}

func ids(movies []domain.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}
