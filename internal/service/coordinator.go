package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/netkin/internal/domain"
	"github.com/mmcdole/netkin/internal/playback"
	"github.com/mmcdole/netkin/internal/profile"
	"github.com/mmcdole/netkin/internal/recommend"
)

// Notification messages
const (
	MsgAddedToList     = "Added to My List"
	MsgRemovedFromList = "Removed from My List"
	MsgNotDurable      = "Changes could not be saved"
)

// Coordinator glues the profile store, the live playback session and the
// recommendation engine to the UI. It holds the transient selection state
// (active profile, live session) and is driven from the event loop only.
type Coordinator struct {
	profiles *profile.Store
	catalog  domain.Catalog
	notifier domain.Notifier
	cfg      playback.Config
	logger   *slog.Logger
	rng      *rand.Rand

	activeID string
	session  *playback.Session

	// set after a failed write; cleared by the next successful one
	degraded bool
}

// NewCoordinator creates a coordinator with no active profile
func NewCoordinator(
	profiles *profile.Store,
	catalog domain.Catalog,
	cfg playback.Config,
	notifier domain.Notifier,
	logger *slog.Logger,
) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = domain.NoOpNotifier{}
	}
	return &Coordinator{
		profiles: profiles,
		catalog:  catalog,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// === Profiles ===

// Profiles returns the current profile set
func (c *Coordinator) Profiles() domain.ProfileSet {
	return c.profiles.Profiles()
}

// SelectProfile makes id the active profile. Switching profiles tears
// down any live session.
func (c *Coordinator) SelectProfile(id string) error {
	if _, ok := c.profiles.Select(id); !ok {
		return fmt.Errorf("select profile %q: %w", id, domain.ErrProfileNotFound)
	}
	if id != c.activeID {
		c.Close()
	}
	c.activeID = id
	c.logger.Info("profile selected", "profileID", id)
	return nil
}

// ClearProfile drops the selection (the "switch profile" action)
func (c *Coordinator) ClearProfile() {
	c.Close()
	c.activeID = ""
}

// ActiveProfile returns a snapshot of the selected profile
func (c *Coordinator) ActiveProfile() (domain.Profile, bool) {
	if c.activeID == "" {
		return domain.Profile{}, false
	}
	return c.profiles.Select(c.activeID)
}

// AddProfile creates and persists a new profile
func (c *Coordinator) AddProfile(name string, isKid bool) (domain.Profile, error) {
	p, err := c.profiles.AddProfile(name, isKid)
	if err = c.writeResult(err); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// ToggleWatchlist adds or removes movieID from the active profile's list
func (c *Coordinator) ToggleWatchlist(movieID string) (added bool, err error) {
	if c.activeID == "" {
		return false, domain.ErrNoActiveProfile
	}
	added, err = c.profiles.ToggleWatchlist(c.activeID, movieID)
	if err != nil && !errors.Is(err, domain.ErrNotDurable) {
		return false, err
	}
	if added {
		c.notifier.Notify(MsgAddedToList, domain.NotifySuccess)
	} else {
		c.notifier.Notify(MsgRemovedFromList, domain.NotifySuccess)
	}
	return added, c.writeResult(err)
}

// Rate records a 1..5 star rating for movieID on the active profile
func (c *Coordinator) Rate(movieID string, stars int) error {
	if c.activeID == "" {
		return domain.ErrNoActiveProfile
	}
	err := c.profiles.SetRating(c.activeID, movieID, stars)
	if err != nil && !errors.Is(err, domain.ErrNotDurable) {
		return err
	}
	title := movieID
	if m, ok := c.catalog.Lookup(movieID); ok {
		title = m.Title
	}
	c.notifier.Notify(fmt.Sprintf("Rated %s %d/5", title, stars), domain.NotifySuccess)
	return c.writeResult(err)
}

// RecordProgress implements playback.Recorder. It is the only path by
// which sessions write to the profile store. Sessions have no error
// channel, so failures that writeResult does not absorb are logged here.
func (c *Coordinator) RecordProgress(profileID, movieID string, elapsed, duration float64) {
	err := c.writeResult(c.profiles.RecordProgress(profileID, movieID, elapsed, duration))
	if err != nil {
		c.logger.Warn("failed to record progress", "profileID", profileID, "movieID", movieID, "error", err)
	}
}

// writeResult turns a durability failure into at most one notification
// per outage. Other errors pass through.
func (c *Coordinator) writeResult(err error) error {
	switch {
	case err == nil:
		if c.degraded {
			c.logger.Info("storage writes recovered")
		}
		c.degraded = false
		return nil
	case errors.Is(err, domain.ErrNotDurable):
		if !c.degraded {
			c.logger.Warn("storage write failed", "error", err)
			c.notifier.Notify(MsgNotDurable, domain.NotifyError)
		}
		c.degraded = true
		return nil
	default:
		return err
	}
}

// === Sessions ===

// Session returns the live session, or nil
func (c *Coordinator) Session() *playback.Session {
	return c.session
}

// Open tears down any live session (flushing its progress) and opens
// movieID in Overview for the active profile.
func (c *Coordinator) Open(movieID string) error {
	p, ok := c.ActiveProfile()
	if !ok {
		return domain.ErrNoActiveProfile
	}
	m, ok := c.catalog.Lookup(movieID)
	if !ok {
		return fmt.Errorf("open %q: %w", movieID, domain.ErrMovieNotFound)
	}

	c.Close()
	c.session = playback.New(c.cfg, p, m, playback.Options{
		Recorder: c,
		Next:     c.nextUp,
		Rand:     c.rng,
		Logger:   c.logger,
	})
	c.logger.Debug("session opened", "session", c.session.ID(), "profileID", c.session.ProfileID(), "movieID", m.ID)
	return nil
}

// Watch asks the live session to play, gate included
func (c *Coordinator) Watch() tea.Cmd {
	if c.session == nil {
		return nil
	}
	return c.session.Watch()
}

// SubmitPIN forwards a PIN attempt to the live session
func (c *Coordinator) SubmitPIN(pin string) (tea.Cmd, error) {
	if c.session == nil {
		return nil, domain.ErrNoSession
	}
	return c.session.SubmitPIN(pin)
}

// Seek moves the live session's playhead to seconds
func (c *Coordinator) Seek(seconds float64) tea.Cmd {
	if c.session == nil {
		return nil
	}
	return c.session.Seek(seconds)
}

// SeekBy moves the live session's playhead by delta
func (c *Coordinator) SeekBy(delta time.Duration) tea.Cmd {
	if c.session == nil {
		return nil
	}
	return c.session.SeekBy(delta)
}

// CancelNextUp dismisses the NextUp overlay
func (c *Coordinator) CancelNextUp() {
	if c.session != nil {
		c.session.CancelNextUp()
	}
}

// PlayNow skips the NextUp countdown
func (c *Coordinator) PlayNow() tea.Cmd {
	if c.session == nil {
		return nil
	}
	c.session.PlayNow()
	cmd, _ := c.handover()
	return cmd
}

// Close ends the live session, flushing its progress
func (c *Coordinator) Close() {
	if c.session == nil {
		return
	}
	c.session.Close()
	c.session = nil
}

// Update routes a timer message to the live session. Messages for a
// session that is no longer live are dropped.
func (c *Coordinator) Update(msg playback.TickMsg) tea.Cmd {
	if c.session == nil || msg.SessionID != c.session.ID() {
		return nil
	}
	cmd := c.session.Update(msg)
	if next, ok := c.handover(); ok {
		return next
	}
	return cmd
}

// handover replaces a session whose NextUp resolved with a session for
// the target title, already in the watch flow
func (c *Coordinator) handover() (tea.Cmd, bool) {
	if c.session == nil {
		return nil, false
	}
	target, ok := c.session.Autoplay()
	if !ok {
		return nil, false
	}
	from := c.session.Movie().ID
	if err := c.Open(target.ID); err != nil {
		c.logger.Warn("autoplay failed", "from", from, "to", target.ID, "error", err)
		c.Close()
		return nil, true
	}
	c.logger.Info("autoplay", "from", from, "to", target.ID)
	return c.session.Watch(), true
}

// nextUp picks the first recommendation for the active profile. It runs
// after the current title has been recorded, so that title seeds it.
func (c *Coordinator) nextUp() (domain.Movie, bool) {
	p, ok := c.ActiveProfile()
	if !ok {
		return domain.Movie{}, false
	}
	recs := recommend.RecommendedFor(p, c.catalog, 1)
	if len(recs) == 0 {
		return domain.Movie{}, false
	}
	return recs[0], true
}

// === Derived lists ===

func (c *Coordinator) ContinueWatching() []domain.Movie {
	p, ok := c.ActiveProfile()
	if !ok {
		return nil
	}
	return recommend.ContinueWatching(p, c.catalog)
}

func (c *Coordinator) WatchItAgain() []domain.Movie {
	p, ok := c.ActiveProfile()
	if !ok {
		return nil
	}
	return recommend.WatchItAgain(p, c.catalog, recommend.DefaultWatchItAgainLimit)
}

func (c *Coordinator) RecommendedFor() []domain.Movie {
	p, ok := c.ActiveProfile()
	if !ok {
		return nil
	}
	return recommend.RecommendedFor(p, c.catalog, recommend.DefaultRecommendLimit)
}

// BecauseYouWatched returns the title seeding RecommendedFor
func (c *Coordinator) BecauseYouWatched() (domain.Movie, bool) {
	p, ok := c.ActiveProfile()
	if !ok {
		return domain.Movie{}, false
	}
	return recommend.BecauseYouWatched(p, c.catalog)
}

func (c *Coordinator) MyList() []domain.Movie {
	p, ok := c.ActiveProfile()
	if !ok {
		return nil
	}
	return recommend.MyList(p, c.catalog)
}
