package playback

import (
	"crypto/subtle"
	"log/slog"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/netkin/internal/domain"
)

// Recorder persists playback position (consumer-defined interface).
// It is the single path through which a session writes progress.
type Recorder interface {
	RecordProgress(profileID, movieID string, elapsed, duration float64)
}

// NextFunc returns the title to offer when the current one nears its end
type NextFunc func() (domain.Movie, bool)

// Options carries a session's collaborators
type Options struct {
	Recorder Recorder
	Next     NextFunc
	Rand     *rand.Rand
	Logger   *slog.Logger
}

// Session is one (profile, title) playback lifecycle:
// Overview -> [Locked] -> Loading -> Playing [+ NextUp overlay].
// It is not safe for concurrent use; the event loop owns it.
type Session struct {
	id       int
	cfg      Config
	profile  domain.Profile
	movie    domain.Movie
	duration float64

	recorder Recorder
	next     NextFunc
	rng      *rand.Rand
	logger   *slog.Logger

	state       State
	unlocked    bool
	loadPercent int
	elapsed     float64
	started     bool
	ended       bool
	closed      bool

	nextUpShown   bool
	nextUpVisible bool
	nextUp        domain.Movie
	countdown     int
	autoplay      *domain.Movie

	timers [timerKinds]timer
}

// New opens a session in Overview. Playback resumes from the profile's
// stored progress for the title, if any.
func New(cfg Config, profile domain.Profile, movie domain.Movie, opts Options) *Session {
	cfg = cfg.withDefaults()
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Next == nil {
		opts.Next = func() (domain.Movie, bool) { return domain.Movie{}, false }
	}

	s := &Session{
		id:       nextID(),
		cfg:      cfg,
		profile:  profile,
		movie:    movie,
		duration: movie.Duration(cfg.DefaultDuration).Seconds(),
		recorder: opts.Recorder,
		next:     opts.Next,
		rng:      opts.Rand,
		logger:   opts.Logger,
		state:    StateOverview,
	}
	if offset, ok := profile.ProgressFor(movie.ID); ok && offset < s.duration {
		s.elapsed = max(0, offset)
	}
	return s
}

// === Intents ===

// Watch requests playback. Gated titles move to Locked until the PIN is
// given; everything else starts loading.
func (s *Session) Watch() tea.Cmd {
	if s.closed || s.state != StateOverview {
		return nil
	}
	if s.cfg.Gated(s.profile, s.movie) && !s.unlocked {
		s.state = StateLocked
		s.logger.Info("playback locked", "session", s.id, "movieID", s.movie.ID,
			"contentRating", s.movie.ContentRating, "maxRating", s.cfg.MaxRatingFor(s.profile))
		return nil
	}
	return s.startLoading()
}

// SubmitPIN unlocks a Locked session. A wrong PIN keeps it Locked and
// returns domain.ErrIncorrectPIN; the caller may retry without limit.
func (s *Session) SubmitPIN(pin string) (tea.Cmd, error) {
	if s.closed || s.state != StateLocked {
		return nil, nil
	}
	if subtle.ConstantTimeCompare([]byte(pin), []byte(s.cfg.PIN)) != 1 {
		s.logger.Debug("incorrect PIN", "session", s.id)
		return nil, domain.ErrIncorrectPIN
	}
	s.unlocked = true
	return s.startLoading(), nil
}

// Seek jumps to seconds (clamped to the runtime) and records it
func (s *Session) Seek(seconds float64) tea.Cmd {
	if s.closed || s.state != StatePlaying {
		return nil
	}
	s.elapsed = max(0, min(seconds, s.duration))
	s.ended = s.elapsed >= s.duration
	s.record()

	// Seeking out of the near-end window withdraws a pending NextUp so it
	// can show again later. A cancelled overlay stays cancelled.
	if s.nextUpVisible && s.duration-s.elapsed >= s.cfg.NextUpThreshold.Seconds() {
		s.nextUpVisible = false
		s.nextUpShown = false
		s.timers[TimerCountdown].cancel()
	}

	var cmds []tea.Cmd
	if s.ended {
		s.timers[TimerPlayback].cancel()
	} else if !s.timers[TimerPlayback].active {
		cmds = append(cmds, s.timers[TimerPlayback].schedule(s.id, TimerPlayback, s.cfg.TickInterval))
	}
	cmds = append(cmds, s.checkNearEnd())
	return tea.Batch(cmds...)
}

// SeekBy moves the playhead by delta
func (s *Session) SeekBy(delta time.Duration) tea.Cmd {
	return s.Seek(s.elapsed + delta.Seconds())
}

// CancelNextUp dismisses the overlay; it will not show again this session
func (s *Session) CancelNextUp() {
	if !s.nextUpVisible {
		return
	}
	s.nextUpVisible = false
	s.timers[TimerCountdown].cancel()
}

// PlayNow resolves NextUp immediately
func (s *Session) PlayNow() {
	if s.nextUpVisible {
		s.requestAutoplay()
	}
}

// Close flushes the last known position, cancels every timer and returns
// the session to Overview. A closed session ignores all further input.
func (s *Session) Close() {
	if s.closed {
		return
	}
	if s.state == StatePlaying {
		s.record()
	}
	for k := range s.timers {
		s.timers[k].cancel()
	}
	s.nextUpVisible = false
	s.state = StateOverview
	s.closed = true
	s.logger.Debug("session closed", "session", s.id, "movieID", s.movie.ID, "elapsed", s.elapsed)
}

// === Timers ===

// Update handles a timer message. Messages for another session, for a
// closed session, or carrying a stale tag are ignored.
func (s *Session) Update(msg TickMsg) tea.Cmd {
	if msg.SessionID != s.id || msg.Kind < 0 || msg.Kind >= timerKinds {
		return nil
	}
	t := &s.timers[msg.Kind]
	if s.closed || !t.accepts(msg) {
		s.logger.Debug("dropping stale tick", "session", s.id, "timer", msg.Kind)
		return nil
	}
	t.active = false

	switch msg.Kind {
	case TimerLoad:
		return s.loadTick()
	case TimerPlayback:
		return s.playTick()
	case TimerCountdown:
		return s.countdownTick()
	}
	return nil
}

func (s *Session) startLoading() tea.Cmd {
	s.state = StateLoading
	s.loadPercent = 0
	s.logger.Info("loading", "session", s.id, "movieID", s.movie.ID)
	return s.timers[TimerLoad].schedule(s.id, TimerLoad, s.cfg.LoadInterval)
}

// loadTick advances the buffer by a random positive step that never
// overshoots 100
func (s *Session) loadTick() tea.Cmd {
	if s.state != StateLoading {
		return nil
	}
	step := 1 + s.rng.IntN(s.cfg.MaxLoadStep)
	s.loadPercent += min(step, 100-s.loadPercent)
	if s.loadPercent < 100 {
		return s.timers[TimerLoad].schedule(s.id, TimerLoad, s.cfg.LoadInterval)
	}
	return s.startPlaying()
}

func (s *Session) startPlaying() tea.Cmd {
	s.state = StatePlaying
	s.started = true
	s.ended = s.elapsed >= s.duration
	s.record()
	s.logger.Info("playing", "session", s.id, "movieID", s.movie.ID, "offset", s.elapsed)

	cmds := []tea.Cmd{s.checkNearEnd()}
	if !s.ended {
		cmds = append(cmds, s.timers[TimerPlayback].schedule(s.id, TimerPlayback, s.cfg.TickInterval))
	}
	return tea.Batch(cmds...)
}

func (s *Session) playTick() tea.Cmd {
	if s.state != StatePlaying || s.ended {
		return nil
	}
	s.elapsed += s.cfg.TickInterval.Seconds()
	if s.elapsed >= s.duration {
		s.elapsed = s.duration
		s.ended = true
	}
	s.record()

	cmds := []tea.Cmd{s.checkNearEnd()}
	if !s.ended {
		cmds = append(cmds, s.timers[TimerPlayback].schedule(s.id, TimerPlayback, s.cfg.TickInterval))
	}
	return tea.Batch(cmds...)
}

// checkNearEnd shows NextUp once, when the remaining time drops below the
// threshold and there is something to play next
func (s *Session) checkNearEnd() tea.Cmd {
	if s.nextUpShown || s.state != StatePlaying {
		return nil
	}
	if s.duration-s.elapsed >= s.cfg.NextUpThreshold.Seconds() {
		return nil
	}
	s.nextUpShown = true

	target, ok := s.next()
	if !ok {
		s.logger.Debug("nothing to play next", "session", s.id)
		return nil
	}
	s.nextUp = target
	s.nextUpVisible = true
	s.countdown = s.cfg.NextUpCountdown
	return s.timers[TimerCountdown].schedule(s.id, TimerCountdown, s.cfg.CountdownInterval)
}

func (s *Session) countdownTick() tea.Cmd {
	if !s.nextUpVisible {
		return nil
	}
	s.countdown--
	if s.countdown > 0 {
		return s.timers[TimerCountdown].schedule(s.id, TimerCountdown, s.cfg.CountdownInterval)
	}
	s.countdown = 0
	s.requestAutoplay()
	return nil
}

func (s *Session) requestAutoplay() {
	target := s.nextUp
	s.autoplay = &target
	s.nextUpVisible = false
	s.timers[TimerCountdown].cancel()
	s.logger.Info("autoplay requested", "session", s.id, "from", s.movie.ID, "to", target.ID)
}

func (s *Session) record() {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordProgress(s.profile.ID, s.movie.ID, s.elapsed, s.duration)
}

// === Observable state ===

func (s *Session) ID() int { return s.id }
func (s *Session) Movie() domain.Movie { return s.movie }
func (s *Session) ProfileID() string { return s.profile.ID }
func (s *Session) State() State { return s.state }
func (s *Session) Closed() bool { return s.closed }
func (s *Session) Unlocked() bool { return s.unlocked }
func (s *Session) Started() bool { return s.started }
func (s *Session) Ended() bool { return s.ended }
func (s *Session) NextUpVisible() bool { return s.nextUpVisible }
func (s *Session) NextUp() domain.Movie { return s.nextUp }
func (s *Session) Countdown() int { return s.countdown }
func (s *Session) ProgressPercent() int { return s.loadPercent }
func (s *Session) CurrentTimeSeconds() float64 { return s.elapsed }

// CurrentTime returns the playhead position
func (s *Session) CurrentTime() time.Duration {
	return time.Duration(s.elapsed * float64(time.Second))
}

// Duration returns the runtime used for this session
func (s *Session) Duration() time.Duration {
	return time.Duration(s.duration * float64(time.Second))
}

// PlaybackPercent returns elapsed as a share of the runtime (0..100)
func (s *Session) PlaybackPercent() float64 {
	if s.duration <= 0 {
		return 0
	}
	return s.elapsed / s.duration * 100
}

// Gated reports whether this title is behind the parental gate for the
// session's profile
func (s *Session) Gated() bool {
	return s.cfg.Gated(s.profile, s.movie)
}

// Autoplay returns the title NextUp resolved to, once it has
func (s *Session) Autoplay() (domain.Movie, bool) {
	if s.autoplay == nil {
		return domain.Movie{}, false
	}
	return *s.autoplay, true
}
