package playback

import (
	"time"

	"github.com/mmcdole/netkin/internal/domain"
)

// State is the playback lifecycle position of a session
type State int

const (
	StateOverview State = iota // Title details, no playback side effects
	StateLocked                // Waiting for the parental PIN
	StateLoading               // Simulated buffering
	StatePlaying               // Active playback (NextUp is an overlay)
)

// String returns a human-readable representation of the state
func (s State) String() string {
	switch s {
	case StateOverview:
		return "overview"
	case StateLocked:
		return "locked"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Config holds timing and gating parameters shared by all sessions
type Config struct {
	LoadInterval      time.Duration // Between loading ticks
	MaxLoadStep       int           // Upper bound of one loading increment
	TickInterval      time.Duration // Playback clock resolution
	CountdownInterval time.Duration // Between NextUp countdown ticks
	NextUpThreshold   time.Duration // Remaining time that shows NextUp
	NextUpCountdown   int           // Countdown ticks before autoplay
	DefaultDuration   time.Duration // Runtime for titles without one
	PIN               string        // Parental unlock PIN
	KidMaxRating      domain.ContentRating
}

// DefaultConfig returns the stock timings
func DefaultConfig() Config {
	return Config{
		LoadInterval:      30 * time.Millisecond,
		MaxLoadStep:       7,
		TickInterval:      time.Second,
		CountdownInterval: time.Second,
		NextUpThreshold:   10 * time.Second,
		NextUpCountdown:   10,
		DefaultDuration:   2*time.Hour + 44*time.Minute,
		PIN:               "1234",
		KidMaxRating:      domain.RatingPG,
	}
}

// withDefaults fills zero fields from DefaultConfig
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.LoadInterval <= 0 {
		c.LoadInterval = d.LoadInterval
	}
	if c.MaxLoadStep <= 0 {
		c.MaxLoadStep = d.MaxLoadStep
	}
	if c.TickInterval <= 0 {
		c.TickInterval = d.TickInterval
	}
	if c.CountdownInterval <= 0 {
		c.CountdownInterval = d.CountdownInterval
	}
	if c.NextUpThreshold <= 0 {
		c.NextUpThreshold = d.NextUpThreshold
	}
	if c.NextUpCountdown <= 0 {
		c.NextUpCountdown = d.NextUpCountdown
	}
	if c.DefaultDuration <= 0 {
		c.DefaultDuration = d.DefaultDuration
	}
	if c.PIN == "" {
		c.PIN = d.PIN
	}
	return c
}

// MaxRatingFor returns the limit the gate applies to p. Empty means
// unrestricted.
func (c Config) MaxRatingFor(p domain.Profile) domain.ContentRating {
	if p.MaxRating != "" {
		return p.MaxRating
	}
	if p.IsKid {
		return c.KidMaxRating
	}
	return ""
}

// Gated reports whether m needs the PIN before p may watch it
func (c Config) Gated(p domain.Profile, m domain.Movie) bool {
	return m.ContentRating.Exceeds(c.MaxRatingFor(p))
}
