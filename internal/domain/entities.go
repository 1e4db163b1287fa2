package domain

import (
	"fmt"
	"slices"
	"time"
)

// MediaKind distinguishes catalog content types
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindShow  MediaKind = "show"
)

// Movie is a read-only catalog entry (movie or TV show)
type Movie struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Genre           string        `json:"genre"`
	Year            string        `json:"year"`
	Author          string        `json:"author"`
	Rating          string        `json:"rating"`                  // Global score, e.g. "8.5"
	ContentRating   ContentRating `json:"contentRating,omitempty"` // e.g. "PG-13"
	DurationSeconds float64       `json:"durationSeconds,omitempty"`
	Kind            MediaKind     `json:"kind,omitempty"`
	Image           string        `json:"image,omitempty"`
}

// Duration returns the runtime, or fallback when the catalog has none
func (m Movie) Duration(fallback time.Duration) time.Duration {
	if m.DurationSeconds > 0 {
		return time.Duration(m.DurationSeconds * float64(time.Second))
	}
	return fallback
}

// FormattedDuration returns the runtime in the "2H 44MIN" form
func FormattedDuration(d time.Duration) string {
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dH %dMIN", h, mins)
	}
	return fmt.Sprintf("%dMIN", mins)
}

// User is the signed-in account identity (sign-in is a local stub)
type User struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Profile is one viewer identity slot and its viewing state
type Profile struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Avatar    string             `json:"avatar"`
	IsKid     bool               `json:"isKid"`
	MaxRating ContentRating      `json:"maxRating,omitempty"`
	Watchlist []string           `json:"watchlist"` // Most recently added first
	History   []string           `json:"history"`   // Most recently watched first
	Ratings   map[string]int     `json:"ratings"`   // Movie ID -> 1..5
	Progress  map[string]float64 `json:"progress"`  // Movie ID -> seconds watched
}

// Clone returns a deep copy so transformations never alias stored state
func (p Profile) Clone() Profile {
	c := p
	c.Watchlist = slices.Clone(p.Watchlist)
	c.History = slices.Clone(p.History)
	c.Ratings = make(map[string]int, len(p.Ratings))
	for k, v := range p.Ratings {
		c.Ratings[k] = v
	}
	c.Progress = make(map[string]float64, len(p.Progress))
	for k, v := range p.Progress {
		c.Progress[k] = v
	}
	if c.Watchlist == nil {
		c.Watchlist = []string{}
	}
	if c.History == nil {
		c.History = []string{}
	}
	return c
}

// InWatchlist reports whether movieID is queued
func (p Profile) InWatchlist(movieID string) bool {
	return slices.Contains(p.Watchlist, movieID)
}

// RatingFor returns the stars given to movieID, 0 when unrated
func (p Profile) RatingFor(movieID string) int {
	return p.Ratings[movieID]
}

// ProgressFor returns elapsed seconds for a partially watched title
func (p Profile) ProgressFor(movieID string) (float64, bool) {
	v, ok := p.Progress[movieID]
	return v, ok
}

// ProfileSet is the ordered set of profiles, persisted as a whole
type ProfileSet []Profile

// Find returns the index of the profile with id, or -1
func (s ProfileSet) Find(id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone deep-copies every profile in the set
func (s ProfileSet) Clone() ProfileSet {
	out := make(ProfileSet, len(s))
	for i, p := range s {
		out[i] = p.Clone()
	}
	return out
}

// NotificationKind classifies a user-facing notification
type NotificationKind int

const (
	NotifySuccess NotificationKind = iota
	NotifyError
)

// String returns the kind name
func (k NotificationKind) String() string {
	switch k {
	case NotifySuccess:
		return "success"
	case NotifyError:
		return "error"
	default:
		return "unknown"
	}
}
