package profile

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mmcdole/netkin/internal/domain"
)

// Store is the authoritative state for all profiles. Every mutation is
// applied in memory first and then written through to durable storage.
type Store struct {
	backend  domain.Store
	logger   *slog.Logger
	mu       sync.RWMutex
	profiles domain.ProfileSet
}

// NewStore creates a profile store over backend. Call LoadOrDefault before use.
func NewStore(backend domain.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend: backend,
		logger:  logger,
	}
}

// LoadOrDefault reads the stored profile set. Missing or malformed data
// yields the built-in defaults; it never fails.
func (s *Store) LoadOrDefault() domain.ProfileSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, found, err := s.backend.GetProfiles()
	switch {
	case err != nil:
		s.logger.Warn("stored profiles unreadable, using defaults", "error", err)
		profiles = nil
	case !found:
		s.logger.Debug("no stored profiles, using defaults")
	}

	if len(profiles) == 0 {
		profiles = DefaultProfiles()
		if legacy, ok := s.backend.GetLegacyWatchlist(); ok && len(legacy) > 0 {
			profiles[0].Watchlist = dedupe(legacy)
			s.logger.Info("seeded watchlist from legacy list", "count", len(profiles[0].Watchlist))
		}
	}

	s.profiles = normalize(profiles)
	return s.profiles.Clone()
}

// Profiles returns a copy of the current set
func (s *Store) Profiles() domain.ProfileSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles.Clone()
}

// Select returns the profile with id. It does not mutate.
func (s *Store) Select(profileID string) (domain.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.profiles.Find(profileID)
	if i < 0 {
		return domain.Profile{}, false
	}
	return s.profiles[i].Clone(), true
}

// Update applies f to exactly one profile and writes the full set.
// An unknown id returns the set unchanged without writing. A non-nil error
// wraps domain.ErrNotDurable: memory is updated but the write failed.
func (s *Store) Update(profileID string, f func(domain.Profile) domain.Profile) (domain.ProfileSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.profiles.Find(profileID)
	if i < 0 {
		return s.profiles.Clone(), nil
	}

	updated := f(s.profiles[i].Clone())
	updated.ID = profileID
	if checkInvariants {
		mustHold(updated)
	}
	s.profiles[i] = updated

	return s.profiles.Clone(), s.persist()
}

// ToggleWatchlist removes movieID if present, otherwise prepends it.
func (s *Store) ToggleWatchlist(profileID, movieID string) (added bool, err error) {
	p, ok := s.Select(profileID)
	if !ok {
		return false, domain.ErrProfileNotFound
	}
	added = !p.InWatchlist(movieID)
	_, err = s.Update(profileID, ToggleWatchlist(movieID))
	return added, err
}

// RecordProgress stores elapsed seconds, or clears progress once the
// title is finished. Either way movieID becomes the head of history.
func (s *Store) RecordProgress(profileID, movieID string, elapsed, duration float64) error {
	if duration <= 0 {
		return nil
	}
	_, err := s.Update(profileID, RecordProgress(movieID, elapsed, duration))
	return err
}

// SetRating stores stars (1..5) for movieID; last write wins.
func (s *Store) SetRating(profileID, movieID string, stars int) error {
	if stars < 1 || stars > 5 {
		return domain.ErrInvalidRating
	}
	_, err := s.Update(profileID, SetRating(movieID, stars))
	return err
}

// AddProfile appends a new empty profile
func (s *Store) AddProfile(name string, isKid bool) (domain.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "New Profile"
	}
	p := newProfile(uuid.NewString(), name, "", isKid)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append(s.profiles, p)
	return p.Clone(), s.persist()
}

// persist writes the full set; callers hold s.mu
func (s *Store) persist() error {
	if err := s.backend.SaveProfiles(s.profiles); err != nil {
		s.logger.Warn("failed to persist profiles", "error", err)
		return fmt.Errorf("%w: %v", domain.ErrNotDurable, err)
	}
	return nil
}

// normalize fills nil collections and repairs stored data: duplicated ids
// are collapsed, out-of-range ratings and non-positive progress dropped
func normalize(set domain.ProfileSet) domain.ProfileSet {
	out := make(domain.ProfileSet, 0, len(set))
	for _, p := range set {
		if p.ID == "" {
			continue
		}
		p = p.Clone()
		p.Watchlist = dedupe(p.Watchlist)
		p.History = dedupe(p.History)
		for id, stars := range p.Ratings {
			if stars < 1 || stars > 5 {
				delete(p.Ratings, id)
			}
		}
		for id, offset := range p.Progress {
			if offset <= 0 {
				delete(p.Progress, id)
			}
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return DefaultProfiles()
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// mustHold panics when a transformation broke a profile invariant
func mustHold(p domain.Profile) {
	if id, ok := duplicate(p.Watchlist); ok {
		panic(fmt.Sprintf("profile %s: watchlist holds %q twice", p.ID, id))
	}
	if id, ok := duplicate(p.History); ok {
		panic(fmt.Sprintf("profile %s: history holds %q twice", p.ID, id))
	}
	for id, stars := range p.Ratings {
		if stars < 1 || stars > 5 {
			panic(fmt.Sprintf("profile %s: rating %d for %q out of range", p.ID, stars, id))
		}
	}
}
