// Package recommend derives browse rows from a profile and the catalog.
// Every function is pure: no side effects and no mutation of its inputs.
package recommend

import (
	"sort"
	"strings"

	"github.com/mmcdole/netkin/internal/domain"
)

// Default row sizes
const (
	DefaultWatchItAgainLimit = 8
	DefaultRecommendLimit    = 6
)

// ContinueWatching returns titles with progress > 0. Titles in history
// come first in history order; the rest are sorted by id.
func ContinueWatching(p domain.Profile, cat domain.Catalog) []domain.Movie {
	var out []domain.Movie
	seen := make(map[string]bool, len(p.Progress))

	for _, id := range p.History {
		if p.Progress[id] > 0 && !seen[id] {
			seen[id] = true
			out = appendResolved(out, cat, id)
		}
	}

	var rest []string
	for id, elapsed := range p.Progress {
		if elapsed > 0 && !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		out = appendResolved(out, cat, id)
	}
	return out
}

// WatchItAgain returns the first limit history entries that resolve.
// A limit <= 0 uses DefaultWatchItAgainLimit.
func WatchItAgain(p domain.Profile, cat domain.Catalog, limit int) []domain.Movie {
	if limit <= 0 {
		limit = DefaultWatchItAgainLimit
	}
	var out []domain.Movie
	for _, id := range p.History[:min(limit, len(p.History))] {
		out = appendResolved(out, cat, id)
	}
	return out
}

// RecommendedFor returns up to limit catalog titles sharing the genre of
// the most recently watched title, in catalog order, excluding that title.
// Empty history or an unresolvable head yields nothing.
func RecommendedFor(p domain.Profile, cat domain.Catalog, limit int) []domain.Movie {
	if len(p.History) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}

	seed, ok := cat.Lookup(p.History[0])
	if !ok {
		return nil
	}

	var out []domain.Movie
	for _, m := range cat.All() {
		if len(out) == limit {
			break
		}
		if m.ID == seed.ID || !strings.EqualFold(m.Genre, seed.Genre) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// BecauseYouWatched returns the title RecommendedFor is seeded from
func BecauseYouWatched(p domain.Profile, cat domain.Catalog) (domain.Movie, bool) {
	if len(p.History) == 0 {
		return domain.Movie{}, false
	}
	return cat.Lookup(p.History[0])
}

// MyList resolves the watchlist against the catalog
func MyList(p domain.Profile, cat domain.Catalog) []domain.Movie {
	var out []domain.Movie
	for _, id := range p.Watchlist {
		out = appendResolved(out, cat, id)
	}
	return out
}

func appendResolved(out []domain.Movie, cat domain.Catalog, id string) []domain.Movie {
	if m, ok := cat.Lookup(id); ok {
		return append(out, m)
	}
	return out
}
