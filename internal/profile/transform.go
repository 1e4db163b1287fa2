package profile

import (
	"slices"

	"github.com/mmcdole/netkin/internal/domain"
)

// CompletionRatio is the elapsed/duration share at which a title counts
// as finished.
const CompletionRatio = 0.95

// promote moves id to the front of ids, dropping any other occurrence
func promote(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, id)
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// remove drops every occurrence of id
func remove(ids []string, id string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
}

// ToggleWatchlist removes movieID if queued, otherwise prepends it.
func ToggleWatchlist(movieID string) func(domain.Profile) domain.Profile {
	return func(p domain.Profile) domain.Profile {
		if p.InWatchlist(movieID) {
			p.Watchlist = remove(p.Watchlist, movieID)
		} else {
			p.Watchlist = promote(p.Watchlist, movieID)
		}
		return p
	}
}

// Finished reports whether elapsed/duration has reached CompletionRatio
func Finished(elapsed, duration float64) bool {
	return duration > 0 && elapsed/duration >= CompletionRatio
}

// RecordProgress applies the completion rule and promotes movieID in history.
func RecordProgress(movieID string, elapsed, duration float64) func(domain.Profile) domain.Profile {
	return func(p domain.Profile) domain.Profile {
		if duration <= 0 {
			return p
		}
		elapsed = max(0, min(elapsed, duration))

		if p.Progress == nil {
			p.Progress = make(map[string]float64)
		}
		if Finished(elapsed, duration) {
			delete(p.Progress, movieID)
		} else {
			p.Progress[movieID] = elapsed
		}
		p.History = promote(p.History, movieID)
		return p
	}
}

// SetRating stores stars for movieID, replacing any earlier rating.
func SetRating(movieID string, stars int) func(domain.Profile) domain.Profile {
	return func(p domain.Profile) domain.Profile {
		if p.Ratings == nil {
			p.Ratings = make(map[string]int)
		}
		p.Ratings[movieID] = stars
		return p
	}
}

// duplicate returns the first id that appears twice in ids
func duplicate(ids []string) (string, bool) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return "", false
}
