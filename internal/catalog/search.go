package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/netkin/internal/domain"
	sfuzzy "github.com/sahilm/fuzzy"
)

// titleIndex implements sahilm/fuzzy.Source over pre-lowered titles
type titleIndex struct {
	titles      []domain.Movie
	lowerTitles []string
}

func newTitleIndex(titles []domain.Movie) *titleIndex {
	idx := &titleIndex{
		titles:      titles,
		lowerTitles: make([]string, len(titles)),
	}
	for i, m := range titles {
		idx.lowerTitles[i] = strings.ToLower(m.Title)
	}
	return idx
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (t *titleIndex) String(i int) string { return t.lowerTitles[i] }

// Len returns the number of titles (implements fuzzy.Source)
func (t *titleIndex) Len() int { return len(t.lowerTitles) }

// SearchResult is a matched title with highlight positions
type SearchResult struct {
	Movie          domain.Movie
	MatchedIndexes []int
	Score          int // Higher is better
}

// Search ranks titles against query. Ties keep catalog order.
func (i *Index) Search(query string) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || i.search.Len() == 0 {
		return nil
	}

	matches := sfuzzy.FindFrom(query, i.search)
	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].Score != matches[b].Score {
			return matches[a].Score > matches[b].Score
		}
		return matches[a].Index < matches[b].Index
	})

	results := make([]SearchResult, len(matches))
	for n, m := range matches {
		results[n] = SearchResult{
			Movie:          i.search.titles[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// MatchGenre returns the known genre closest to query ("scifi" -> "SCI-FI").
func MatchGenre(query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}
	for _, g := range Genres {
		if strings.EqualFold(g, query) {
			return g, true
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(query, Genres)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return ranks[0].Target, true
}
