package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mmcdole/netkin/internal/domain"
)

// Index is an in-memory, read-only catalog. It implements domain.Catalog.
type Index struct {
	titles []domain.Movie
	byID   map[string]int

	search *titleIndex
}

// NewIndex builds an index preserving the order of titles. Later duplicates
// of an id are dropped.
func NewIndex(titles []domain.Movie) *Index {
	idx := &Index{byID: make(map[string]int, len(titles))}
	for _, m := range titles {
		if m.ID == "" {
			continue
		}
		if _, dup := idx.byID[m.ID]; dup {
			continue
		}
		if m.Kind == "" {
			m.Kind = domain.KindMovie
		}
		m.ContentRating = m.ContentRating.Normalize()
		idx.byID[m.ID] = len(idx.titles)
		idx.titles = append(idx.titles, m)
	}
	idx.search = newTitleIndex(idx.titles)
	return idx
}

// LoadFile reads a JSON array of titles from path
func LoadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var titles []domain.Movie
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("catalog %s has no titles", path)
	}
	return NewIndex(titles), nil
}

// Lookup returns the title with id
func (i *Index) Lookup(id string) (domain.Movie, bool) {
	pos, ok := i.byID[id]
	if !ok {
		return domain.Movie{}, false
	}
	return i.titles[pos], true
}

// All returns every title in catalog order
func (i *Index) All() []domain.Movie {
	out := make([]domain.Movie, len(i.titles))
	copy(out, i.titles)
	return out
}

// Movies returns only movie titles
func (i *Index) Movies() []domain.Movie {
	return i.ofKind(domain.KindMovie)
}

// Shows returns only TV show titles
func (i *Index) Shows() []domain.Movie {
	return i.ofKind(domain.KindShow)
}

func (i *Index) ofKind(kind domain.MediaKind) []domain.Movie {
	var out []domain.Movie
	for _, m := range i.titles {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// ByGenre filters titles case-insensitively. An empty genre or
// "All Genres" returns the input unchanged.
func ByGenre(titles []domain.Movie, genre string) []domain.Movie {
	if genre == "" || strings.EqualFold(genre, "All Genres") {
		return titles
	}
	var out []domain.Movie
	for _, m := range titles {
		if strings.EqualFold(m.Genre, genre) {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of titles
func (i *Index) Len() int { return len(i.titles) }

// Compile-time interface check
var _ domain.Catalog = (*Index)(nil)
