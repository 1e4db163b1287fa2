package domain

import "strings"

// ContentRating is a certification label such as "PG-13" or "TV-MA"
type ContentRating string

const (
	RatingG    ContentRating = "G"
	RatingPG   ContentRating = "PG"
	RatingPG13 ContentRating = "PG-13"
	RatingTV14 ContentRating = "TV-14"
	RatingR    ContentRating = "R"
	RatingTVMA ContentRating = "TV-MA"
	RatingNC17 ContentRating = "NC-17"
)

// ratingOrder is the fixed total order used by the parental gate
var ratingOrder = []ContentRating{
	RatingG,
	RatingPG,
	RatingPG13,
	RatingTV14,
	RatingR,
	RatingTVMA,
	RatingNC17,
}

// RankUnrated is the rank of a title with no content rating
const RankUnrated = -1

// rankUnknown sits above NC-17 so unrecognised labels are always gated
var rankUnknown = len(ratingOrder)

// Normalize upper-cases and trims the label
func (r ContentRating) Normalize() ContentRating {
	return ContentRating(strings.ToUpper(strings.TrimSpace(string(r))))
}

// Rank returns the position of r in the gate ordering
func (r ContentRating) Rank() int {
	n := r.Normalize()
	if n == "" {
		return RankUnrated
	}
	for i, known := range ratingOrder {
		if n == known {
			return i
		}
	}
	return rankUnknown
}

// Known reports whether r is one of the ordered ratings
func (r ContentRating) Known() bool {
	rank := r.Rank()
	return rank >= 0 && rank < rankUnknown
}

// Exceeds reports whether r ranks above limit.
// An empty limit means unrestricted; an unrecognised limit admits only
// unrated titles.
func (r ContentRating) Exceeds(limit ContentRating) bool {
	if limit.Normalize() == "" {
		return false
	}
	if !limit.Known() {
		return r.Rank() != RankUnrated
	}
	return r.Rank() > limit.Rank()
}

// ContentRatings returns the ordered list of known ratings
func ContentRatings() []ContentRating {
	out := make([]ContentRating, len(ratingOrder))
	copy(out, ratingOrder)
	return out
}
