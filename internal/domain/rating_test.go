package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentRatingRankOrder(t *testing.T) {
	ratings := ContentRatings()
	for i := 1; i < len(ratings); i++ {
		assert.Less(t, ratings[i-1].Rank(), ratings[i].Rank(), "%s should rank below %s", ratings[i-1], ratings[i])
	}
}

func TestContentRatingNormalize(t *testing.T) {
	assert.Equal(t, RatingPG13.Rank(), ContentRating(" pg-13 ").Rank())
	assert.True(t, ContentRating("tv-ma").Known())
}

func TestContentRatingExceeds(t *testing.T) {
	tests := []struct {
		name   string
		rating ContentRating
		limit  ContentRating
		want   bool
	}{
		{"R above PG-13", RatingR, RatingPG13, true},
		{"PG within PG-13", RatingPG, RatingPG13, false},
		{"equal rank allowed", RatingPG13, RatingPG13, false},
		{"no limit", RatingNC17, "", false},
		{"unrated allowed", "", RatingG, false},
		{"unknown label gated", "X-RATED", RatingNC17, true},
		{"unrecognised limit gates rated", RatingG, "PG13X", true},
		{"unrecognised limit admits unrated", "", "PG13X", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rating.Exceeds(tt.limit))
		})
	}
}

func TestProfileCloneDoesNotAlias(t *testing.T) {
	p := Profile{
		ID:        "p1",
		Watchlist: []string{"m1"},
		Ratings:   map[string]int{"m1": 3},
		Progress:  map[string]float64{"m1": 12},
	}
	c := p.Clone()
	c.Watchlist[0] = "m2"
	c.Ratings["m1"] = 5
	c.Progress["m1"] = 99

	assert.Equal(t, "m1", p.Watchlist[0])
	assert.Equal(t, 3, p.Ratings["m1"])
	assert.Equal(t, 12.0, p.Progress["m1"])
	assert.NotNil(t, Profile{}.Clone().History)
}
