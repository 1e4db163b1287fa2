package profile

import "github.com/mmcdole/netkin/internal/domain"

// DefaultProfiles returns the set created on first use
func DefaultProfiles() domain.ProfileSet {
	return domain.ProfileSet{
		newProfile("1", "Viewer", "https://i.pravatar.cc/150?img=12", false),
		newProfile("2", "Kids", "https://i.pravatar.cc/150?img=5", true),
	}
}

func newProfile(id, name, avatar string, isKid bool) domain.Profile {
	p := domain.Profile{
		ID:        id,
		Name:      name,
		Avatar:    avatar,
		IsKid:     isKid,
		Watchlist: []string{},
		History:   []string{},
		Ratings:   map[string]int{},
		Progress:  map[string]float64{},
	}
	if isKid {
		p.MaxRating = domain.RatingPG
	}
	return p
}
