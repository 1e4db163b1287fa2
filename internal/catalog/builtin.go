package catalog

import "github.com/mmcdole/netkin/internal/domain"

// Genres is the browse list shown in the catalog sidebar
var Genres = []string{
	"POPULAR", "ACTION", "ADVENTURE", "ANIMATION", "BIOGRAPHY", "COMEDY",
	"CRIME", "DOCUMENTARY", "DRAMA", "FAMILY", "FANTASY", "FILM-NOIR",
	"HISTORY", "HORROR", "MUSIC", "MUSICAL", "MYSTERY", "ROMANCE",
	"SCI-FI", "SHORT", "THRILL", "WAR", "WESTERN",
}

func movie(id, title, genre, year, author, rating string, cr domain.ContentRating, minutes int) domain.Movie {
	return domain.Movie{
		ID:              id,
		Title:           title,
		Genre:           genre,
		Year:            year,
		Author:          author,
		Rating:          rating,
		ContentRating:   cr,
		DurationSeconds: float64(minutes * 60),
		Kind:            domain.KindMovie,
	}
}

func show(id, title, genre, year, author, rating string, cr domain.ContentRating, minutes int) domain.Movie {
	m := movie(id, title, genre, year, author, rating, cr, minutes)
	m.Kind = domain.KindShow
	return m
}

// builtinTitles is the bundled catalog in display order
var builtinTitles = []domain.Movie{
	movie("l1", "The Fair Weather Felon", "DOCUMENTARY", "2018", "Johannes Doe", "8.5", domain.RatingPG, 164),
	movie("l2", "The Hitman", "DRAMA", "2018", "Johannes Doe", "7.9", domain.RatingR, 118),
	movie("l3", "Paper Lanterns", "SHORT", "2018", "Mira Holt", "8.1", domain.RatingG, 22),
	movie("p1", "Northern Passage", "ADVENTURE", "2019", "Ilse Brandt", "8.5", domain.RatingPG13, 131),
	movie("p2", "Iron Orchard", "ACTION", "2021", "Dax Mercer", "7.4", domain.RatingR, 124),
	movie("p3", "The Lost Umbrella", "COMEDY", "2017", "June Okafor", "7.1", domain.RatingPG, 96),
	movie("p4", "Scorpion Country", "DOCUMENTARY", "2020", "Johannes Doe", "8.3", domain.RatingPG, 88),
	movie("a1", "Redline Protocol", "ACTION", "2022", "Dax Mercer", "7.0", domain.RatingPG13, 112),
	movie("a2", "Harbor Lights", "ACTION", "2016", "Ana Ruiz", "6.8", domain.RatingPG13, 105),
	movie("a3", "Last Stand at Verity", "ACTION", "2019", "Tom Calder", "7.7", domain.RatingR, 127),
	movie("a4", "Glass Runner", "ACTION", "2023", "Ana Ruiz", "7.2", domain.RatingTV14, 98),
	movie("a5", "Crimson Tide Rising", "ACTION", "2015", "Tom Calder", "6.5", domain.RatingNC17, 133),
	movie("a6", "Steel Horizon", "ACTION", "2020", "Dax Mercer", "7.9", domain.RatingPG13, 119),
	movie("a7", "Night Convoy", "ACTION", "2024", "Lena Voss", "7.3", domain.RatingR, 110),
	movie("adv1", "Beyond the Dunes", "ADVENTURE", "2018", "Ilse Brandt", "8.0", domain.RatingPG, 141),
	movie("adv2", "The Cartographer", "ADVENTURE", "2014", "Omar Haddad", "7.6", domain.RatingPG, 126),
	movie("adv3", "Kingdom of Moss", "ADVENTURE", "2021", "Mira Holt", "7.8", domain.RatingG, 93),
	movie("adv4", "Wild River", "ADVENTURE", "2012", "Omar Haddad", "6.9", domain.RatingPG13, 108),
	movie("c1", "Midnight Ledger", "CRIME", "2019", "Hale Winters", "7.5", domain.RatingR, 121),
	movie("c2", "The Quiet Heist", "CRIME", "2022", "Hale Winters", "7.1", domain.RatingPG13, 115),
	movie("c3", "Static Bloom", "SCI-FI", "2023", "Priya Anand", "8.2", domain.RatingPG13, 137),
	movie("c4", "Orbiter", "SCI-FI", "2017", "Priya Anand", "7.4", domain.RatingPG, 102),
	movie("c5", "The Hollow House", "HORROR", "2020", "Eli Marsh", "6.7", domain.RatingTVMA, 94),
	movie("c6", "Sunday Waltz", "ROMANCE", "2016", "June Okafor", "7.0", domain.RatingPG, 109),
	movie("c7", "Little Comet", "ANIMATION", "2022", "Mira Holt", "7.9", domain.RatingG, 84),
	movie("c8", "Backyard Dragons", "FAMILY", "2019", "Mira Holt", "7.2", domain.RatingG, 91),
	show("t1", "The Long Watch", "DRAMA", "2021", "Ana Ruiz", "8.6", domain.RatingTVMA, 52),
	show("t2", "Harbor Street", "CRIME", "2019", "Hale Winters", "8.0", domain.RatingTV14, 47),
	show("t3", "Tiny Explorers", "ANIMATION", "2020", "Mira Holt", "7.8", domain.RatingG, 24),
	show("t4", "Signal Lost", "SCI-FI", "2023", "Priya Anand", "8.3", domain.RatingTV14, 55),
	show("t5", "Kitchen Confidential", "COMEDY", "2018", "June Okafor", "7.5", domain.RatingTV14, 28),
	show("t6", "Frontier Tales", "WESTERN", "2015", "Tom Calder", "7.1", domain.RatingTVMA, 49),
}

// Builtin returns an index over the bundled titles
func Builtin() *Index {
	return NewIndex(builtinTitles)
}
