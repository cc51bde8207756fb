// AngelaMos | 2026
// entity.go

package movie

import (
	"time"
)

type Movie struct {
	ID          int64      `db:"id"`
	Title       string     `db:"title"`
	Duration    int        `db:"duration"`
	Genre       string     `db:"genre"`
	ReleaseDate *time.Time `db:"release_date"`
	Rating      *float64   `db:"rating"`
	Available   bool       `db:"available"`

	ReviewAverage float64 `db:"review_average"`
	ReviewCount   int     `db:"review_count"`
}

const (
	GenreAction      = "ACTION"
	GenreComedy      = "COMEDY"
	GenreDrama       = "DRAMA"
	GenreHorror      = "HORROR"
	GenreSciFi       = "SCI_FI"
	GenreThriller    = "THRILLER"
	GenreRomance     = "ROMANCE"
	GenreAnimated    = "ANIMATED"
	GenreAdventure   = "ADVENTURE"
	GenreFantasy     = "FANTASY"
	GenreMystery     = "MYSTERY"
	GenreCrime       = "CRIME"
	GenreDocumentary = "DOCUMENTARY"
	GenreOther       = "OTHER"
)

var Genres = []string{
	GenreAction, GenreComedy, GenreDrama, GenreHorror, GenreSciFi,
	GenreThriller, GenreRomance, GenreAnimated, GenreAdventure,
	GenreFantasy, GenreMystery, GenreCrime, GenreDocumentary, GenreOther,
}

func IsGenre(s string) bool {
	for _, g := range Genres {
		if g == s {
			return true
		}
	}
	return false
}
