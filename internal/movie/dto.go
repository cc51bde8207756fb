// AngelaMos | 2026
// dto.go

package movie

import (
	"fmt"
	"time"

	"github.com/carterperez-dev/cinecatalog/internal/core"
)

const dateLayout = "2006-01-02"

type CreateMovieRequest struct {
	Title       string   `json:"title"       validate:"required,max=150"`
	Duration    int      `json:"duration"    validate:"required,gte=1,lte=600"`
	Genre       string   `json:"genre"       validate:"required,oneof=ACTION COMEDY DRAMA HORROR SCI_FI THRILLER ROMANCE ANIMATED ADVENTURE FANTASY MYSTERY CRIME DOCUMENTARY OTHER"`
	ReleaseDate *string  `json:"releaseDate" validate:"omitempty,datetime=2006-01-02"`
	Rating      *float64 `json:"rating"      validate:"omitempty,gte=0,lte=10"`
	Available   *bool    `json:"available"`
}

type UpdateMovieRequest struct {
	Title       string   `json:"title"       validate:"required,max=150"`
	ReleaseDate *string  `json:"releaseDate" validate:"omitempty,datetime=2006-01-02"`
	Rating      *float64 `json:"rating"      validate:"omitempty,gte=0,lte=10"`
}

type MovieResponse struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Duration      int      `json:"duration"`
	Genre         string   `json:"genre"`
	ReleaseDate   *string  `json:"releaseDate,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	Available     bool     `json:"available"`
	ReviewAverage float64  `json:"reviewAverage"`
	ReviewCount   int      `json:"reviewCount"`
}

type ListMoviesParams struct {
	Page      int
	PageSize  int
	Genre     string
	Available *bool
	Search    string
}

// maxPage bounds Page so Offset cannot overflow.
const maxPage = 100_000

func (p *ListMoviesParams) Normalize() {
	p.Page = min(max(p.Page, 1), maxPage)
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListMoviesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToMovieResponse(m *Movie) MovieResponse {
	resp := MovieResponse{
		ID:            m.ID,
		Title:         m.Title,
		Duration:      m.Duration,
		Genre:         m.Genre,
		Rating:        m.Rating,
		Available:     m.Available,
		ReviewAverage: m.ReviewAverage,
		ReviewCount:   m.ReviewCount,
	}

	if m.ReleaseDate != nil {
		s := m.ReleaseDate.Format(dateLayout)
		resp.ReleaseDate = &s
	}

	return resp
}

func ToMovieResponseList(movies []Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, ToMovieResponse(&m))
	}
	return out
}

// parseReleaseDate rejects dates after today in UTC.
func parseReleaseDate(s *string, now time.Time) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	d, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("release date %q: %w", *s, core.ErrInvalidInput)
	}

	today := now.UTC().Truncate(24 * time.Hour)
	if d.After(today) {
		return nil, fmt.Errorf("release date %q is in the future: %w", *s, core.ErrInvalidInput)
	}

	return &d, nil
}
