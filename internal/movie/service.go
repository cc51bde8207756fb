// AngelaMos | 2026
// service.go

package movie

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/cinecatalog/internal/core"
)

var (
	ErrMovieNotFound = fmt.Errorf("movie: %w", core.ErrNotFound)
	ErrTitleExists   = fmt.Errorf("movie title: %w", core.ErrDuplicateKey)
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id int64) (*Movie, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (s *Service) List(
	ctx context.Context,
	params ListMoviesParams,
) ([]Movie, int, error) {
	return s.repo.List(ctx, params)
}

// Create adds a movie. The title pre-check only avoids a round trip; the
// unique constraint is what rejects concurrent duplicates.
func (s *Service) Create(ctx context.Context, req CreateMovieRequest) (*Movie, error) {
	if !IsGenre(req.Genre) {
		return nil, fmt.Errorf("genre %q: %w", req.Genre, core.ErrInvalidInput)
	}

	releaseDate, err := parseReleaseDate(req.ReleaseDate, s.now())
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	taken, err := s.repo.ExistsByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrTitleExists
	}

	m := &Movie{
		Title:       title,
		Duration:    req.Duration,
		Genre:       req.Genre,
		ReleaseDate: releaseDate,
		Rating:      req.Rating,
		Available:   true,
	}
	if req.Available != nil {
		m.Available = *req.Available
	}

	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrTitleExists
		}
		return nil, err
	}

	return m, nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateMovieRequest,
) (*Movie, error) {
	releaseDate, err := parseReleaseDate(req.ReleaseDate, s.now())
	if err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	title := strings.TrimSpace(req.Title)
	if title != m.Title {
		taken, err := s.repo.ExistsByTitle(ctx, title)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrTitleExists
		}
	}

	m.Title = title
	m.ReleaseDate = releaseDate
	m.Rating = req.Rating

	if err := s.repo.Update(ctx, m); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrTitleExists
		}
		return nil, notFound(err)
	}

	return m, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

// Exists reports whether a movie with the id is stored.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func notFound(err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return ErrMovieNotFound
	}
	return err
}
