// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/carterperez-dev/cinecatalog/internal/core"
)

var (
	ErrReviewNotFound      = fmt.Errorf("review: %w", core.ErrNotFound)
	ErrMovieNotFound       = fmt.Errorf("movie: %w", core.ErrNotFound)
	ErrReviewAlreadyExists = fmt.Errorf("review for movie: %w", core.ErrDuplicateKey)
	ErrNotReviewAuthor     = fmt.Errorf("not the review author: %w", core.ErrForbidden)
)

type MovieChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service guards review writes. Only the author may change or remove a
// review, whatever their role, and one account holds at most one review
// per movie.
type Service struct {
	repo   Repository
	movies MovieChecker
}

func NewService(repo Repository, movies MovieChecker) *Service {
	return &Service{repo: repo, movies: movies}
}

// Create checks the movie and the (user, movie) pair before inserting. The
// pre-check is a fast path only; the unique constraint settles races.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateReviewRequest,
) (*Review, error) {
	if userID == "" {
		return nil, fmt.Errorf("create review: %w", core.ErrUnauthorized)
	}

	comment := strings.TrimSpace(req.Comment)
	if err := validate(req.Rating, comment); err != nil {
		return nil, err
	}

	exists, err := s.movies.Exists(ctx, req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	if !exists {
		return nil, ErrMovieNotFound
	}

	taken, err := s.repo.ExistsByUserAndMovie(ctx, userID, req.MovieID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrReviewAlreadyExists
	}

	review := &Review{
		UserID:  userID,
		MovieID: req.MovieID,
		Rating:  req.Rating,
		Comment: comment,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		switch {
		case errors.Is(err, ErrReviewAlreadyExists):
			return nil, ErrReviewAlreadyExists
		case errors.Is(err, ErrMovieNotFound):
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	return s.repo.GetByID(ctx, review.ID)
}

func (s *Service) Update(
	ctx context.Context,
	userID string,
	reviewID int64,
	req UpdateReviewRequest,
) (*Review, error) {
	review, err := s.authored(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = strings.TrimSpace(*req.Comment)
	}

	if err := validate(review.Rating, review.Comment); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *Service) Delete(ctx context.Context, userID string, reviewID int64) error {
	if _, err := s.authored(ctx, userID, reviewID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, reviewID)
}

func (s *Service) authored(
	ctx context.Context,
	userID string,
	reviewID int64,
) (*Review, error) {
	if userID == "" {
		return nil, fmt.Errorf("review %d: %w", reviewID, core.ErrUnauthorized)
	}

	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if !review.IsAuthoredBy(userID) {
		return nil, ErrNotReviewAuthor
	}

	return review, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Review, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUserAndMovie(
	ctx context.Context,
	userID string,
	movieID int64,
) (*Review, error) {
	return s.repo.GetByUserAndMovie(ctx, userID, movieID)
}

func (s *Service) ListByMovie(
	ctx context.Context,
	movieID int64,
	params ListParams,
) ([]Review, int, error) {
	return s.repo.ListByMovie(ctx, movieID, params)
}

func (s *Service) ListByUser(
	ctx context.Context,
	userID string,
	params ListParams,
) ([]Review, int, error) {
	return s.repo.ListByUser(ctx, userID, params)
}

func (s *Service) AverageByMovie(ctx context.Context, movieID int64) (float64, error) {
	return s.repo.AverageByMovie(ctx, movieID)
}

func (s *Service) CountByMovie(ctx context.Context, movieID int64) (int, error) {
	return s.repo.CountByMovie(ctx, movieID)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func validate(rating int, comment string) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf(
			"rating %d outside [%d, %d]: %w",
			rating, MinRating, MaxRating,
			core.ErrInvalidInput,
		)
	}

	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return fmt.Errorf(
			"comment longer than %d characters: %w",
			MaxCommentLength,
			core.ErrInvalidInput,
		)
	}

	return nil
}
