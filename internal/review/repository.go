// AngelaMos | 2026
// repository.go

package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/cinecatalog/internal/core"
)

const (
	userMovieConstraint = "reviews_user_movie_key"
	movieFKConstraint   = "reviews_movie_id_fkey"
)

type Repository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id int64) (*Review, error)
	GetByUserAndMovie(ctx context.Context, userID string, movieID int64) (*Review, error)
	ExistsByUserAndMovie(ctx context.Context, userID string, movieID int64) (bool, error)
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id int64) error
	ListByMovie(ctx context.Context, movieID int64, params ListParams) ([]Review, int, error)
	ListByUser(ctx context.Context, userID string, params ListParams) ([]Review, int, error)
	AverageByMovie(ctx context.Context, movieID int64) (float64, error)
	CountByMovie(ctx context.Context, movieID int64) (int, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectReview = `
		SELECT r.id, r.user_id, r.movie_id, r.rating, r.comment,
		       r.created_at, r.updated_at,
		       u.username, m.title AS movie_title
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		JOIN movies m ON m.id = r.movie_id`

// Create inserts the review. The (user_id, movie_id) unique constraint is
// the authority on duplicates; a vanished movie surfaces as its foreign key.
func (r *repository) Create(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (user_id, movie_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		review.UserID,
		review.MovieID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create review: %w", constraintError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Review, error) {
	var review Review
	err := r.db.GetContext(ctx, &review, selectReview+` WHERE r.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get review: %w", ErrReviewNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &review, nil
}

func (r *repository) GetByUserAndMovie(
	ctx context.Context,
	userID string,
	movieID int64,
) (*Review, error) {
	var review Review
	err := r.db.GetContext(ctx, &review,
		selectReview+` WHERE r.user_id = $1 AND r.movie_id = $2`,
		userID, movieID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get review: %w", ErrReviewNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &review, nil
}

func (r *repository) ExistsByUserAndMovie(
	ctx context.Context,
	userID string,
	movieID int64,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE user_id = $1 AND movie_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, movieID); err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}

	return exists, nil
}

func (r *repository) Update(ctx context.Context, review *Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &review.UpdatedAt, query,
		review.ID,
		review.Rating,
		review.Comment,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update review: %w", ErrReviewNotFound)
	}
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete review: %w", ErrReviewNotFound)
	}

	return nil
}

func (r *repository) ListByMovie(
	ctx context.Context,
	movieID int64,
	params ListParams,
) ([]Review, int, error) {
	return r.list(ctx, "r.movie_id = $1", movieID, params)
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
	params ListParams,
) ([]Review, int, error) {
	return r.list(ctx, "r.user_id = $1", userID, params)
}

func (r *repository) list(
	ctx context.Context,
	where string,
	arg any,
	params ListParams,
) ([]Review, int, error) {
	params.Normalize()

	var total int
	countQuery := `SELECT COUNT(*) FROM reviews r WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, arg); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := selectReview + `
		WHERE ` + where + `
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2 OFFSET $3`

	var reviews []Review
	err := r.db.SelectContext(ctx, &reviews, query, arg, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, total, nil
}

func (r *repository) AverageByMovie(ctx context.Context, movieID int64) (float64, error) {
	query := `SELECT COALESCE(AVG(rating), 0)::float8 FROM reviews WHERE movie_id = $1`

	var avg float64
	if err := r.db.GetContext(ctx, &avg, query, movieID); err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}

	return avg, nil
}

func (r *repository) CountByMovie(ctx context.Context, movieID int64) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM reviews WHERE movie_id = $1`, movieID)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}

	return n, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM reviews`); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}

	return n, nil
}

func constraintError(err error) error {
	translated := core.TranslatePgError(err)

	switch {
	case errors.Is(translated, core.ErrDuplicateKey) &&
		core.ConstraintName(err) == userMovieConstraint:
		return ErrReviewAlreadyExists
	case errors.Is(translated, core.ErrForeignKey) &&
		core.ConstraintName(err) == movieFKConstraint:
		return ErrMovieNotFound
	default:
		return translated
	}
}
