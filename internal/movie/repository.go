// AngelaMos | 2026
// repository.go

package movie

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/cinecatalog/internal/core"
)

type Repository interface {
	Create(ctx context.Context, movie *Movie) error
	GetByID(ctx context.Context, id int64) (*Movie, error)
	List(ctx context.Context, params ListMoviesParams) ([]Movie, int, error)
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectMovie = `
		SELECT m.id, m.title, m.duration, m.genre, m.release_date, m.rating,
		       m.available,
		       COALESCE(AVG(r.rating), 0)::float8 AS review_average,
		       COUNT(r.id) AS review_count
		FROM movies m
		LEFT JOIN reviews r ON r.movie_id = m.id`

func (r *repository) Create(ctx context.Context, movie *Movie) error {
	query := `
		INSERT INTO movies (title, duration, genre, release_date, rating, available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.GetContext(ctx, &movie.ID, query,
		movie.Title,
		movie.Duration,
		movie.Genre,
		movie.ReleaseDate,
		movie.Rating,
		movie.Available,
	)
	if err != nil {
		return fmt.Errorf("create movie: %w", core.TranslatePgError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Movie, error) {
	query := selectMovie + `
		WHERE m.id = $1
		GROUP BY m.id`

	var movie Movie
	err := r.db.GetContext(ctx, &movie, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get movie: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}

	return &movie, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListMoviesParams,
) ([]Movie, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Genre != "" {
		conditions = append(conditions, fmt.Sprintf("m.genre = $%d", argIdx))
		args = append(args, params.Genre)
		argIdx++
	}

	if params.Available != nil {
		conditions = append(conditions, fmt.Sprintf("m.available = $%d", argIdx))
		args = append(args, *params.Available)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("m.title ILIKE $%d", argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM movies m WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		GROUP BY m.id
		ORDER BY m.title
		LIMIT $%d OFFSET $%d`,
		selectMovie, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var movies []Movie
	if err := r.db.SelectContext(ctx, &movies, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}

	return movies, total, nil
}

func (r *repository) Update(ctx context.Context, movie *Movie) error {
	query := `
		UPDATE movies
		SET title = $2, release_date = $3, rating = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		movie.ID,
		movie.Title,
		movie.ReleaseDate,
		movie.Rating,
	)
	if err != nil {
		return fmt.Errorf("update movie: %w", core.TranslatePgError(err))
	}

	return expectOneRow(result, "update movie")
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	return expectOneRow(result, "delete movie")
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM movies WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("check movie exists: %w", err)
	}
	return exists, nil
}

func (r *repository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM movies WHERE title = $1)`, title)
	if err != nil {
		return false, fmt.Errorf("check title exists: %w", err)
	}
	return exists, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM movies`); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

func expectOneRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
