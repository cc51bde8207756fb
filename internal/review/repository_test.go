// AngelaMos | 2026
// repository_test.go

package review

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/cinecatalog/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

var reviewRowColumns = []string{
	"id", "user_id", "movie_id", "rating", "comment",
	"created_at", "updated_at", "username", "movie_title",
}

func TestRepository_CreateMapsConstraints(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		wantErr error
	}{
		{
			name:    "pair taken",
			pgErr:   &pgconn.PgError{Code: "23505", ConstraintName: "reviews_user_movie_key"},
			wantErr: ErrReviewAlreadyExists,
		},
		{
			name:    "movie gone",
			pgErr:   &pgconn.PgError{Code: "23503", ConstraintName: "reviews_movie_id_fkey"},
			wantErr: ErrMovieNotFound,
		},
		{
			name:    "user gone",
			pgErr:   &pgconn.PgError{Code: "23503", ConstraintName: "reviews_user_id_fkey"},
			wantErr: core.ErrForeignKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews")).
				WithArgs("u-ana", int64(7), 4, "good").
				WillReturnError(tt.pgErr)

			err := repo.Create(context.Background(), &Review{
				UserID: "u-ana", MovieID: 7, Rating: 4, Comment: "good",
			})
			require.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_CreateReturnsGeneratedFields(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("RETURNING id, created_at, updated_at")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(42), now, now))

	r := &Review{UserID: "u-ana", MovieID: 7, Rating: 4}
	require.NoError(t, repo.Create(context.Background(), r))
	assert.Equal(t, int64(42), r.ID)
	assert.Equal(t, now, r.CreatedAt)
}

func TestRepository_GetByIDJoinsNames(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN users u ON u.id = r.user_id")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(reviewRowColumns).AddRow(
			int64(42), "u-ana", int64(7), 4, "good", now, now, "ana", "Alien",
		))

	r, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "ana", r.Username)
	assert.Equal(t, "Alien", r.MovieTitle)
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM reviews r").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(reviewRowColumns))

	_, err := repo.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrReviewNotFound)
}

func TestRepository_UpdateRefreshesTimestamp(t *testing.T) {
	repo, mock := newMockRepo(t)
	later := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SET rating = $2, comment = $3, updated_at = NOW()")).
		WithArgs(int64(42), 2, "meh").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(later))

	r := &Review{ID: 42, Rating: 2, Comment: "meh"}
	require.NoError(t, repo.Update(context.Background(), r))
	assert.Equal(t, later, r.UpdatedAt)
}

func TestRepository_ListByMovie(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reviews r WHERE r.movie_id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $2 OFFSET $3")).
		WithArgs(int64(7), 20, 0).
		WillReturnRows(sqlmock.NewRows(reviewRowColumns).AddRow(
			int64(42), "u-ana", int64(7), 4, "good", now, now, "ana", "Alien",
		))

	reviews, total, err := repo.ListByMovie(context.Background(), 7, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, reviews, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AverageByMovie(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(AVG(rating), 0)::float8")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(3.5))

	avg, err := repo.AverageByMovie(context.Background(), 7)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, avg, 0.0001)
}

func TestRepository_DeleteMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), 42), ErrReviewNotFound)
}
