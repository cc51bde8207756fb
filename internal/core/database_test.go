// AngelaMos | 2026
// database_test.go

package core

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/cinecatalog/internal/config"
)

func TestTranslatePgError(t *testing.T) {
	t.Parallel()

	plain := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, ErrDuplicateKey},
		{"foreign key", &pgconn.PgError{Code: "23503"}, ErrForeignKey},
		{"wrapped unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), ErrDuplicateKey},
		{"other pg error", &pgconn.PgError{Code: "23514"}, nil},
		{"not a pg error", plain, plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := TranslatePgError(tt.err)
			if tt.want == nil {
				assert.Same(t, tt.err, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestConstraintName(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	assert.Equal(t, "users_email_key", ConstraintName(err))
	assert.Empty(t, ConstraintName(errors.New("other")))
}

func TestJitteredDuration(t *testing.T) {
	t.Parallel()

	base := time.Hour
	for i := 0; i < 50; i++ {
		d := jitteredDuration(base)
		assert.GreaterOrEqual(t, d, base)
		assert.Less(t, d, base+base/7)
	}

	assert.Equal(t, time.Duration(3), jitteredDuration(3))
}

func TestConfigurePool(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	configurePool(db, config.DatabaseConfig{
		MaxOpenConns:    12,
		MaxIdleConns:    3,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Minute,
	})

	assert.Equal(t, 12, db.Stats().MaxOpenConnections)
}

func TestStartupBackoffGivesUp(t *testing.T) {
	t.Parallel()

	b := startupBackoff()
	attempts := 0
	for {
		if _, stop := b.Next(); stop {
			break
		}
		attempts++
	}

	assert.Equal(t, connectRetries, attempts)
}
