// AngelaMos | 2026
// infra.go

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/carterperez-dev/cinecatalog/internal/config"
	"github.com/carterperez-dev/cinecatalog/internal/core"
)

const telemetryFlushTimeout = 5 * time.Second

// infra holds the process-wide backing services.
type infra struct {
	telemetry *core.Telemetry
	db        *core.Database
	redis     *core.Redis
}

func openInfra(
	ctx context.Context,
	cfg *config.Config,
	migrate bool,
	logger *slog.Logger,
) (*infra, error) {
	tel, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return nil, err
	}
	logger.Info("tracing ready",
		"exporting", tel.Exporting,
		"endpoint", cfg.Otel.Endpoint,
	)

	i := &infra{telemetry: tel}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, i.abort(logger, err)
	}
	i.db = db
	logger.Info("database connected", "max_open_conns", cfg.Database.MaxOpenConns)

	if migrate {
		if err := db.Migrate(ctx); err != nil {
			return nil, i.abort(logger, err)
		}
		logger.Info("database migrations applied")
	}

	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, i.abort(logger, err)
	}
	i.redis = rdb
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	return i, nil
}

// abort releases whatever opened before a failed startup step and returns
// that step's error.
func (i *infra) abort(logger *slog.Logger, cause error) error {
	i.close(logger)

	ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	defer cancel()
	if err := i.telemetry.Shutdown(ctx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	return cause
}

func (i *infra) close(logger *slog.Logger) {
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}
	if i.db != nil {
		if err := i.db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}
}
