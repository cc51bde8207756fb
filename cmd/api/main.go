// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/carterperez-dev/cinecatalog/internal/config"
	"github.com/carterperez-dev/cinecatalog/internal/server"
)

const (
	drainDelay   = 5 * time.Second
	closeReserve = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	migrate := flag.Bool("migrate", false, "apply database migrations before serving")
	flag.Parse()

	if err := run(*configPath, *migrate); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, migrate bool) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting cinecatalog",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"address", cfg.Server.Address(),
	)

	deps, err := openInfra(ctx, cfg, migrate || cfg.Database.AutoMigrate, logger)
	if err != nil {
		return err
	}
	defer deps.close(logger)

	a, err := newApp(cfg, deps, logger)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: a.health,
		Logger:        logger,
	})
	if err := a.mount(srv.Router(), cfg, deps, logger); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+closeReserve,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := deps.telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
