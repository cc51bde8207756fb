// AngelaMos | 2026
// routes.go

package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carterperez-dev/cinecatalog/internal/admin"
	"github.com/carterperez-dev/cinecatalog/internal/auth"
	"github.com/carterperez-dev/cinecatalog/internal/config"
	"github.com/carterperez-dev/cinecatalog/internal/core"
	"github.com/carterperez-dev/cinecatalog/internal/health"
	"github.com/carterperez-dev/cinecatalog/internal/middleware"
	"github.com/carterperez-dev/cinecatalog/internal/movie"
	"github.com/carterperez-dev/cinecatalog/internal/review"
	"github.com/carterperez-dev/cinecatalog/internal/user"
)

var unlimitedPaths = []string{"/healthz", "/livez", "/readyz", "/metrics"}

type app struct {
	tokens  *auth.TokenManager
	authSvc *auth.Service

	auth   *auth.Handler
	users  *user.Handler
	movies *movie.Handler
	review *review.Handler
	admin  *admin.Handler
	health *health.Handler
}

func newApp(cfg *config.Config, deps *infra, logger *slog.Logger) (*app, error) {
	hasher, err := core.NewPasswordHasher(core.DefaultArgon2Params)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return nil, err
	}

	userSvc := user.NewService(user.NewRepository(deps.db.DB))
	authSvc := auth.NewService(userSvc, hasher, tokens, auth.WithLogger(logger))
	movieSvc := movie.NewService(movie.NewRepository(deps.db.DB))
	reviewSvc := review.NewService(review.NewRepository(deps.db.DB), movieSvc)

	return &app{
		tokens:  tokens,
		authSvc: authSvc,
		auth:    auth.NewHandler(authSvc),
		users:   user.NewHandler(userSvc),
		movies:  movie.NewHandler(movieSvc),
		review:  review.NewHandler(reviewSvc),
		admin: admin.NewHandler(admin.HandlerConfig{
			DBStats:    deps.db.Stats,
			RedisStats: deps.redis.PoolStats,
			DBPing:     deps.db.Ping,
			RedisPing:  deps.redis.Ping,
			Users:      userSvc,
			Movies:     movieSvc,
			Reviews:    reviewSvc,
		}),
		health: health.NewHandler(
			health.Dependency{Name: "database", Checker: deps.db},
			health.Dependency{Name: "redis", Checker: deps.redis},
		),
	}, nil
}

// mount installs the middleware chain and every route. The gate runs last
// so request ids, traces and access logs cover rejected requests too.
func (a *app) mount(
	router chi.Router,
	cfg *config.Config,
	deps *infra,
	logger *slog.Logger,
) error {
	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing(deps.telemetry.Tracer))
	router.Use(middleware.Logger(logger))

	if cfg.Metrics.Enabled {
		metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{
			Namespace: cfg.Metrics.Namespace,
		})
		if err != nil {
			return err
		}
		router.Use(metrics.Handler)
	}
	router.Use(middleware.Recoverer(logger))

	global := middleware.NewRateLimiter(deps.redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(cfg.RateLimit.Requests, cfg.RateLimit.Burst),
		Skip:     middleware.SkipPaths(unlimitedPaths...),
		FailOpen: true,
		Logger:   logger,
	})
	router.Use(global.Handler)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.Gate(middleware.GateConfig{
		Tokens:     a.tokens,
		Identities: a.authSvc,
		Logger:     logger,
	}))

	a.health.RegisterRoutes(router)
	if cfg.Metrics.Enabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	credentials := middleware.NewRateLimiter(deps.redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthBurst),
		KeyFunc:  middleware.KeyByIPAndEndpoint,
		FailOpen: true,
		Logger:   logger,
	})
	a.auth.RegisterRoutes(router, credentials.Handler)

	a.movies.RegisterRoutes(router)
	reviewWrites := middleware.NewRateLimiter(deps.redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(cfg.RateLimit.ReviewWrites, cfg.RateLimit.ReviewBurst),
		KeyFunc:  middleware.KeyByUser,
		FailOpen: true,
		Logger:   logger,
	})
	a.review.RegisterRoutes(router, reviewWrites.Handler)

	router.Route("/users", func(r chi.Router) {
		a.users.RegisterRoutes(r)
		a.review.RegisterUserRoutes(r)
	})

	router.Route("/admin", func(r chi.Router) {
		a.admin.RegisterRoutes(r)
		a.users.RegisterAdminRoutes(r)
	})

	return nil
}
