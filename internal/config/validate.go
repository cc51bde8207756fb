// AngelaMos | 2026
// validate.go

package config

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const minSecretLength = 32

// Validate reports every problem at once rather than stopping at the first.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Database.URL != "", "DATABASE_URL is required")
	check(c.Redis.URL != "", "REDIS_URL is required")
	check(len(c.JWT.Secret) >= minSecretLength,
		"JWT_SECRET must be at least %d bytes", minSecretLength)
	check(c.JWT.AccessTokenExpire > 0, "jwt.access_token_expire must be positive")

	check(c.Server.Port > 0 && c.Server.Port <= 65535,
		"server.port %d out of range", c.Server.Port)
	timeouts := []struct {
		name string
		d    time.Duration
	}{
		{"read_timeout", c.Server.ReadTimeout},
		{"write_timeout", c.Server.WriteTimeout},
		{"idle_timeout", c.Server.IdleTimeout},
		{"shutdown_timeout", c.Server.ShutdownTimeout},
	}
	for _, t := range timeouts {
		check(t.d > 0, "server.%s must be positive", t.name)
	}

	check(c.RateLimit.Requests > 0 && c.RateLimit.AuthRequests > 0 && c.RateLimit.ReviewWrites > 0,
		"rate_limit requests must be positive")

	check(c.Otel.SampleRate >= 0 && c.Otel.SampleRate <= 1,
		"otel.sample_rate must be within [0, 1]")

	check(!c.CORS.AllowCredentials || !slices.Contains(c.CORS.AllowedOrigins, "*"),
		"CORS wildcard '*' cannot be used with allow_credentials")

	if c.IsProduction() {
		check(!c.Otel.Enabled || !c.Otel.Insecure, "otel.insecure must be false in production")
	}

	return errors.Join(errs...)
}
