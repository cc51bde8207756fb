// AngelaMos | 2026
// defaults.go

package config

import (
	"fmt"
	"maps"

	"github.com/knadh/koanf/v2"
)

func applyDefaults(k *koanf.Koanf) error {
	sections := []map[string]any{
		appDefaults(),
		serverDefaults(),
		storageDefaults(),
		securityDefaults(),
		observabilityDefaults(),
	}

	all := make(map[string]any)
	for _, s := range sections {
		maps.Copy(all, s)
	}

	for key, value := range all {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("default %s: %w", key, err)
		}
	}
	return nil
}

func appDefaults() map[string]any {
	return map[string]any{
		"app.name":        "cinecatalog",
		"app.version":     "1.0.0",
		"app.environment": "development",
	}
}

func serverDefaults() map[string]any {
	return map[string]any{
		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "15s",
		"server.write_timeout":    "15s",
		"server.idle_timeout":     "60s",
		"server.shutdown_timeout": "20s",
	}
}

func storageDefaults() map[string]any {
	return map[string]any{
		"database.auto_migrate":       false,
		"database.max_open_conns":     20,
		"database.max_idle_conns":     4,
		"database.conn_max_lifetime":  "45m",
		"database.conn_max_idle_time": "10m",

		"redis.pool_size":      8,
		"redis.min_idle_conns": 2,
	}
}

func securityDefaults() map[string]any {
	return map[string]any{
		"jwt.access_token_expire": "1h",
		"jwt.issuer":              "cinecatalog",

		"rate_limit.requests":      120,
		"rate_limit.burst":         30,
		"rate_limit.auth_requests": 10,
		"rate_limit.auth_burst":    3,
		"rate_limit.review_writes": 30,
		"rate_limit.review_burst":  5,

		"cors.allowed_origins":   []string{"http://localhost:5173"},
		"cors.allowed_methods":   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		"cors.allowed_headers":   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		"cors.allow_credentials": false,
		"cors.max_age":           600,
	}
}

func observabilityDefaults() map[string]any {
	return map[string]any{
		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.25,
		"otel.service_name": "cinecatalog",

		"metrics.enabled":   true,
		"metrics.namespace": "cinecatalog",
	}
}
