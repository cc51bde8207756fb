// AngelaMos | 2026
// load.go

package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix selects the generic environment scheme. A double underscore
// separates levels: CINECATALOG_RATE_LIMIT__BURST sets rate_limit.burst.
const EnvPrefix = "CINECATALOG_"

var (
	loaded  *Config
	loadErr error
	once    sync.Once
)

// Load parses the configuration on first use and caches the outcome,
// including a failure.
func Load(configPath string) (*Config, error) {
	once.Do(func() {
		loaded, loadErr = Parse(configPath)
	})
	return loaded, loadErr
}

func Get() *Config {
	if loaded == nil {
		panic("config not loaded: call Load() first")
	}
	return loaded
}

func Parse(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := applyDefaults(k); err != nil {
		return nil, err
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", prefixedEnvKey), nil); err != nil {
		return nil, fmt.Errorf("load prefixed env: %w", err)
	}

	if err := k.Load(env.Provider("", ".", aliasEnvKey), nil); err != nil {
		return nil, fmt.Errorf("load env aliases: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return c, nil
}

func prefixedEnvKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// envAliases are the conventional names operators and container platforms
// already set. They win over the prefixed scheme.
var envAliases = map[string]string{
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"DATABASE_URL":                "database.url",
	"DATABASE_AUTO_MIGRATE":       "database.auto_migrate",
	"REDIS_URL":                   "redis.url",
	"JWT_SECRET":                  "jwt.secret",
	"JWT_ACCESS_TOKEN_EXPIRE":     "jwt.access_token_expire",
	"JWT_ISSUER":                  "jwt.issuer",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"METRICS_ENABLED":             "metrics.enabled",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
}

func aliasEnvKey(s string) string {
	return envAliases[s]
}
