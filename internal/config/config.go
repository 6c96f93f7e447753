package config

import (
	"ctchen222/Todo-List/internal/validator"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config is the process-wide configuration read from the environment at startup.
type Config struct {
	Env             string        `env:"APP_ENV" envDefault:"local" validate:"oneof=local dev prod"`
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080" validate:"required"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	Database  DatabaseConfig
	Session   SessionConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
}

type DatabaseConfig struct {
	// URL is a SQLite DSN. A plain file path is accepted.
	URL string `env:"DATABASE_URL" envDefault:"todo.db" validate:"required"`
}

type SessionConfig struct {
	// Secret signs session tokens. There is no fallback value.
	Secret       string        `env:"SESSION_SECRET,required" validate:"required,min=32"`
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"72h" validate:"gt=0"`
	Issuer       string        `env:"SESSION_ISSUER" envDefault:"todo-list" validate:"required"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

type RedisConfig struct {
	// Addr enables the Redis session store when non-empty.
	Addr string `env:"REDIS_ADDR"`
}

type TelemetryConfig struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint    string `env:"OTEL_ENDPOINT" envDefault:"otel-collector:4317" validate:"required_if=Enabled true"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"todo-list"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}
	if err := validator.GetValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// IsLocal reports whether the process runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal
}
