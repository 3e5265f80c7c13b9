package config

import (
	"fmt"
	"log/slog"
	"strings"

	"ctchen222/todo-api/internal/validator"

	"github.com/caarlos0/env/v11"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// JWT holds the token settings (JWT:Issuer, JWT:Audience, JWT:Key).
type JWT struct {
	Issuer   string `env:"ISSUER" validate:"required"`
	Audience string `env:"AUDIENCE" validate:"required"`
	Key      string `env:"KEY" validate:"required,min=32"`
}

// Config is the full runtime configuration of the server, read from the environment.
type Config struct {
	HTTPAddr   string `env:"HTTP_ADDR" envDefault:":8080" validate:"required"`
	CORSOrigin string `env:"CORS_ORIGIN" validate:"required,url"`
	JWT        JWT    `envPrefix:"JWT_"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite" validate:"oneof=sqlite redis"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"./todo.db"`
	RedisAddr    string `env:"REDIS_CONNSTRING" envDefault:"localhost:6379"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	StdoutTraces bool   `env:"OTEL_STDOUT_TRACES" envDefault:"false"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.GetValidator().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %s: %w", validator.Describe(err), err)
	}
	return &cfg, nil
}

// SlogLevel maps LogLevel onto a slog.Level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}
