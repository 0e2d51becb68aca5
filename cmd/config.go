package cmd

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string `conf:"default:8080,env:HTTP_PORT"`

	DBHost     string `conf:"default:localhost,env:DB_HOST"`
	DBPort     string `conf:"default:5432,env:DB_PORT"`
	DBUser     string `conf:"default:postgres,env:DB_USER"`
	DBPassword string `conf:"default:postgres,env:DB_PASSWORD,noprint"`
	DBName     string `conf:"default:heblo,env:DB_NAME"`
	DBSslMode  string `conf:"default:disable,env:DB_SSLMODE"`

	// RedisURL enables cross-instance catalog invalidation. Empty keeps
	// invalidations in process.
	RedisURL     string `conf:"env:REDIS_URL,noprint"`
	RedisChannel string `conf:"default:heblo:catalog:invalidations,env:REDIS_CHANNEL"`

	CatalogMergeDebounce    time.Duration `conf:"default:5s,env:CATALOG_MERGE_DEBOUNCE"`
	CatalogMergeMaxInterval time.Duration `conf:"default:30m,env:CATALOG_MERGE_MAX_INTERVAL"`

	ReceivedBoxesSchedule  string `conf:"default:@every 30s,env:RECEIVED_BOXES_SCHEDULE"`
	CatalogRefreshSchedule string `conf:"default:@every 10m,env:CATALOG_REFRESH_SCHEDULE"`

	LogLevel        string        `conf:"default:info,env:LOG_LEVEL"`
	ShutdownTimeout time.Duration `conf:"default:15s,env:SHUTDOWN_TIMEOUT"`
}

// LoadConfig reads configuration from the environment, after loading .env if present.
func LoadConfig() (Config, error) {
	var cfg Config
	_ = godotenv.Load()
	if _, err := conf.Parse("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	return cfg, nil
}

// DSN returns the postgres connection string.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSslMode}}.Encode(),
	}
	return u.String()
}

// SlogLevel returns the configured level, info when it does not parse.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
