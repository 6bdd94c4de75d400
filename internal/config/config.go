// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/tgienger/taskbot/internal/format"
)

// Environment variable names
const (
	EnvToken       = "TELEGRAM_TOKEN"
	EnvAPIRoot     = "TELEGRAM_API_ROOT"
	EnvPollTimeout = "TELEGRAM_POLL_TIMEOUT"
	EnvDatabase    = "DATABASE_URL"
	EnvTimezone    = "TASKBOT_TIMEZONE"
	EnvPageSize    = "TASKBOT_PAGE_SIZE"
	EnvLogLevel    = "TASKBOT_LOG_LEVEL"
)

// DefaultTimezone is used when EnvTimezone is unset
const DefaultTimezone = "Europe/Moscow"

// Config holds the runtime settings
type Config struct {
	Token       string
	APIRoot     string
	PollTimeout time.Duration
	Database    string // empty selects the default data file
	Location    *time.Location
	PageSize    int
	LogLevel    slog.Level
}

// Load reads the configuration through getenv, typically os.Getenv
func Load(getenv func(string) string) (Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := Config{
		Token:       get(EnvToken),
		APIRoot:     get(EnvAPIRoot),
		PollTimeout: 30 * time.Second,
		Database:    get(EnvDatabase),
		PageSize:    format.DefaultPageSize,
		LogLevel:    slog.LevelInfo,
	}

	tz := get(EnvTimezone)
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvTimezone, err)
	}
	cfg.Location = loc

	if v := get(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("%s: want a positive integer, got %q", EnvPageSize, v)
		}
		cfg.PageSize = n
	}

	if v := get(EnvPollTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < time.Second {
			return Config{}, fmt.Errorf("%s: want a duration of at least 1s, got %q", EnvPollTimeout, v)
		}
		cfg.PollTimeout = d
	}

	if v := get(EnvLogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}

	return cfg, nil
}

// RequireToken reports a missing Bot API token
func (c Config) RequireToken() error {
	if c.Token == "" {
		return fmt.Errorf("%s is not set", EnvToken)
	}
	return nil
}
