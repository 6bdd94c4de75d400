package config

import (
	"log/slog"
	"testing"
	"time"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(env(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Location.String() != DefaultTimezone {
		t.Errorf("location = %v", cfg.Location)
	}
	if cfg.PageSize != 10 || cfg.PollTimeout != 30*time.Second || cfg.LogLevel != slog.LevelInfo {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.RequireToken(); err == nil {
		t.Error("expected missing token error")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(env(map[string]string{
		EnvToken:       " 123:abc ",
		EnvDatabase:    "/tmp/tasks.db",
		EnvTimezone:    "UTC",
		EnvPageSize:    "5",
		EnvPollTimeout: "50s",
		EnvLogLevel:    "debug",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "123:abc" || cfg.Database != "/tmp/tasks.db" {
		t.Errorf("unexpected strings: %+v", cfg)
	}
	if cfg.Location != time.UTC || cfg.PageSize != 5 || cfg.PollTimeout != 50*time.Second || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if err := cfg.RequireToken(); err != nil {
		t.Errorf("RequireToken: %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		EnvTimezone:    "Mars/Olympus",
		EnvPageSize:    "0",
		EnvPollTimeout: "fast",
		EnvLogLevel:    "loud",
	} {
		if _, err := Load(env(map[string]string{key: value})); err == nil {
			t.Errorf("%s=%q: expected an error", key, value)
		}
	}
}
