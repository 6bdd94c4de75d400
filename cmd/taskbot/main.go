package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskbot/internal/bot"
	"github.com/tgienger/taskbot/internal/config"
	"github.com/tgienger/taskbot/internal/db"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "taskbot",
		Short:         "Personal task tracker driven by chat messages",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(consoleCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and opens the database and dispatcher shared
// by every transport
func setup(logOut io.Writer) (config.Config, *db.DB, *bot.Dispatcher, *slog.Logger, error) {
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		return config.Config{}, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	database, err := db.Open(cfg.Database)
	if err != nil {
		return config.Config{}, nil, nil, nil, fmt.Errorf("open database: %w", err)
	}

	d := bot.NewDispatcher(database, bot.Options{
		Location: cfg.Location,
		PageSize: cfg.PageSize,
		Logger:   logger,
	})
	return cfg, database, d, logger, nil
}
