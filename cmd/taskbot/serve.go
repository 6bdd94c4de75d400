package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskbot/internal/bot"
	"github.com/tgienger/taskbot/internal/models"
	"github.com/tgienger/taskbot/internal/telegram"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot using long polling",
		Long: `Run the Telegram bot.

The bot token is read from TELEGRAM_TOKEN. Tasks are stored in the SQLite
file named by DATABASE_URL, or in the default data directory.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, database, d, logger, err := setup(os.Stderr)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := cfg.RequireToken(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := telegram.NewClient(telegram.Config{
		Token:       cfg.Token,
		APIRoot:     cfg.APIRoot,
		PollTimeout: cfg.PollTimeout,
		Logger:      logger,
	}, database)

	if err := client.SetCommands(ctx, bot.Menu()); err != nil {
		logger.Warn("publish command menu", "error", err)
	}

	router := bot.NewRouter(d.Deliver(client), logger)
	logger.Info("bot started", "version", version, "timezone", cfg.Location.String(), "page_size", cfg.PageSize)

	// handlers outlive the poll loop so queued replies still go out on shutdown
	handlerCtx := context.WithoutCancel(ctx)
	err = client.Run(ctx, func(_ context.Context, msg models.Inbound) {
		router.Submit(handlerCtx, msg)
	})

	router.Wait()
	logger.Info("bot stopped")
	return err
}
