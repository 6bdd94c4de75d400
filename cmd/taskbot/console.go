package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskbot/internal/bot"
	"github.com/tgienger/taskbot/internal/db"
	"github.com/tgienger/taskbot/internal/ui"
)

func consoleCmd() *cobra.Command {
	var (
		userID int64
		name   string
	)

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Chat with the bot in the terminal",
		Long: `Chat with the bot in the terminal, without Telegram.

The console plays a single chat. Use /contact <phone> [name] where Telegram
would show the share-contact button. Logs go to console.log in the data
directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := db.DataDir()
			if err != nil {
				return fmt.Errorf("data directory: %w", err)
			}
			logFile, err := os.OpenFile(filepath.Join(dir, "console.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			_, database, d, logger, err := setup(logFile)
			if err != nil {
				return err
			}
			defer database.Close()

			console := ui.NewConsole(userID, userID, name)
			router := bot.NewRouter(d.Deliver(console), logger)

			app := ui.NewApp(cmd.Context(), console, router.Submit)
			p := tea.NewProgram(app, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run console: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 1, "user and chat id the console plays")
	cmd.Flags().StringVarP(&name, "name", "n", "Console", "name used by /contact when none is given")

	return cmd
}
