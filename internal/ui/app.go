package ui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskbot/internal/models"
	"github.com/tgienger/taskbot/internal/ui/views"
)

// Console is the terminal transport. It plays a single chat whose replies
// are rendered by the chat view.
type Console struct {
	ChatID  int64
	UserID  int64
	Name    string
	replies chan models.Outbound
}

// NewConsole creates a console chat
func NewConsole(chatID, userID int64, name string) *Console {
	return &Console{
		ChatID:  chatID,
		UserID:  userID,
		Name:    name,
		replies: make(chan models.Outbound, 64),
	}
}

// Send queues a reply for the chat view
func (c *Console) Send(ctx context.Context, msg models.Outbound) error {
	select {
	case c.replies <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Replies returns the queue read by the chat view
func (c *Console) Replies() <-chan models.Outbound {
	return c.replies
}

// Parse turns a typed line into an inbound message. "/contact <phone> [name]"
// stands in for the share-contact button.
func (c *Console) Parse(line string) (models.Inbound, error) {
	msg := models.Inbound{ChatID: c.ChatID, UserID: c.UserID, Text: strings.TrimSpace(line)}

	fields := strings.Fields(msg.Text)
	if len(fields) == 0 || fields[0] != "/contact" {
		return msg, nil
	}
	if len(fields) < 2 {
		return models.Inbound{}, errors.New("usage: /contact <phone> [name]")
	}

	name := c.Name
	if len(fields) > 2 {
		name = strings.Join(fields[2:], " ")
	}
	msg.Text = ""
	msg.Contact = &models.Contact{UserID: c.UserID, Phone: fields[1], FirstName: name}
	return msg, nil
}

type App struct {
	chat   *views.ChatView
	width  int
	height int
}

// NewApp creates the console application. Typed lines are parsed by console
// and handed to submit.
func NewApp(ctx context.Context, console *Console, submit func(context.Context, models.Inbound)) *App {
	send := func(line string) error {
		msg, err := console.Parse(line)
		if err != nil {
			return err
		}
		submit(ctx, msg)
		return nil
	}
	return &App{
		chat: views.NewChatView("taskbot · console", send, console.Replies()),
	}
}

func (a *App) Init() tea.Cmd {
	return a.chat.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = msg.Width
		a.height = msg.Height
	}

	_, cmd := a.chat.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.chat.View()
}
