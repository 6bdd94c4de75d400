package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskbot/internal/models"
	"github.com/tgienger/taskbot/internal/ui/keys"
	"github.com/tgienger/taskbot/internal/ui/styles"
)

// contactHint is shown under replies that ask for the user's contact
const contactHint = "share your contact with /contact <phone> [name]"

// Submitter hands one typed line to the bot
type Submitter func(line string) error

// ReplyMsg carries one bot reply into the update loop
type ReplyMsg struct {
	Outbound models.Outbound
}

// WaitForReply blocks until the next reply arrives on replies
func WaitForReply(replies <-chan models.Outbound) tea.Cmd {
	return func() tea.Msg {
		out, ok := <-replies
		if !ok {
			return nil
		}
		return ReplyMsg{Outbound: out}
	}
}

type entryKind int

const (
	entryUser entryKind = iota
	entryBot
	entryHint
	entryNote
)

type entry struct {
	kind entryKind
	text string
}

// ChatView is a single chat transcript with an input line
type ChatView struct {
	title   string
	submit  Submitter
	replies <-chan models.Outbound
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int
	ready  bool

	viewport viewport.Model
	input    textinput.Model
	entries  []entry
}

// NewChatView creates a chat view that submits typed lines through submit
// and renders whatever arrives on replies
func NewChatView(title string, submit Submitter, replies <-chan models.Outbound) *ChatView {
	input := textinput.New()
	input.Placeholder = "Type a task or a /command..."
	input.Prompt = "› "
	input.CharLimit = 4000
	input.Focus()

	return &ChatView{
		title:   title,
		submit:  submit,
		replies: replies,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		input:   input,
	}
}

// Init starts the cursor blink and the reply listener
func (v *ChatView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, WaitForReply(v.replies))
}

// Update handles messages
func (v *ChatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize(msg.Width, msg.Height)
		return v, nil

	case ReplyMsg:
		v.entries = append(v.entries, entry{kind: entryBot, text: msg.Outbound.Text})
		if msg.Outbound.RequestContact {
			v.entries = append(v.entries, entry{kind: entryHint, text: contactHint})
		}
		v.refresh()
		return v, WaitForReply(v.replies)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Send):
			v.send()
			return v, nil
		case key.Matches(msg, v.keys.ScrollUp):
			v.viewport.SetYOffset(v.viewport.YOffset - v.viewport.Height)
			return v, nil
		case key.Matches(msg, v.keys.ScrollDown):
			v.viewport.SetYOffset(v.viewport.YOffset + v.viewport.Height)
			return v, nil
		case key.Matches(msg, v.keys.Top):
			v.viewport.GotoTop()
			return v, nil
		case key.Matches(msg, v.keys.Bottom):
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *ChatView) send() {
	line := strings.TrimSpace(v.input.Value())
	v.input.Reset()
	if line == "" {
		return
	}

	v.entries = append(v.entries, entry{kind: entryUser, text: line})
	if err := v.submit(line); err != nil {
		v.entries = append(v.entries, entry{kind: entryNote, text: err.Error()})
	}
	v.refresh()
}

func (v *ChatView) resize(width, height int) {
	v.width = width
	v.height = height

	contentWidth := styles.ContentWidth(width)
	// title, blank line, bordered input and help take six rows
	vpHeight := max(3, height-6)
	if !v.ready {
		v.viewport = viewport.New(contentWidth, vpHeight)
		v.ready = true
	} else {
		v.viewport.Width = contentWidth
		v.viewport.Height = vpHeight
	}
	v.input.Width = max(10, contentWidth-8)
	v.refresh()
}

// refresh re-renders the transcript and follows the latest message
func (v *ChatView) refresh() {
	if !v.ready {
		return
	}
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *ChatView) renderTranscript() string {
	s := v.styles
	width := max(10, v.viewport.Width-2)

	lines := make([]string, 0, len(v.entries))
	for _, e := range v.entries {
		switch e.kind {
		case entryUser:
			lines = append(lines, s.UserMessage.Width(width).Render(s.UserPrefix.Render("you › ")+e.text))
		case entryBot:
			lines = append(lines, s.BotMessage.Width(width-2).Render(e.text))
		case entryHint:
			lines = append(lines, s.BotPrompt.Width(width).Render(e.text))
		case entryNote:
			lines = append(lines, s.SystemNote.Width(width).Render(e.text))
		}
	}
	return strings.Join(lines, "\n")
}

// View renders the chat
func (v *ChatView) View() string {
	if !v.ready {
		return ""
	}

	var b strings.Builder
	b.WriteString(v.renderTitle())
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	b.WriteString(v.styles.InputFocused.Width(styles.ContentWidth(v.width) - 2).Render(v.input.View()))
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *ChatView) renderTitle() string {
	s := v.styles
	status := "empty"
	if len(v.entries) > 0 {
		status = fmt.Sprintf("%3.f%%", v.viewport.ScrollPercent()*100)
	}
	return s.TitleBar.Render(s.Title.Render(v.title) + " " + s.TitleMuted.Render(status))
}

func (v *ChatView) renderHelp() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return s.Help.Render(s.HelpKey.Render("↵") + " send • " + s.HelpKey.Render("esc") + " quit")
	}
	return s.Help.Render(
		fmt.Sprintf("%s send • %s/%s scroll • %s quit • %s share contact",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("pgup"),
			s.HelpKey.Render("pgdn"),
			s.HelpKey.Render("esc"),
			s.HelpKey.Render("/contact"),
		),
	)
}
