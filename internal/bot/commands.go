package bot

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tgienger/taskbot/internal/models"
)

// Kind identifies a parsed command
type Kind int

const (
	CmdUnknown Kind = iota
	CmdStart
	CmdHelp
	CmdEdit
	CmdRemove
	CmdSetStatus
	CmdActual
	CmdPeriod
)

// Command is a parsed slash command
type Command struct {
	Kind   Kind
	Name   string // command word without the slash
	TaskID int64
	Status models.Status
	Period string
}

var taskCommand = regexp.MustCompile(`^(edit|remove|planned|doing|done)(\d+)$`)

// ParseCommand parses text starting with a slash. Only the first word is
// considered; a trailing @botname is ignored. ok is false for plain text.
func ParseCommand(text string) (cmd Command, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return Command{}, false
	}

	word := strings.Fields(text)[0][1:]
	if at := strings.IndexByte(word, '@'); at >= 0 {
		word = word[:at]
	}
	cmd.Name = word

	switch {
	case word == "start":
		cmd.Kind = CmdStart
	case word == "help":
		cmd.Kind = CmdHelp
	case word == "actual_tasks":
		cmd.Kind = CmdActual
	case strings.HasPrefix(word, "tasks_"):
		cmd.Kind = CmdPeriod
		cmd.Period = strings.TrimPrefix(word, "tasks_")
	default:
		m := taskCommand.FindStringSubmatch(word)
		if m == nil {
			cmd.Kind = CmdUnknown
			break
		}
		// an id too large to parse cannot exist; 0 is never assigned
		if id, err := strconv.ParseInt(m[2], 10, 64); err == nil {
			cmd.TaskID = id
		}
		switch m[1] {
		case "edit":
			cmd.Kind = CmdEdit
		case "remove":
			cmd.Kind = CmdRemove
		default:
			cmd.Kind = CmdSetStatus
			cmd.Status, _ = models.ParseStatus(m[1])
		}
	}
	return cmd, true
}
