package bot

import (
	"fmt"
	"strings"

	"github.com/tgienger/taskbot/internal/period"
)

const (
	msgAskContact     = "Please share your contact using the button below."
	msgWelcomeBack    = "Welcome back! Send me any text to add it as a task."
	msgRegistered     = "You are registered! Now send your first task."
	msgAlreadyKnown   = "You are already registered."
	msgForeignContact = "Please share your own contact."
	msgUnregistered   = "Please share your contact first: send /start."
	msgFailure        = "Something went wrong. Please try again later."
	msgUnknown        = "Unknown command. Send /help for the list of commands."
	msgNoTasks        = "No tasks found."
	msgNoPeriodTasks  = "No tasks for the selected period."
)

func msgTaskAdded(id int64) string {
	return fmt.Sprintf("Task #%d added with status 'planned'.", id)
}

func msgEditPrompt(id int64) string {
	return fmt.Sprintf("Send the new text for task #%d.", id)
}

func msgEdited(id int64) string {
	return fmt.Sprintf("Task #%d text updated.", id)
}

func msgEditCancelled(id int64) string {
	return fmt.Sprintf("Edit of task #%d cancelled.", id)
}

func msgStatusChanged(id int64, status fmt.Stringer) string {
	return fmt.Sprintf("Task #%d status changed to '%s'.", id, status)
}

func msgRemoved(id int64) string {
	return fmt.Sprintf("Task #%d removed.", id)
}

func msgNotFound(id int64) string {
	return fmt.Sprintf("Task #%d not found.", id)
}

var periodTitles = map[string]string{
	period.Today:     "Today",
	period.Yesterday: "Yesterday",
	period.Week:      "This week",
	period.LastWeek:  "Last week",
	period.Month:     "This month",
	period.LastMonth: "Last month",
}

func periodHeader(name string, iv period.Interval, count int) string {
	title := periodTitles[name]
	from, to := iv.From.Format("02 Jan"), iv.To.Format("02 Jan")
	if from == to {
		return fmt.Sprintf("📋 %s, %s: %d", title, from, count)
	}
	return fmt.Sprintf("📋 %s, %s – %s: %d", title, from, to, count)
}

func actualHeader(count int) string {
	return fmt.Sprintf("📋 Open tasks: %d", count)
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Send any text to add a task.\n\n")
	b.WriteString("/actual_tasks - tasks that are not done\n")
	for _, name := range period.Names() {
		fmt.Fprintf(&b, "/tasks_%s - %s\n", name, strings.ToLower(periodTitles[name]))
	}
	b.WriteString("\n/edit<id> /remove<id>\n/planned<id> /doing<id> /done<id>")
	return b.String()
}

// MenuItem is a command advertised in the chat client's command menu
type MenuItem struct {
	Command     string
	Description string
}

// Menu lists the commands that take no arguments
func Menu() []MenuItem {
	items := []MenuItem{
		{Command: "start", Description: "register or say hello"},
		{Command: "actual_tasks", Description: "tasks that are not done"},
	}
	for _, name := range period.Names() {
		items = append(items, MenuItem{Command: "tasks_" + name, Description: strings.ToLower(periodTitles[name])})
	}
	return append(items, MenuItem{Command: "help", Description: "list commands"})
}
