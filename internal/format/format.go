// Package format renders tasks into chat message bodies.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tgienger/taskbot/internal/models"
)

// MaxMessageLen is the longest message body the chat platform accepts, in characters
const MaxMessageLen = 4096

// maxTextLen keeps a rendered block well inside MaxMessageLen
const maxTextLen = 3800

// DefaultPageSize is the number of task blocks per message
const DefaultPageSize = 10

// Separator joins blocks inside a chunk
const Separator = "\n\n"

// TimeLayout is locale independent: English month abbreviations, 24-hour clock
const TimeLayout = "02 Jan 15:04 -07:00"

// Glyph returns the symbol shown for a status
func Glyph(s models.Status) string {
	switch s {
	case models.StatusDoing:
		return "🔄"
	case models.StatusDone:
		return "✅"
	default:
		return "📝"
	}
}

// RenderTask renders a task as a multi-line block with its timestamps in loc
// and the commands that act on it
func RenderTask(t models.Task, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	var b strings.Builder
	b.WriteString(Glyph(t.Status))
	b.WriteString(" ")
	b.WriteString(clip(cleanText(t.Text), maxTextLen))
	b.WriteString("\n")
	fmt.Fprintf(&b, "#%d · %s – %s\n", t.ID,
		t.CreatedAt.In(loc).Format(TimeLayout),
		t.UpdatedAt.In(loc).Format(TimeLayout))
	fmt.Fprintf(&b, "/edit%d /remove%d\n", t.ID, t.ID)

	var moves []string
	for _, s := range models.Statuses {
		if s != t.Status {
			moves = append(moves, fmt.Sprintf("/%s%d", s, t.ID))
		}
	}
	b.WriteString(strings.Join(moves, " "))
	return b.String()
}

// RenderTasks renders every task in order
func RenderTasks(tasks []models.Task, loc *time.Location) []string {
	blocks := make([]string, len(tasks))
	for i, t := range tasks {
		blocks[i] = RenderTask(t, loc)
	}
	return blocks
}

// Paginate groups blocks into message bodies holding at most maxBlocks blocks
// each. A chunk is closed early when the next block would push it past
// MaxMessageLen. Blocks are never split and order is preserved.
func Paginate(blocks []string, maxBlocks int) []string {
	if maxBlocks < 1 {
		maxBlocks = 1
	}
	sepLen := utf8.RuneCountInString(Separator)

	var chunks []string
	var cur []string
	curLen := 0
	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, strings.Join(cur, Separator))
			cur = cur[:0]
			curLen = 0
		}
	}

	for _, block := range blocks {
		n := utf8.RuneCountInString(block)
		if len(cur) > 0 && (len(cur) == maxBlocks || curLen+sepLen+n > MaxMessageLen) {
			flush()
		}
		if len(cur) > 0 {
			curLen += sepLen
		}
		cur = append(cur, block)
		curLen += n
	}
	flush()
	return chunks
}

func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(empty)"
	}
	return s
}

func clip(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
