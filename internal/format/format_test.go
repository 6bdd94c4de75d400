package format

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/tgienger/taskbot/internal/models"
)

var msk = time.FixedZone("MSK", 3*60*60)

func TestRenderTask(t *testing.T) {
	task := models.Task{
		ID:        7,
		Text:      "Buy milk",
		Status:    models.StatusDoing,
		CreatedAt: time.Date(2024, time.March, 5, 6, 4, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, time.March, 5, 21, 30, 0, 0, time.UTC),
	}

	got := RenderTask(task, msk)
	want := "🔄 Buy milk\n" +
		"#7 · 05 Mar 09:04 +03:00 – 06 Mar 00:30 +03:00\n" +
		"/edit7 /remove7\n" +
		"/planned7 /done7"
	if got != want {
		t.Fatalf("RenderTask:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderTaskGlyphs(t *testing.T) {
	for status, glyph := range map[models.Status]string{
		models.StatusPlanned: "📝",
		models.StatusDoing:   "🔄",
		models.StatusDone:    "✅",
	} {
		out := RenderTask(models.Task{ID: 1, Text: "x", Status: status}, time.UTC)
		if !strings.HasPrefix(out, glyph+" x") {
			t.Errorf("%v: unexpected block %q", status, out)
		}
		if strings.Contains(out, "/"+status.String()+"1") {
			t.Errorf("%v: block offers a move to the current status", status)
		}
	}
}

func TestRenderTaskClipsLongText(t *testing.T) {
	task := models.Task{ID: 123456, Text: strings.Repeat("я", 10000)}
	out := RenderTask(task, time.UTC)
	if n := utf8.RuneCountInString(out); n > MaxMessageLen {
		t.Fatalf("block is %d characters", n)
	}
	if !strings.Contains(out, "…") {
		t.Fatal("expected an ellipsis on clipped text")
	}
}

func blocksOf(n, size int) []string {
	blocks := make([]string, n)
	for i := range blocks {
		head := fmt.Sprintf("block-%d:", i)
		blocks[i] = head + strings.Repeat("x", max(size-len(head), 0))
	}
	return blocks
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		blocks    []string
		maxBlocks int
		wantSizes []int
	}{
		{"empty", nil, 10, nil},
		{"single", blocksOf(1, 20), 10, []int{1}},
		{"exact page", blocksOf(10, 20), 10, []int{10}},
		{"spill", blocksOf(23, 20), 10, []int{10, 10, 3}},
		{"one per message", blocksOf(3, 20), 1, []int{1, 1, 1}},
		{"zero treated as one", blocksOf(2, 20), 0, []int{1, 1}},
		{"length bound before count bound", blocksOf(5, 1500), 10, []int{2, 2, 1}},
		{"block at the limit stands alone", append(blocksOf(1, 10), blocksOf(1, MaxMessageLen)...), 10, []int{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Paginate(tt.blocks, tt.maxBlocks)
			if len(chunks) != len(tt.wantSizes) {
				t.Fatalf("got %d chunks, want %d", len(chunks), len(tt.wantSizes))
			}
			for i, c := range chunks {
				if got := len(strings.Split(c, Separator)); got != tt.wantSizes[i] {
					t.Errorf("chunk %d holds %d blocks, want %d", i, got, tt.wantSizes[i])
				}
			}
		})
	}
}

func TestPaginateRoundTrip(t *testing.T) {
	var blocks []string
	for i := 0; i < 57; i++ {
		task := models.Task{ID: int64(i + 1), Text: strings.Repeat("task ", i*13%400+1), Status: models.Statuses[i%3]}
		blocks = append(blocks, RenderTask(task, msk))
	}

	for _, page := range []int{1, 2, 3, 7, 10, 100} {
		chunks := Paginate(blocks, page)

		var rebuilt []string
		for _, c := range chunks {
			if c == "" {
				t.Fatalf("page %d: empty chunk", page)
			}
			if n := utf8.RuneCountInString(c); n > MaxMessageLen {
				t.Fatalf("page %d: chunk of %d characters", page, n)
			}
			parts := strings.Split(c, Separator)
			if len(parts) > page {
				t.Fatalf("page %d: chunk holds %d blocks", page, len(parts))
			}
			rebuilt = append(rebuilt, parts...)
		}

		if len(rebuilt) != len(blocks) {
			t.Fatalf("page %d: rebuilt %d blocks, want %d", page, len(rebuilt), len(blocks))
		}
		for i := range blocks {
			if rebuilt[i] != blocks[i] {
				t.Fatalf("page %d: block %d differs", page, i)
			}
		}
	}
}
