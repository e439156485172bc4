package notes

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/notehub/internal/note"
)

func TestSummarizeFlattensMarkdown(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		in    string
		limit int
		want  string
	}{
		"list":     {in: "- milk\n- eggs\n- **coffee**", limit: 80, want: "milk eggs coffee"},
		"emphasis": {in: "Draft the *numbers* section first.", limit: 80, want: "Draft the numbers section first."},
		"heading":  {in: "# Plan\n\nShip `v2` soon", limit: 80, want: "Plan Ship v2 soon"},
		"code":     {in: "Intro\n\n```go\nfmt.Println()\n```\n\nOutro", limit: 80, want: "Intro Outro"},
		"truncate": {in: "abcdefghij", limit: 5, want: "abcd…"},
		"empty":    {in: "", limit: 10, want: ""},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := summarize(tc.in, tc.limit); got != tc.want {
				t.Fatalf("summarize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestListItemRendering(t *testing.T) {
	t.Parallel()

	n := note.Note{
		ID:        "n-1",
		Title:     "Standup",
		Content:   "Blocked on **API** review.",
		Tag:       note.Meeting,
		CreatedAt: "2024-03-08T09:00:00Z",
	}
	item := newListItem(n, false)

	if item.Title() != "Standup" {
		t.Fatalf("unexpected title %q", item.Title())
	}
	desc := item.Description()
	if !strings.HasPrefix(desc, "[Meeting] ") || !strings.Contains(desc, "Blocked on API review.") {
		t.Fatalf("unexpected description %q", desc)
	}
	if !strings.Contains(item.FilterValue(), "[Meeting]") {
		t.Fatalf("unexpected filter value %q", item.FilterValue())
	}

	if got := newListItem(note.Note{Tag: note.Todo}, false).Title(); got != "(untitled)" {
		t.Fatalf("expected untitled placeholder, got %q", got)
	}
}

func TestDelegateCopiesSelectedNote(t *testing.T) {
	// Not parallel: swaps the package clipboard writer.
	var copied []string
	original := writeClipboard
	writeClipboard = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	t.Cleanup(func() { writeClipboard = original })

	keys := newDelegateKeyMap()
	d := newItemDelegate(keys)
	items := toListItems([]note.Note{{ID: "n-7", Title: "Dentist", Content: "Tuesday 10:00.", Tag: note.Personal}}, false)
	l := list.New(items, d, 80, 20)

	cmd := d.UpdateFunc(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Y")}, &l)
	if cmd == nil || len(copied) != 1 || copied[0] != "Tuesday 10:00." {
		t.Fatalf("expected content copied, got %v", copied)
	}

	d.UpdateFunc(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("I")}, &l)
	if len(copied) != 2 || copied[1] != "n-7" {
		t.Fatalf("expected id copied, got %v", copied)
	}

	writeClipboard = func(string) error { return errors.New("no clipboard") }
	if cmd := d.UpdateFunc(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Y")}, &l); cmd == nil {
		t.Fatal("expected a status message on failure")
	}
}

func TestPreviewCachesPerWidth(t *testing.T) {
	t.Parallel()

	p := newPreviewRenderer()
	calls := 0
	p.render = func(content string, width int) (string, error) {
		calls++
		return content, nil
	}

	n := note.Note{ID: "a", Title: "Title", Content: "body", Tag: note.Work, UpdatedAt: "1"}
	first := p.Render(n, 60)
	p.Render(n, 60)
	if calls != 1 {
		t.Fatalf("expected one render, got %d", calls)
	}
	if !strings.Contains(first, "# Title") || !strings.Contains(first, "body") {
		t.Fatalf("unexpected preview markdown %q", first)
	}

	p.Render(n, 80)
	n.UpdatedAt = "2"
	p.Render(n, 80)
	if calls != 3 || p.Len() != 3 {
		t.Fatalf("expected width and revision to miss the cache, calls %d entries %d", calls, p.Len())
	}

	p.render = func(string, int) (string, error) { return "", errors.New("bad") }
	n.ID = "b"
	if got := p.Render(n, 80); got != "Error rendering markdown" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestFooterHelpers(t *testing.T) {
	t.Parallel()

	b := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	if got := formatShortcut(b); got != "r Refresh" {
		t.Fatalf("unexpected shortcut %q", got)
	}

	disabled := key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"))
	disabled.SetEnabled(false)
	footer := renderFooter("Cache: 2 keys", []key.Binding{b, disabled})
	if !strings.Contains(footer, "Cache: 2 keys") || !strings.Contains(footer, "r Refresh") || strings.Contains(footer, "Hidden") {
		t.Fatalf("unexpected footer %q", footer)
	}

	framed := padFrame("ab\nc", 4, 3)
	lines := strings.Split(framed, "\n")
	if len(lines) != 3 || lines[0] != "ab  " || lines[2] != "    " {
		t.Fatalf("unexpected frame %q", framed)
	}
}
