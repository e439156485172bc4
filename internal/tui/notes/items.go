package notes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/Paintersrp/notehub/internal/note"
)

type ListItem struct {
	note    note.Note
	summary string
	stale   bool
}

func newListItem(n note.Note, stale bool) ListItem {
	return ListItem{
		note:    n,
		summary: summarize(n.Content, summaryLimit),
		stale:   stale,
	}
}

func (i ListItem) Title() string {
	if strings.TrimSpace(i.note.Title) == "" {
		return "(untitled)"
	}
	return i.note.Title
}

func (i ListItem) Description() string {
	description := fmt.Sprintf("[%s] %s", i.note.Tag, i.note.CreatedLabel())
	if i.summary != "" {
		description += " · " + i.summary
	}
	if i.stale {
		description = staleStyle.Render(description)
	}
	return description
}

func (i ListItem) FilterValue() string {
	return strings.Join([]string{i.Title(), "[" + string(i.note.Tag) + "]", i.summary}, " ")
}

func (i ListItem) Note() note.Note {
	return i.note
}

func toListItems(notes []note.Note, stale bool) []list.Item {
	items := make([]list.Item, 0, len(notes))
	for _, n := range notes {
		items = append(items, newListItem(n, stale))
	}
	return items
}
