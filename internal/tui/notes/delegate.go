package notes

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

func newItemDelegate(keys *delegateKeyMap) list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.Styles.SelectedTitle = selectedItemStyle
	d.Styles.SelectedDesc = selectedItemStyle

	d.UpdateFunc = func(msg tea.Msg, m *list.Model) tea.Cmd {
		i, ok := m.SelectedItem().(ListItem)
		if !ok {
			return nil
		}

		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch {
			case key.Matches(msg, keys.copyContent):
				if err := writeClipboard(i.note.Content); err != nil {
					return m.NewStatusMessage(statusStyle("Failed to copy " + i.Title()))
				}
				return m.NewStatusMessage(statusStyle("Copied " + i.Title()))

			case key.Matches(msg, keys.copyID):
				if err := writeClipboard(i.note.ID); err != nil {
					return m.NewStatusMessage(statusStyle("Failed to copy id"))
				}
				return m.NewStatusMessage(statusStyle("Copied id " + i.note.ID))
			}
		}

		return nil
	}

	help := []key.Binding{keys.copyContent, keys.copyID}
	d.ShortHelpFunc = func() []key.Binding { return help }
	d.FullHelpFunc = func() [][]key.Binding { return [][]key.Binding{help} }

	return d
}

type delegateKeyMap struct {
	copyContent key.Binding
	copyID      key.Binding
}

func newDelegateKeyMap() *delegateKeyMap {
	return &delegateKeyMap{
		copyContent: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy"),
		),
		copyID: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "copy id"),
		),
	}
}
