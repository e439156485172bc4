package submodels

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	focusedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF"))

	cursorStyle = focusedStyle.Copy()
)

// InputModel is the search box. Changed reports whether the last update
// edited the text.
type InputModel struct {
	Input   textinput.Model
	Changed bool
}

func NewInputModel(value string) InputModel {
	t := textinput.New()
	t.Placeholder = "Search notes"
	t.Prompt = "/ "
	t.Cursor.Style = cursorStyle
	t.PromptStyle = focusedStyle
	t.TextStyle = focusedStyle
	t.CharLimit = 120
	t.SetValue(value)

	return InputModel{Input: t}
}

func (m InputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m InputModel) Update(msg tea.Msg) (InputModel, tea.Cmd) {
	before := m.Input.Value()

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	m.Changed = m.Input.Value() != before

	return m, cmd
}

func (m *InputModel) Focus() tea.Cmd {
	return m.Input.Focus()
}

func (m *InputModel) Blur() {
	m.Input.Blur()
}

func (m InputModel) Focused() bool {
	return m.Input.Focused()
}

func (m InputModel) Value() string {
	return m.Input.Value()
}

// NewAddressInput is the go-to box for typing a browsing address.
func NewAddressInput() InputModel {
	m := NewInputModel("")
	m.Input.Placeholder = "/notes/filter/<tag|all>?page=N&search=text"
	m.Input.Prompt = "@ "
	m.Input.CharLimit = 240
	return m
}

// SetValue replaces the text without reporting a change.
func (m *InputModel) SetValue(s string) {
	m.Input.SetValue(s)
	m.Changed = false
}

func (m InputModel) View() string {
	return m.Input.View()
}
