package submodels

import (
	tea "github.com/charmbracelet/bubbletea"
)

// SubmitMsg asks the form to submit its draft.
type SubmitMsg struct{}

type SubmitButton struct {
	focused bool
	busy    bool
}

func NewSubmitButton() SubmitButton {
	return SubmitButton{}
}

func (b *SubmitButton) Focus() {
	b.focused = true
}

func (b *SubmitButton) Blur() {
	b.focused = false
}

// SetBusy disables the button while a submission is in flight.
func (b *SubmitButton) SetBusy(busy bool) {
	b.busy = busy
}

func (b SubmitButton) Update(msg tea.Msg) (SubmitButton, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if b.focused && !b.busy && msg.Type == tea.KeyEnter {
			return b, func() tea.Msg { return SubmitMsg{} }
		}
	}
	return b, nil
}

func (b SubmitButton) View() string {
	if b.busy {
		return "[ Creating… ]"
	}
	return "[ Create ]"
}
