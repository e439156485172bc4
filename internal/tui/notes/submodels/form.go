package submodels

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/notehub/internal/draft"
	"github.com/Paintersrp/notehub/internal/note"
)

// CancelMsg asks the owner to close the form. The draft is kept.
type CancelMsg struct{}

const (
	titleField = iota
	contentField
	tagField
	buttonField
	fieldCount
)

const (
	hotPink  = lipgloss.Color("#0AF")
	darkGray = lipgloss.Color("#767676")
	red      = lipgloss.Color("#F55")
)

var (
	formInputStyle = lipgloss.NewStyle().Foreground(hotPink)
	formTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Background(lipgloss.Color("transparent")).
			Padding(1, 0)

	continueStyle  = lipgloss.NewStyle().Foreground(darkGray)
	formErrorStyle = lipgloss.NewStyle().Foreground(red)
	tagOnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).Background(hotPink).Padding(0, 1)
	tagOffStyle    = lipgloss.NewStyle().Foreground(darkGray).Padding(0, 1)
)

// FormModel edits the draft owned by a workflow. Every edit is written
// through to the draft store, so closing and reopening the form shows the
// same values.
type FormModel struct {
	workflow *draft.Workflow
	title    textinput.Model
	content  textarea.Model
	tag      note.Tag
	Focused  int
	btn      SubmitButton
	err      error
}

func NewFormModel(wf *draft.Workflow) FormModel {
	t := textinput.New()
	t.Placeholder = "Title"
	t.CharLimit = 120
	t.Width = 50
	t.Prompt = ""

	c := textarea.New()
	c.Placeholder = "Content (markdown)"
	c.ShowLineNumbers = false
	c.SetWidth(50)
	c.SetHeight(6)
	c.CharLimit = 0

	m := FormModel{
		workflow: wf,
		title:    t,
		content:  c,
		btn:      NewSubmitButton(),
	}
	m.Load()
	return m
}

// Open prepares the form for display with the latest draft.
func (m *FormModel) Open() tea.Cmd {
	m.Load()
	m.err = m.workflow.Err()
	m.Focused = titleField
	return m.applyFocus()
}

// Load copies the stored draft into the inputs.
func (m *FormModel) Load() {
	d := m.workflow.Store().Get()
	m.title.SetValue(d.Title)
	m.content.SetValue(d.Content)
	m.tag = d.Tag
	if !m.tag.IsFilter() {
		m.tag = draft.DefaultTag
	}
	m.btn.SetBusy(m.workflow.Phase() == draft.Submitting)
}

// Settled refreshes the form after the workflow settled a submission.
func (m *FormModel) Settled() {
	m.err = m.workflow.Err()
	m.Load()
}

func (m FormModel) Err() error {
	return m.err
}

func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case SubmitMsg:
		return m.submit()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, func() tea.Msg { return CancelMsg{} }
		}
		// Fields are frozen while the note is being created.
		if m.workflow.Phase() == draft.Submitting {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyCtrlS:
			return m.submit()
		case tea.KeyShiftTab, tea.KeyCtrlP:
			m.prevInput()
			return m, m.applyFocus()
		case tea.KeyTab, tea.KeyCtrlN:
			m.nextInput()
			return m, m.applyFocus()
		case tea.KeyEnter:
			if m.Focused == titleField || m.Focused == tagField {
				m.nextInput()
				return m, m.applyFocus()
			}
		}

		if m.Focused == tagField {
			switch msg.String() {
			case "left", "h":
				m.cycleTag(-1)
			case "right", "l", " ":
				m.cycleTag(1)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.Focused {
	case titleField:
		m.title, cmd = m.title.Update(msg)
	case contentField:
		m.content, cmd = m.content.Update(msg)
	case buttonField:
		m.btn, cmd = m.btn.Update(msg)
	}
	m.writeThrough()

	return m, cmd
}

func (m FormModel) View() string {
	var btnView string
	if m.Focused == buttonField {
		btnView = formInputStyle.Render(m.btn.View())
	} else {
		btnView = continueStyle.Render(m.btn.View())
	}

	var errView string
	if m.err != nil {
		errView = formErrorStyle.Width(50).Render(capitalizeFirst(m.err.Error()))
	}

	return fmt.Sprintf(
		`
%s
%s

%s
%s

%s
%s

%s
%s

%s
%s
%s
`,
		formTitleStyle.Render("Create a new note"),
		continueStyle.Render("tab next field · ctrl+s create · esc close (draft is kept)"),
		m.label("Title", titleField),
		m.title.View(),
		m.label("Content", contentField),
		m.content.View(),
		m.label("Tag", tagField),
		m.tagsView(),
		btnView,
		errView,
		"",
	)
}

func (m FormModel) submit() (FormModel, tea.Cmd) {
	m.writeThrough()

	cmd, err := m.workflow.Submit()
	if err != nil {
		m.err = err
		if errors.Is(err, draft.ErrTitleRequired) {
			m.Focused = titleField
			return m, m.applyFocus()
		}
		return m, nil
	}

	m.err = nil
	m.btn.SetBusy(true)
	return m, cmd
}

func (m FormModel) writeThrough() {
	title, content, tag := m.title.Value(), m.content.Value(), m.tag
	d := m.workflow.Store().Get()
	if d.Title == title && d.Content == content && d.Tag == tag {
		return
	}
	m.workflow.Store().Update(func(d *draft.Draft) {
		d.Title = title
		d.Content = content
		d.Tag = tag
	})
}

func (m *FormModel) cycleTag(step int) {
	idx := 0
	for i, t := range note.Tags {
		if t == m.tag {
			idx = i
			break
		}
	}
	idx = (idx + step + len(note.Tags)) % len(note.Tags)
	m.tag = note.Tags[idx]
	m.writeThrough()
}

func (m FormModel) tagsView() string {
	parts := make([]string, 0, len(note.Tags))
	for _, t := range note.Tags {
		if t == m.tag {
			parts = append(parts, tagOnStyle.Render(t.String()))
		} else {
			parts = append(parts, tagOffStyle.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

func (m FormModel) label(text string, field int) string {
	if m.Focused == field {
		return formInputStyle.Width(50).Render("› " + text)
	}
	return formInputStyle.Width(50).Render(text)
}

func (m *FormModel) applyFocus() tea.Cmd {
	m.title.Blur()
	m.content.Blur()
	m.btn.Blur()

	switch m.Focused {
	case titleField:
		return m.title.Focus()
	case contentField:
		return m.content.Focus()
	case buttonField:
		m.btn.Focus()
	}
	return nil
}

func (m *FormModel) nextInput() {
	m.Focused = (m.Focused + 1) % fieldCount
}

func (m *FormModel) prevInput() {
	m.Focused--
	if m.Focused < 0 {
		m.Focused = fieldCount - 1
	}
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
