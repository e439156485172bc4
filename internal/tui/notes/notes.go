// Package notes is the interactive notes browser.
package notes

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/notehub/internal/browse"
	"github.com/Paintersrp/notehub/internal/debounce"
	"github.com/Paintersrp/notehub/internal/draft"
	"github.com/Paintersrp/notehub/internal/location"
	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/internal/querycache"
	"github.com/Paintersrp/notehub/internal/state"
	"github.com/Paintersrp/notehub/internal/tui/notes/submodels"
)

// Lines taken by the header, search box, pagination and footer.
const chromeHeight = 8

type NoteListModel struct {
	state        *state.State
	ctrl         *browse.Controller
	list         list.Model
	search       submodels.InputModel
	address      submodels.InputModel
	form         submodels.FormModel
	pager        paginator.Model
	preview      *previewRenderer
	keys         *listKeyMap
	delegateKeys *delegateKeyMap
	snap         browse.Snapshot
	shown        string
	previewText  string
	status       string
	showPreview  bool
	width        int
	height       int
}

func NewNoteListModel(s *state.State) *NoteListModel {
	ctrl := browse.New(s.Sync, s.Cache, browse.Options{
		Debounce: s.Config.Debounce(),
		Logger:   s.Logger.With("component", "browse"),
	})

	dkeys := newDelegateKeyMap()
	lkeys := newListKeyMap()
	delegate := newItemDelegate(dkeys)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Styles.Title = titleStyle
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	// Arrow keys move between result pages, so the list only pages its
	// own rows with pgup/pgdown.
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up"))
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "scroll down"))
	l.AdditionalShortHelpKeys = lkeys.shortHelp
	l.AdditionalFullHelpKeys = lkeys.fullHelp

	p := paginator.New()
	p.Type = paginator.Dots
	p.ActiveDot = paginationStyle.Render("•")
	p.InactiveDot = footerStyle.Render("•")

	m := &NoteListModel{
		state:        s,
		ctrl:         ctrl,
		list:         l,
		search:       submodels.NewInputModel(ctrl.SearchText()),
		address:      submodels.NewAddressInput(),
		form:         submodels.NewFormModel(s.Workflow),
		pager:        p,
		preview:      newPreviewRenderer(),
		keys:         lkeys,
		delegateKeys: dkeys,
		showPreview:  true,
	}
	m.refresh()
	return m
}

func (m *NoteListModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.ctrl.Init(), m.state.CacheHeartbeatCmd()}
	if m.state.Watcher != nil {
		cmds = append(cmds, m.state.Watcher.Start())
	}
	return tea.Batch(cmds...)
}

// heartbeatTick schedules the next cache status refresh. The draft watcher
// is re-armed only by its own messages.
func (m *NoteListModel) heartbeatTick() tea.Cmd {
	return tea.Tick(state.HeartbeatInterval, func(time.Time) tea.Msg {
		return m.state.CacheHeartbeatCmd()()
	})
}

func (m *NoteListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()
		return m, nil

	case querycache.FetchedMsg:
		cmd := m.ctrl.Settle(msg)
		m.refresh()
		return m, cmd

	case debounce.FiredMsg:
		cmd := m.ctrl.DebounceFired(msg)
		m.refresh()
		return m, cmd

	case draft.CreatedMsg:
		return m, m.handleCreated(msg)

	case draft.FailedMsg:
		m.state.Workflow.Settle(msg)
		m.form.Settled()
		if !m.ctrl.CreateOpen() {
			return m, m.list.NewStatusMessage(statusStyle("Could not create note, press C to retry"))
		}
		return m, nil

	case submodels.CancelMsg:
		m.state.Workflow.Cancel()
		m.ctrl.CloseCreate()
		m.refresh()
		return m, nil

	case state.DraftChangedMsg:
		if err := m.state.Draft.Reload(); err != nil {
			m.state.Logger.Warn("draft reload failed", "err", err)
		} else if m.ctrl.CreateOpen() && m.state.Workflow.Phase() != draft.Submitting {
			m.form.Load()
		}
		return m, m.state.Watcher.Start()

	case state.DraftWatcherErrMsg:
		m.state.Logger.Warn("draft watcher error", "err", msg.Err)
		return m, m.state.Watcher.Start()

	case state.CacheStatsMsg:
		m.status = msg.Line
		return m, m.heartbeatTick()

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	if m.ctrl.CreateOpen() {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		cmds = append(cmds, cmd)
	}
	nl, cmd := m.list.Update(msg)
	m.list = nl
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *NoteListModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.ctrl.CreateOpen() {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return cmd
	}

	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}
	if m.address.Focused() {
		return m.handleAddressKey(msg)
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.quit):
		m.ctrl.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.focusSearch):
		cmd = m.search.Focus()
	case key.Matches(msg, m.keys.nextPage):
		cmd = m.ctrl.ChangePage(m.ctrl.Key().Page + 1)
	case key.Matches(msg, m.keys.prevPage):
		cmd = m.ctrl.ChangePage(m.ctrl.Key().Page - 1)
	case key.Matches(msg, m.keys.nextTag):
		cmd = m.ctrl.ChangeTag(m.ctrl.Key().Tag.Next())
	case key.Matches(msg, m.keys.prevTag):
		cmd = m.ctrl.ChangeTag(m.ctrl.Key().Tag.Prev())
	case key.Matches(msg, m.keys.allTags):
		cmd = m.ctrl.ChangeTag(note.NoTag)
	case key.Matches(msg, m.keys.back):
		cmd = m.ctrl.Back()
	case key.Matches(msg, m.keys.goTo):
		m.address.SetValue(m.snap.Location)
		m.address.Input.CursorEnd()
		cmd = m.address.Focus()
	case key.Matches(msg, m.keys.create):
		if m.ctrl.OpenCreate() {
			cmd = m.form.Open()
		}
	case key.Matches(msg, m.keys.refresh):
		cmd = m.ctrl.Refresh()
	case key.Matches(msg, m.keys.togglePreview):
		m.showPreview = !m.showPreview
		m.resize()
	case key.Matches(msg, m.keys.toggleHelpMenu):
		m.list.SetShowHelp(!m.list.ShowHelp())
		m.resize()
	default:
		nl, listCmd := m.list.Update(msg)
		m.list = nl
		cmd = listCmd
	}

	m.refresh()
	return cmd
}

func (m *NoteListModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		m.ctrl.Close()
		return tea.Quit
	}
	if key.Matches(msg, m.keys.blurSearch) {
		m.search.Blur()
		return nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	cmds = append(cmds, cmd)
	if m.search.Changed {
		cmds = append(cmds, m.ctrl.ChangeSearch(m.search.Value()))
	}

	m.refresh()
	return tea.Batch(cmds...)
}

// handleAddressKey edits the go-to box. Enter navigates the history to the
// typed address, the same way an outside caller would, and lets the
// controller pick the new key up.
func (m *NoteListModel) handleAddressKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.ctrl.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.leaveAddress):
		m.address.Blur()
		return nil
	case msg.Type == tea.KeyEnter:
		m.address.Blur()
		loc, err := location.Parse(m.address.Value())
		if err != nil {
			m.state.Logger.Debug("address rejected", "input", m.address.Value(), "err", err)
			return m.list.NewStatusMessage(statusStyle("Invalid address: " + err.Error()))
		}
		canonical := location.FromKey(loc.Key())
		if canonical.Equal(m.state.History.Current()) {
			return nil
		}
		m.state.History.Push(canonical)
		cmd := m.ctrl.Sync()
		m.refresh()
		return cmd
	}

	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return cmd
}

func (m *NoteListModel) handleCreated(msg draft.CreatedMsg) tea.Cmd {
	phase := m.state.Workflow.Settle(msg)
	m.form.Settled()
	if phase != draft.Succeeded {
		return nil
	}

	cmd := m.ctrl.NoteCreated(msg.Note)
	m.refresh()
	return tea.Batch(cmd, m.list.NewStatusMessage(statusStyle("Created "+msg.Note.Title)))
}

// refresh pulls a new snapshot from the controller and mirrors it into the
// list, paginator, search box and preview.
func (m *NoteListModel) refresh() {
	m.snap = m.ctrl.Snapshot()
	m.list.Title = m.snap.Key.Title()

	if sig := snapshotSignature(m.snap); sig != m.shown {
		m.shown = sig
		m.list.SetItems(toListItems(m.snap.Notes, m.snap.Stale))
		if m.list.Index() >= len(m.snap.Notes) {
			m.list.ResetSelected()
		}
	}

	if m.snap.ShowPagination {
		m.pager.TotalPages = m.snap.TotalPages
		m.pager.Page = min(m.snap.Key.Page, m.snap.TotalPages) - 1
	}

	if !m.search.Focused() && m.search.Value() != m.snap.SearchText {
		m.search.SetValue(m.snap.SearchText)
	}

	m.updatePreview()
}

func (m *NoteListModel) updatePreview() {
	if !m.showPreview || m.snap.State != browse.Loaded {
		m.previewText = ""
		return
	}
	if i, ok := m.list.SelectedItem().(ListItem); ok {
		m.previewText = m.preview.Render(i.Note(), m.previewWidth())
	}
}

func (m *NoteListModel) resize() {
	h, v := appStyle.GetFrameSize()
	w := m.width - h
	if m.showPreview {
		w /= 2
	}
	height := m.height - v - chromeHeight
	if height < 3 {
		height = 3
	}
	m.list.SetSize(w, height)
}

func (m *NoteListModel) previewWidth() int {
	h, _ := appStyle.GetFrameSize()
	return (m.width-h)/2 - 4
}

func (m *NoteListModel) View() string {
	if m.ctrl.CreateOpen() {
		modelStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).Padding(0, 1)
		return appStyle.Render(modelStyle.Render(m.form.View()))
	}

	sections := []string{m.headerView(), m.searchView(), m.bodyView()}
	if m.snap.ShowPagination {
		sections = append(sections, m.paginationView())
	}
	var hints []key.Binding
	if m.snap.State != browse.Loaded {
		// The list renders its own help once there are rows to show.
		hints = m.keys.shortHelp()
	}
	sections = append(sections, renderFooter(m.status, hints))

	h, v := appStyle.GetFrameSize()
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return appStyle.Render(padFrame(content, m.width-h, m.height-v))
}

func (m *NoteListModel) headerView() string {
	header := locationStyle.Render(m.snap.Location)
	switch {
	case m.snap.Err != nil && m.snap.Stale:
		header += errorStyle.Render(" update failed, press r to retry")
	case m.snap.Fetching && m.snap.Stale:
		header += staleStyle.Render(" updating…")
	case m.snap.Fetching:
		header += staleStyle.Render(" loading…")
	}
	return header
}

func (m *NoteListModel) searchView() string {
	box, style := m.search, searchStyle
	switch {
	case m.address.Focused():
		box, style = m.address, searchFocusedStyle
	case m.search.Focused():
		style = searchFocusedStyle
	}
	h, _ := appStyle.GetFrameSize()
	if w := m.width - h - 2; w > 0 {
		style = style.Copy().Width(w)
	}
	return style.Render(box.View())
}

func (m *NoteListModel) bodyView() string {
	title := titleStyle.Render(m.snap.Key.Title())

	switch m.snap.State {
	case browse.Loading:
		return lipgloss.JoinVertical(lipgloss.Left, title, messageStyle.Render("Loading notes…"))
	case browse.Error:
		msg := "Could not load notes."
		if m.snap.Err != nil {
			msg = fmt.Sprintf("Could not load notes: %v", m.snap.Err)
		}
		return lipgloss.JoinVertical(lipgloss.Left, title,
			errorStyle.Render(msg),
			renderHelpWithinWidth(m.width/2, "press r to retry"))
	case browse.Empty:
		msg := "No notes found."
		if m.snap.Key.Search != "" {
			msg = fmt.Sprintf("No notes match %q.", m.snap.Key.Search)
		}
		return lipgloss.JoinVertical(lipgloss.Left, title, messageStyle.Render(msg))
	}

	listView := listStyle.Render(m.list.View())
	if !m.showPreview {
		return listView
	}

	preview := previewStyle.Render(
		lipgloss.NewStyle().
			Height(m.list.Height()).
			MaxHeight(m.list.Height()).
			MaxWidth(800).
			Render(fmt.Sprintf("%s\n%s", titleStyle.Render("Preview"), m.previewText)),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, listView, preview)
}

func (m *NoteListModel) paginationView() string {
	label := fmt.Sprintf("Page %d of %d", m.snap.Key.Page, m.snap.TotalPages)
	return paginationStyle.Render(label + "  " + m.pager.View())
}

func snapshotSignature(s browse.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d|%t|", s.Key.String(), s.State, s.Stale)
	for _, n := range s.Notes {
		b.WriteString(n.ID)
		b.WriteByte(',')
	}
	return b.String()
}

// Run starts the browser in the alternate screen and blocks until it exits.
func Run(s *state.State) error {
	m := NewNoteListModel(s)
	defer m.ctrl.Close()

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
