package notes

import "github.com/charmbracelet/bubbles/key"

type listKeyMap struct {
	focusSearch    key.Binding
	blurSearch     key.Binding
	nextPage       key.Binding
	prevPage       key.Binding
	nextTag        key.Binding
	prevTag        key.Binding
	allTags        key.Binding
	back           key.Binding
	goTo           key.Binding
	leaveAddress   key.Binding
	create         key.Binding
	refresh        key.Binding
	togglePreview  key.Binding
	toggleHelpMenu key.Binding
	quit           key.Binding
}

func newListKeyMap() *listKeyMap {
	return &listKeyMap{
		focusSearch: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		blurSearch: key.NewBinding(
			key.WithKeys("esc", "enter"),
			key.WithHelp("esc", "leave search"),
		),
		nextPage: key.NewBinding(
			key.WithKeys("]", "right"),
			key.WithHelp("]/→", "next page"),
		),
		prevPage: key.NewBinding(
			key.WithKeys("[", "left"),
			key.WithHelp("[/←", "prev page"),
		),
		nextTag: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "next tag"),
		),
		prevTag: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "prev tag"),
		),
		allTags: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all tags"),
		),
		back: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "back"),
		),
		goTo: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to address"),
		),
		leaveAddress: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		create: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "create"),
		),
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		togglePreview: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "preview"),
		),
		toggleHelpMenu: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "toggle help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (m listKeyMap) shortHelp() []key.Binding {
	return []key.Binding{
		m.focusSearch,
		m.nextPage,
		m.nextTag,
		m.create,
	}
}

func (m listKeyMap) fullHelp() []key.Binding {
	return []key.Binding{
		m.focusSearch,
		m.blurSearch,
		m.nextPage,
		m.prevPage,
		m.nextTag,
		m.prevTag,
		m.allTags,
		m.back,
		m.goTo,
		m.create,
		m.refresh,
		m.togglePreview,
		m.toggleHelpMenu,
	}
}
