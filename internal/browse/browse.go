// Package browse ties the address, the search debouncer and the query cache
// into the state shown by the notes view.
package browse

import (
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/notehub/internal/debounce"
	"github.com/Paintersrp/notehub/internal/location"
	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/internal/query"
	"github.com/Paintersrp/notehub/internal/querycache"
)

// ViewState is what the notes area shows.
type ViewState int

const (
	Loading ViewState = iota
	Error
	Empty
	Loaded
)

func (s ViewState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Empty:
		return "empty"
	case Loaded:
		return "loaded"
	}
	return "unknown"
}

// Snapshot is everything a renderer needs for one frame.
type Snapshot struct {
	State          ViewState
	Key            query.Key
	Location       string
	Notes          []note.Note
	TotalPages     int
	ShowPagination bool
	// Stale is set while the notes shown belong to an older fetch or to a
	// previous key.
	Stale      bool
	Fetching   bool
	Err        error
	CreateOpen bool
	SearchText string
}

// Options configures a Controller.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// Controller turns user intents into address commits and fetches. All
// methods are meant to be called from the event loop.
type Controller struct {
	sync   *location.Synchronizer
	search *debounce.Debouncer
	cache  *querycache.Cache
	logger *slog.Logger

	searchText string
	createOpen bool
	closed     bool

	// navigating is set while the controller itself moves the address.
	// Any other navigation marks the address foreign until Sync.
	navigating bool
	foreign    bool
}

// New builds a Controller over an address synchronizer and a query cache.
func New(sync *location.Synchronizer, cache *querycache.Cache, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Controller{
		sync:       sync,
		search:     debounce.New("search", opts.Debounce),
		cache:      cache,
		logger:     opts.Logger,
		searchText: sync.Key().Search,
	}
	sync.OnNavigate(c.observe)
	return c
}

// Key is the key derived from the current address.
func (c *Controller) Key() query.Key {
	return c.sync.Key()
}

// Init canonicalizes the starting address and requests its key.
func (c *Controller) Init() tea.Cmd {
	c.navigate(func() { c.sync.Canonicalize() })
	return c.request()
}

// Sync re-derives the key after the address was moved by someone other
// than the controller. It returns nil when the address is the one the
// controller last set.
func (c *Controller) Sync() tea.Cmd {
	if c.closed || !c.foreign {
		return nil
	}
	c.foreign = false
	c.search.Discard()
	c.searchText = c.sync.Key().Search
	c.logger.Debug("address changed externally", "location", c.sync.Location().String())
	return c.request()
}

// Foreign reports whether the address moved without the controller since
// the last Sync.
func (c *Controller) Foreign() bool {
	return c.foreign
}

// ChangeSearch records typed text at once and schedules the commit.
func (c *Controller) ChangeSearch(text string) tea.Cmd {
	if c.closed {
		return nil
	}
	c.searchText = text
	return c.search.Schedule(text)
}

// DebounceFired commits the settled search text. Ticks from superseded
// keystrokes are ignored.
func (c *Controller) DebounceFired(msg debounce.FiredMsg) tea.Cmd {
	if c.closed || !c.search.Matches(msg) {
		return nil
	}
	text, ok := c.search.Fire(msg.Token)
	if !ok {
		return nil
	}
	var key query.Key
	c.navigate(func() { key = c.sync.Commit(location.SearchOnly(text)) })
	c.logger.Debug("search committed", "search", text, "key", key.String())
	return c.request()
}

// ChangePage moves to page n, clamped to the known page range.
func (c *Controller) ChangePage(n int) tea.Cmd {
	if c.closed {
		return nil
	}
	if total := c.totalPages(); total > 0 && n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	if n == c.sync.Key().Page {
		return nil
	}

	c.navigate(func() { c.sync.Commit(location.PageOnly(n)) })
	return c.request()
}

// ChangeTag navigates to the first page of tag with no search. A search
// still waiting on the debouncer is dropped.
func (c *Controller) ChangeTag(tag note.Tag) tea.Cmd {
	if c.closed {
		return nil
	}
	c.search.Discard()
	c.searchText = ""

	c.navigate(func() { c.sync.NavigateTag(tag) })
	return c.request()
}

// Back steps the address back one navigation.
func (c *Controller) Back() tea.Cmd {
	if c.closed {
		return nil
	}
	var (
		key query.Key
		ok  bool
	)
	c.navigate(func() { key, ok = c.sync.Back() })
	if !ok {
		return nil
	}
	c.search.Discard()
	c.searchText = key.Search
	return c.request()
}

// Refresh refetches the current key.
func (c *Controller) Refresh() tea.Cmd {
	if c.closed {
		return nil
	}
	current := c.sync.Key()
	return c.cache.Invalidate(func(k query.Key) bool { return k == current })
}

// Settle feeds a fetch outcome to the cache and returns the refetch an
// invalidation may have left owed for the current key.
func (c *Controller) Settle(msg querycache.FetchedMsg) tea.Cmd {
	c.cache.Settle(msg)
	if c.closed {
		return nil
	}
	return c.cache.Refetch()
}

// OpenCreate opens the creation form. It reports false when the form is
// already open.
func (c *Controller) OpenCreate() bool {
	if c.createOpen || c.closed {
		return false
	}
	c.createOpen = true
	return true
}

// CloseCreate hides the creation form.
func (c *Controller) CloseCreate() {
	c.createOpen = false
}

// CreateOpen reports whether the creation form is showing.
func (c *Controller) CreateOpen() bool {
	return c.createOpen
}

// NoteCreated closes the form and invalidates every listing the note can
// appear in.
func (c *Controller) NoteCreated(n note.Note) tea.Cmd {
	c.createOpen = false
	c.logger.Debug("invalidating after create", "tag", n.Tag)
	return c.cache.InvalidateTag(n.Tag)
}

// Close tears the controller down. A pending search never commits.
func (c *Controller) Close() {
	c.search.Cancel()
	c.closed = true
}

// SearchText is the text in the search box, which may be ahead of the
// committed search.
func (c *Controller) SearchText() string {
	return c.searchText
}

// Snapshot derives the view state from the address and the cache.
func (c *Controller) Snapshot() Snapshot {
	key := c.sync.Key()
	r := c.cache.Observe()

	s := Snapshot{
		Key:        key,
		Location:   c.sync.Location().String(),
		Fetching:   r.Fetching,
		Err:        r.Err,
		CreateOpen: c.createOpen,
		SearchText: c.searchText,
	}

	if r.Key != key {
		s.State = Loading
		return s
	}

	switch {
	case r.Data == nil && r.Status == querycache.Failed:
		s.State = Error
		return s
	case r.Data == nil:
		s.State = Loading
		return s
	}

	s.Notes = r.Data.Notes
	s.TotalPages = r.Data.TotalPages
	s.ShowPagination = s.TotalPages > 1
	s.Stale = r.Placeholder || r.Stale
	if len(s.Notes) == 0 {
		s.State = Empty
	} else {
		s.State = Loaded
	}
	return s
}

func (c *Controller) navigate(fn func()) {
	c.navigating = true
	defer func() { c.navigating = false }()
	fn()
}

func (c *Controller) observe(location.Location) {
	if !c.navigating {
		c.foreign = true
	}
}

func (c *Controller) request() tea.Cmd {
	return c.cache.Request(c.sync.Key())
}

func (c *Controller) totalPages() int {
	r := c.cache.Observe()
	if r.Data == nil || r.Placeholder {
		return 0
	}
	return r.Data.TotalPages
}
