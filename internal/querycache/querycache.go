// Package querycache maps query keys to note pages, fetching from the note
// store only when needed and keeping the last displayed page visible while a
// new one loads.
package querycache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/singleflight"

	"github.com/Paintersrp/notehub/internal/cache"
	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/internal/notestore"
	"github.com/Paintersrp/notehub/internal/query"
)

// ErrNoStore is returned by Load when the cache was built without a lister.
var ErrNoStore = errors.New("query cache has no note store")

// Status is the lifecycle state of a cache entry.
type Status int

const (
	Idle Status = iota
	Pending
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failed:
		return "error"
	}
	return "unknown"
}

// FetchError wraps a failed list call with the key it was made for.
type FetchError struct {
	Key query.Key
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Key, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetchedMsg carries the outcome of one fetch back to the event loop.
type FetchedMsg struct {
	Key     query.Key
	Version uint64
	Page    note.ResultPage
	Err     error
}

// Entry is a read-only view of one cached key.
type Entry struct {
	Status      Status
	Data        *note.ResultPage
	Err         error
	FetchedAt   uint64
	Fetching    bool
	Invalidated bool
	UpdatedAt   time.Time
}

// Result is what the consumer of the current key observes.
type Result struct {
	Key    query.Key
	Status Status
	Data   *note.ResultPage
	// Placeholder is set when Data belongs to a previously displayed key.
	Placeholder bool
	// Stale is set when Data is the key's own data but is being or should
	// be refetched.
	Stale    bool
	Fetching bool
	Err      error
}

// Stats captures lightweight instrumentation about the cache.
type Stats struct {
	Entries    int
	Fetches    int
	Hits       int
	Dropped    int
	Suppressed int
}

// Options configures a Cache.
type Options struct {
	PerPage    int
	Timeout    time.Duration
	MaxEntries int
	Logger     *slog.Logger
}

type entry struct {
	status      Status
	data        *note.ResultPage
	err         error
	fetchedAt   uint64
	inFlight    uint64
	attempt     *attempt
	invalidated bool
	// refetch is set when an invalidation lands while a fetch is in
	// flight. That fetch still settles, but its data is stale on arrival.
	refetch   bool
	updatedAt time.Time
}

// attempt is one store call for a key. The event loop command and any
// Load waiting on the same key share it.
type attempt struct {
	name    string
	version uint64
	params  query.ListParams

	done bool
	page note.ResultPage
	err  error
}

// Cache is the process-wide keyed store of note pages. Every state
// transition happens under one mutex so consumers never observe a half
// applied update.
type Cache struct {
	mu      sync.Mutex
	lister  notestore.Lister
	perPage int
	timeout time.Duration
	logger  *slog.Logger

	entries    *cache.LRU[query.Key, *entry]
	current    query.Key
	hasCurrent bool
	shown      *note.ResultPage
	version    uint64
	stats      Stats

	group singleflight.Group
	now   func() time.Time
}

// New builds a Cache that lists notes through lister.
func New(lister notestore.Lister, opts Options) *Cache {
	if opts.PerPage <= 0 {
		opts.PerPage = notestore.DefaultPerPage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Cache{
		lister:  lister,
		perPage: opts.PerPage,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		now:     time.Now,
	}
	c.entries = cache.NewLRU[query.Key, *entry](
		opts.MaxEntries,
		cache.WithPinned[query.Key, *entry](c.pinned),
		cache.WithEvictCallback(func(k query.Key, _ *entry) {
			c.logger.Debug("query evicted", "key", k.String())
		}),
	)
	return c
}

// Request makes key the current key. It returns nil when the key is already
// cached and fresh or when a fetch for it is in flight; otherwise it starts
// exactly one fetch and returns the command that performs it.
func (c *Cache) Request(key query.Key) tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = key
	c.hasCurrent = true

	e := c.lookupLocked(key)
	if e.inFlight != 0 {
		c.logger.Debug("fetch already in flight", "key", key.String())
		return nil
	}
	if e.status == Success && !e.invalidated {
		c.stats.Hits++
		c.shown = e.data
		c.logger.Debug("query cache hit", "key", key.String())
		return nil
	}

	return c.startLocked(key, e)
}

// Settle applies a fetch outcome. Outcomes from superseded attempts are
// dropped. Outcomes for keys that are no longer current are cached for
// their own key but never reach the displayed result. It reports whether
// the displayed result changed.
func (c *Cache) Settle(msg FetchedMsg) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Peek(msg.Key)
	if !ok || e.inFlight != msg.Version {
		c.stats.Dropped++
		c.logger.Debug("superseded fetch dropped", "key", msg.Key.String(), "version", msg.Version)
		return false
	}

	e.inFlight = 0
	e.attempt = nil
	e.updatedAt = c.now()
	if msg.Err != nil {
		e.status = Failed
		e.err = &FetchError{Key: msg.Key, Err: msg.Err}
		c.logger.Warn("fetch failed", "key", msg.Key.String(), "err", msg.Err)
	} else {
		page := msg.Page
		if page.Notes == nil {
			page.Notes = []note.Note{}
		}
		e.status = Success
		e.data = &page
		e.err = nil
		e.fetchedAt = msg.Version
		e.invalidated = e.refetch
		c.logger.Debug("fetch settled", "key", msg.Key.String(), "notes", len(page.Notes), "total_pages", page.TotalPages)
	}

	if !c.hasCurrent || msg.Key != c.current {
		c.stats.Suppressed++
		c.logger.Debug("late completion kept off screen", "key", msg.Key.String(), "current", c.current.String())
		return false
	}

	if msg.Err == nil {
		c.shown = e.data
	}
	return true
}

// Observe returns the result for the current key, substituting the last
// displayed page while the current key has no data of its own.
func (c *Cache) Observe() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasCurrent {
		return Result{Status: Idle}
	}

	r := Result{Key: c.current, Status: Idle}
	if e, ok := c.entries.Peek(c.current); ok {
		r.Status = e.status
		r.Fetching = e.inFlight != 0
		r.Err = e.err
		if e.data != nil {
			r.Data = e.data
			r.Stale = e.invalidated || e.status == Failed || r.Fetching
			return r
		}
	}

	if c.shown != nil {
		r.Data = c.shown
		r.Placeholder = true
	}
	return r
}

// Current returns the key last passed to Request.
func (c *Cache) Current() (query.Key, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.hasCurrent
}

// Entry returns a snapshot of the entry for key.
func (c *Cache) Entry(key query.Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Peek(key)
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Status:      e.status,
		Data:        e.data,
		Err:         e.err,
		FetchedAt:   e.fetchedAt,
		Fetching:    e.inFlight != 0,
		Invalidated: e.invalidated,
		UpdatedAt:   e.updatedAt,
	}, true
}

// Invalidate marks every key matching pred as stale. Stale keys refetch on
// their next Request; the current key, if it matches, refetches now. A key
// with a fetch in flight keeps that single fetch and is refetched once it
// settles, see Refetch.
func (c *Cache) Invalidate(pred func(query.Key) bool) tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	marked := 0
	c.entries.Range(func(k query.Key, e *entry) bool {
		if pred(k) {
			e.invalidated = true
			e.refetch = e.inFlight != 0
			marked++
		}
		return true
	})
	c.logger.Debug("queries invalidated", "count", marked)

	if !c.hasCurrent || !pred(c.current) {
		return nil
	}
	e := c.lookupLocked(c.current)
	e.invalidated = true
	if e.inFlight != 0 {
		e.refetch = true
		c.logger.Debug("refetch deferred until in-flight fetch settles", "key", c.current.String())
		return nil
	}
	return c.startLocked(c.current, e)
}

// Refetch starts the fetch owed to the current key by an invalidation that
// arrived while its previous fetch was in flight. It returns nil when
// nothing is owed.
func (c *Cache) Refetch() tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasCurrent {
		return nil
	}
	e, ok := c.entries.Peek(c.current)
	if !ok || !e.refetch || e.inFlight != 0 {
		return nil
	}
	return c.startLocked(c.current, e)
}

// InvalidateTag invalidates every key filtered by tag and every unfiltered
// key, which is where a new note with that tag can appear.
func (c *Cache) InvalidateTag(tag note.Tag) tea.Cmd {
	return c.Invalidate(func(k query.Key) bool {
		return !k.Tag.IsFilter() || k.Tag == tag
	})
}

// Clear drops every entry and the placeholder.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Purge()
	c.shown = nil
}

// Stats returns instrumentation counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = c.entries.Len()
	return s
}

// Load resolves key synchronously for callers outside the event loop.
// Load joins a fetch already in flight for key, whether another Load or the
// event loop started it, so the store is called once per attempt. Load does
// not change the current key.
func (c *Cache) Load(ctx context.Context, key query.Key) (note.ResultPage, error) {
	if c.lister == nil {
		return note.ResultPage{}, ErrNoStore
	}

	c.mu.Lock()
	e := c.lookupLocked(key)
	if e.status == Success && !e.invalidated && e.inFlight == 0 {
		c.stats.Hits++
		page := *e.data
		c.mu.Unlock()
		return page, nil
	}
	a := e.attempt
	if e.inFlight == 0 || a == nil {
		a = c.beginLocked(key, e)
	} else {
		c.logger.Debug("load joined in-flight fetch", "key", key.String(), "version", a.version)
	}
	c.mu.Unlock()

	var res singleflight.Result
	select {
	case res = <-c.group.DoChan(a.name, c.fetchFunc(a)):
	case <-ctx.Done():
		return note.ResultPage{}, ctx.Err()
	}
	if res.Shared {
		c.logger.Debug("load shared with concurrent caller", "key", key.String())
	}

	page, _ := res.Val.(note.ResultPage)
	c.Settle(FetchedMsg{Key: key, Version: a.version, Page: page, Err: res.Err})
	if res.Err != nil {
		return note.ResultPage{}, &FetchError{Key: key, Err: res.Err}
	}
	return page, nil
}

func (c *Cache) lookupLocked(key query.Key) *entry {
	if e, ok := c.entries.Get(key); ok {
		return e
	}
	e := &entry{status: Idle}
	c.entries.Put(key, e)
	return e
}

func (c *Cache) startLocked(key query.Key, e *entry) tea.Cmd {
	a := c.beginLocked(key, e)
	if c.lister == nil {
		return func() tea.Msg {
			return FetchedMsg{Key: key, Version: a.version, Err: ErrNoStore}
		}
	}

	fetch := c.fetchFunc(a)
	return func() tea.Msg {
		v, err, _ := c.group.Do(a.name, fetch)
		page, _ := v.(note.ResultPage)
		return FetchedMsg{Key: key, Version: a.version, Page: page, Err: err}
	}
}

// beginLocked opens a new attempt for key. Callers only begin one when
// nothing is in flight for the key.
func (c *Cache) beginLocked(key query.Key, e *entry) *attempt {
	c.version++
	a := &attempt{
		name:    fmt.Sprintf("%s#%d", key.String(), c.version),
		version: c.version,
		params:  key.Params(c.perPage),
	}
	e.inFlight = a.version
	e.attempt = a
	e.refetch = false
	if e.data == nil {
		e.status = Pending
	}
	c.stats.Fetches++
	c.logger.Debug("fetch started", "key", key.String(), "version", a.version)
	return a
}

// fetchFunc performs the store call for a once. Concurrent callers share it
// through the singleflight group; callers arriving after it finished get the
// recorded outcome.
func (c *Cache) fetchFunc(a *attempt) func() (any, error) {
	return func() (any, error) {
		c.mu.Lock()
		if a.done {
			page, err := a.page, a.err
			c.mu.Unlock()
			return page, err
		}
		c.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		page, err := c.lister.ListNotes(ctx, a.params)

		c.mu.Lock()
		a.done, a.page, a.err = true, page, err
		c.mu.Unlock()
		return page, err
	}
}

// pinned keeps the current key and keys with a fetch in flight from being
// evicted. It runs with c.mu held.
func (c *Cache) pinned(key query.Key) bool {
	if c.hasCurrent && key == c.current {
		return true
	}
	if e, ok := c.entries.Peek(key); ok && e.inFlight != 0 {
		return true
	}
	return false
}
