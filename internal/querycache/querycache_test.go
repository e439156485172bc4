package querycache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/internal/query"
)

type fakeLister struct {
	mu    sync.Mutex
	calls []query.ListParams
	err   error
}

func (f *fakeLister) ListNotes(_ context.Context, p query.ListParams) (note.ResultPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, p)
	if f.err != nil {
		return note.ResultPage{}, f.err
	}
	return note.ResultPage{
		Notes:      []note.Note{{ID: pageID(p.Page, p.Search, p.Tag), Title: "t"}},
		TotalPages: 3,
	}, nil
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func pageID(page int, search string, tag note.Tag) string {
	return fmt.Sprintf("%s-%d-%s", tag.Slug(), page, search)
}

func run(t *testing.T, cmd tea.Cmd) FetchedMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a fetch command, got nil")
	}
	msg, ok := cmd().(FetchedMsg)
	if !ok {
		t.Fatalf("expected FetchedMsg, got %T", msg)
	}
	return msg
}

func firstID(t *testing.T, r Result) string {
	t.Helper()
	if r.Data == nil || len(r.Data.Notes) == 0 {
		t.Fatalf("expected data, got %+v", r)
	}
	return r.Data.Notes[0].ID
}

func TestRequestDeduplicatesInFlightFetch(t *testing.T) {
	t.Parallel()

	l := &fakeLister{}
	c := New(l, Options{PerPage: 5})
	k := query.New(1, "", note.NoTag)

	cmd := c.Request(k)
	if again := c.Request(k); again != nil {
		t.Fatal("second request while in flight should not start a fetch")
	}

	msg := run(t, cmd)
	if !c.Settle(msg) {
		t.Fatal("current key settlement should change the display")
	}
	if l.callCount() != 1 {
		t.Fatalf("store calls = %d, want 1", l.callCount())
	}
	if got := l.calls[0].PerPage; got != 5 {
		t.Fatalf("per page = %d, want 5", got)
	}

	if c.Request(k) != nil {
		t.Fatal("fresh cached key should not refetch")
	}
	s := c.Stats()
	if s.Fetches != 1 || s.Hits != 1 {
		t.Fatalf("stats = %+v, want 1 fetch and 1 hit", s)
	}
}

func TestLateCompletionNeverDisplaced(t *testing.T) {
	t.Parallel()

	l := &fakeLister{}
	c := New(l, Options{})
	a := query.New(1, "a", note.NoTag)
	b := query.New(1, "ab", note.NoTag)

	cmdA := c.Request(a)
	cmdB := c.Request(b)

	msgB := run(t, cmdB)
	msgA := run(t, cmdA)

	if !c.Settle(msgB) {
		t.Fatal("current key should display")
	}
	if c.Settle(msgA) {
		t.Fatal("non-current completion must not change the display")
	}

	r := c.Observe()
	if r.Key != b {
		t.Fatalf("current key = %v, want %v", r.Key, b)
	}
	if got := firstID(t, r); got != pageID(1, "ab", note.NoTag) {
		t.Fatalf("displayed %q, want the page for the current key", got)
	}

	e, ok := c.Entry(a)
	if !ok || e.Status != Success || e.Data == nil {
		t.Fatalf("late completion should still be cached for its own key, got %+v", e)
	}
	if c.Stats().Suppressed != 1 {
		t.Fatalf("suppressed = %d, want 1", c.Stats().Suppressed)
	}
}

func TestPlaceholderKeepsPreviousPage(t *testing.T) {
	t.Parallel()

	c := New(&fakeLister{}, Options{})
	p1 := query.New(1, "", note.NoTag)
	p2 := p1.WithPage(2)

	c.Settle(run(t, c.Request(p1)))
	cmd := c.Request(p2)

	r := c.Observe()
	if !r.Placeholder || r.Status != Pending || !r.Fetching {
		t.Fatalf("expected pending placeholder, got %+v", r)
	}
	if got := firstID(t, r); got != pageID(1, "", note.NoTag) {
		t.Fatalf("placeholder shows %q, want page 1", got)
	}

	c.Settle(run(t, cmd))
	r = c.Observe()
	if r.Placeholder || r.Status != Success {
		t.Fatalf("expected own data, got %+v", r)
	}
	if got := firstID(t, r); got != pageID(2, "", note.NoTag) {
		t.Fatalf("displayed %q, want page 2", got)
	}
}

func TestFailedFetchWithoutStaleData(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	c := New(&fakeLister{err: boom}, Options{})
	k := query.New(1, "", note.Work)

	c.Settle(run(t, c.Request(k)))

	r := c.Observe()
	if r.Status != Failed || r.Data != nil {
		t.Fatalf("expected error without data, got %+v", r)
	}
	var fe *FetchError
	if !errors.As(r.Err, &fe) || fe.Key != k || !errors.Is(r.Err, boom) {
		t.Fatalf("unexpected error %v", r.Err)
	}

	if c.Request(k) == nil {
		t.Fatal("failed key should be retried on the next request")
	}
}

func TestFailedFetchKeepsPlaceholder(t *testing.T) {
	t.Parallel()

	l := &fakeLister{}
	c := New(l, Options{})
	k1 := query.New(1, "", note.NoTag)
	k2 := k1.WithPage(2)

	c.Settle(run(t, c.Request(k1)))
	l.err = errors.New("offline")
	c.Settle(run(t, c.Request(k2)))

	r := c.Observe()
	if r.Status != Failed || !r.Placeholder || r.Err == nil {
		t.Fatalf("expected failed status over placeholder, got %+v", r)
	}
}

func TestInvalidateTagScope(t *testing.T) {
	t.Parallel()

	c := New(&fakeLister{}, Options{})
	all := query.New(1, "", note.NoTag)
	personal := query.New(1, "", note.Personal)
	work := query.New(1, "", note.Work)

	for _, k := range []query.Key{all, personal, work} {
		c.Settle(run(t, c.Request(k)))
	}

	cmd := c.InvalidateTag(note.Work)
	if cmd == nil {
		t.Fatal("current key matches and should refetch")
	}

	check := func(k query.Key, want bool) {
		t.Helper()
		e, ok := c.Entry(k)
		if !ok {
			t.Fatalf("missing entry for %v", k)
		}
		if e.Invalidated != want {
			t.Fatalf("%v invalidated = %v, want %v", k, e.Invalidated, want)
		}
	}
	check(all, true)
	check(personal, false)
	check(work, true)

	r := c.Observe()
	if !r.Stale || !r.Fetching || r.Placeholder {
		t.Fatalf("current key should revalidate over its own data, got %+v", r)
	}

	c.Settle(run(t, cmd))
	check(work, false)

	if c.Request(all) == nil {
		t.Fatal("invalidated key should refetch when requested")
	}
}

func TestInvalidateDuringFetchKeepsOneCallPerKey(t *testing.T) {
	t.Parallel()

	l := &fakeLister{}
	c := New(l, Options{})
	k := query.New(1, "", note.NoTag)

	cmd := c.Request(k)
	if again := c.InvalidateTag(note.Work); again != nil {
		t.Fatal("invalidation must not start a second fetch while one is in flight")
	}
	if c.Refetch() != nil {
		t.Fatal("nothing is owed while the first fetch is still running")
	}

	first := run(t, cmd)
	if l.callCount() != 1 {
		t.Fatalf("store calls = %d, want 1", l.callCount())
	}
	if !c.Settle(first) {
		t.Fatal("the in-flight result should still display")
	}
	if e, _ := c.Entry(k); !e.Invalidated {
		t.Fatal("a result fetched before the invalidation is stale")
	}
	if r := c.Observe(); !r.Stale || r.Data == nil {
		t.Fatalf("expected stale data while the refetch runs, got %+v", r)
	}

	follow := c.Refetch()
	if follow == nil {
		t.Fatal("expected the owed refetch")
	}
	if c.Refetch() != nil {
		t.Fatal("the refetch is owed once")
	}
	c.Settle(run(t, follow))
	if l.callCount() != 2 {
		t.Fatalf("store calls = %d, want 2", l.callCount())
	}
	if e, _ := c.Entry(k); e.Invalidated || e.Fetching {
		t.Fatalf("expected a fresh entry, got %+v", e)
	}
}

func TestInvalidateDuringFetchOfOtherKey(t *testing.T) {
	t.Parallel()

	l := &fakeLister{}
	c := New(l, Options{})
	all := query.New(1, "", note.NoTag)
	work := query.New(1, "", note.Work)

	late := c.Request(all)
	c.Settle(run(t, c.Request(work)))
	c.InvalidateTag(note.Todo)

	c.Settle(run(t, late))
	if e, _ := c.Entry(all); !e.Invalidated {
		t.Fatal("a key invalidated mid-fetch must stay stale after it settles")
	}
	if c.Request(all) == nil {
		t.Fatal("the stale key should refetch when requested again")
	}
}

func TestLoadJoinsInFlightRequest(t *testing.T) {
	t.Parallel()

	l := &fakeLister{}
	c := New(l, Options{})
	k := query.New(1, "", note.NoTag)

	cmd := c.Request(k)
	page, err := c.Load(context.Background(), k)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if page.Notes[0].ID != pageID(1, "", note.NoTag) {
		t.Fatalf("unexpected page %+v", page)
	}

	msg := run(t, cmd)
	if l.callCount() != 1 {
		t.Fatalf("store calls = %d, want 1", l.callCount())
	}
	if msg.Err != nil || len(msg.Page.Notes) == 0 {
		t.Fatalf("the event loop should see the shared outcome, got %+v", msg)
	}
	if c.Stats().Fetches != 1 {
		t.Fatalf("fetches = %d, want 1", c.Stats().Fetches)
	}
}

func TestLoadHonoursContext(t *testing.T) {
	t.Parallel()

	c := New(&fakeLister{}, Options{})
	k := query.New(1, "", note.NoTag)
	c.Request(k)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Load(ctx, k); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestRetentionNeverEvictsCurrentKey(t *testing.T) {
	t.Parallel()

	c := New(&fakeLister{}, Options{MaxEntries: 2})
	keys := []query.Key{
		query.New(1, "", note.NoTag),
		query.New(2, "", note.NoTag),
		query.New(3, "", note.NoTag),
	}
	for _, k := range keys {
		c.Settle(run(t, c.Request(k)))
	}

	if got := c.Stats().Entries; got != 2 {
		t.Fatalf("entries = %d, want 2", got)
	}
	if _, ok := c.Entry(keys[0]); ok {
		t.Fatal("least recently used key should be evicted")
	}
	if _, ok := c.Entry(keys[2]); !ok {
		t.Fatal("current key must be retained")
	}
}

func TestLoadUsesCache(t *testing.T) {
	t.Parallel()

	l := &fakeLister{}
	c := New(l, Options{})
	k := query.New(2, "milk", note.Shopping)

	page, err := c.Load(context.Background(), k)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if page.Notes[0].ID != pageID(2, "milk", note.Shopping) {
		t.Fatalf("unexpected page %+v", page)
	}
	if _, err := c.Load(context.Background(), k); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if l.callCount() != 1 {
		t.Fatalf("store calls = %d, want 1", l.callCount())
	}
	if _, ok := c.Current(); ok {
		t.Fatal("load should not select a current key")
	}
}

func TestLoadError(t *testing.T) {
	t.Parallel()

	c := New(&fakeLister{err: errors.New("down")}, Options{})
	_, err := c.Load(context.Background(), query.New(1, "", note.NoTag))

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	c := New(&fakeLister{}, Options{})
	k := query.New(1, "", note.NoTag)
	c.Settle(run(t, c.Request(k)))

	c.Clear()
	if c.Stats().Entries != 0 {
		t.Fatal("clear should drop entries")
	}
	if r := c.Observe(); r.Data != nil {
		t.Fatalf("clear should drop the placeholder, got %+v", r)
	}
}
