package draft

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/internal/notestore"
)

func TestDraftSurvivesCancel(t *testing.T) {
	t.Parallel()

	store := NewStore()
	wf := NewWorkflow(store, notestore.NewMemory(), 0, nil)

	if got := store.Get(); got != Empty() || got.Tag != note.Todo {
		t.Fatalf("initial draft = %+v, want empty Todo draft", got)
	}

	want := Draft{Title: "Call plumber", Content: "before friday", Tag: note.Personal}
	store.Set(want)
	wf.Cancel()

	if got := store.Get(); got != want {
		t.Fatalf("draft after cancel = %+v, want %+v", got, want)
	}
}

func TestSubmitRequiresTitle(t *testing.T) {
	t.Parallel()

	mem := notestore.NewMemory()
	store := NewStore()
	wf := NewWorkflow(store, mem, 0, nil)

	store.Update(func(d *Draft) {
		d.Title = "   "
		d.Content = "body"
	})
	before := store.Get()

	cmd, err := wf.Submit()
	if !errors.Is(err, ErrTitleRequired) || cmd != nil {
		t.Fatalf("submit = (%v, %v), want ErrTitleRequired", cmd, err)
	}
	if got := store.Get(); got != before {
		t.Fatalf("draft changed to %+v", got)
	}
	if mem.Calls().Create != 0 {
		t.Fatal("store must not be called for an invalid draft")
	}
	if wf.Phase() != Editing {
		t.Fatalf("phase = %v, want editing", wf.Phase())
	}
}

func TestSubmitSuccessClearsDraft(t *testing.T) {
	t.Parallel()

	mem := notestore.NewMemory()
	store := NewStore()
	wf := NewWorkflow(store, mem, 0, nil)
	store.Set(Draft{Title: "  Standup  ", Content: " notes ", Tag: note.Meeting})

	cmd, err := wf.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := wf.Submit(); !errors.Is(err, ErrSubmitting) {
		t.Fatalf("second submit err = %v, want ErrSubmitting", err)
	}

	msg, ok := cmd().(CreatedMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if msg.Note.Title != "Standup" || msg.Note.Content != "notes" || msg.Note.Tag != note.Meeting {
		t.Fatalf("payload not trimmed: %+v", msg.Note)
	}

	if phase := wf.Settle(msg); phase != Succeeded {
		t.Fatalf("phase = %v, want succeeded", phase)
	}
	if got := store.Get(); got != Empty() {
		t.Fatalf("draft after success = %+v, want default", got)
	}
}

func TestSuccessKeepsDraftEditedDuringSubmit(t *testing.T) {
	t.Parallel()

	store := NewStore()
	wf := NewWorkflow(store, notestore.NewMemory(), 0, nil)
	store.Set(Draft{Title: "First", Tag: note.Work})

	cmd, err := wf.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	next := Draft{Title: "Second", Tag: note.Todo}
	store.Set(next)

	if phase := wf.Settle(cmd()); phase != Succeeded {
		t.Fatalf("phase = %v, want succeeded", phase)
	}
	if got := store.Get(); got != next {
		t.Fatalf("draft = %+v, want %+v", got, next)
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	t.Parallel()

	mem := notestore.NewMemory()
	mem.CreateErr = errors.New("server down")
	store := NewStore()
	wf := NewWorkflow(store, mem, 0, nil)

	want := Draft{Title: "Buy milk", Tag: note.Shopping}
	store.Set(want)

	cmd, err := wf.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if phase := wf.Settle(cmd()); phase != Failed {
		t.Fatalf("phase = %v, want failed", phase)
	}

	var ce *CreateError
	if !errors.As(wf.Err(), &ce) {
		t.Fatalf("err = %v, want CreateError", wf.Err())
	}
	if wf.Phase() != Editing {
		t.Fatalf("phase after failure = %v, want editing", wf.Phase())
	}
	if got := store.Get(); got != want {
		t.Fatalf("draft = %+v, want %+v", got, want)
	}

	mem.CreateErr = nil
	if _, err := wf.Submit(); err != nil {
		t.Fatalf("retry should be allowed: %v", err)
	}
}

func TestSubmitNow(t *testing.T) {
	t.Parallel()

	mem := notestore.NewMemory()
	store := NewStore()
	wf := NewWorkflow(store, mem, 0, nil)
	store.Set(Draft{Title: "Ship it", Tag: note.Work})

	n, err := wf.SubmitNow(context.Background())
	if err != nil {
		t.Fatalf("submit now: %v", err)
	}
	if n.ID == "" || n.Tag != note.Work {
		t.Fatalf("unexpected note %+v", n)
	}
	if store.Get() != Empty() {
		t.Fatal("draft should be cleared")
	}
}

func TestPayloadDefaultsTag(t *testing.T) {
	t.Parallel()

	p := Draft{Title: "x"}.Payload()
	if p.Tag != DefaultTag {
		t.Fatalf("tag = %q, want %q", p.Tag, DefaultTag)
	}
}

func TestStorePersistence(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "draft.yaml")

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	want := Draft{Title: "Draft", Content: "kept on disk", Tag: note.Work}
	s.Set(want)

	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Get(); got != want {
		t.Fatalf("reloaded draft = %+v, want %+v", got, want)
	}

	reopened.Clear()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("cleared draft file should be removed, stat err = %v", err)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "draft.yaml")
	if err := os.WriteFile(path, []byte("title: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestReloadPicksUpExternalEdits(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "draft.yaml")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := os.WriteFile(path, []byte("title: From elsewhere\ntag: work\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	want := Draft{Title: "From elsewhere", Tag: note.Work}
	if got := s.Get(); got != want {
		t.Fatalf("draft = %+v, want %+v", got, want)
	}
}
