package draft

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/internal/notestore"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrSubmitting    = errors.New("a note is already being created")
)

// CreateError is a failed creation the user can retry.
type CreateError struct {
	Err error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("could not create note: %v", e.Err)
}

func (e *CreateError) Unwrap() error {
	return e.Err
}

// Phase is where the workflow is in a submission.
type Phase int

const (
	Editing Phase = iota
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// CreatedMsg reports a created note.
type CreatedMsg struct {
	Note    note.Note
	attempt uint64
}

// FailedMsg reports a failed creation.
type FailedMsg struct {
	Err     error
	attempt uint64
}

// Workflow submits the store's draft through a Creator.
type Workflow struct {
	mu      sync.Mutex
	store   *Store
	creator notestore.Creator
	timeout time.Duration
	logger  *slog.Logger

	phase   Phase
	attempt uint64
	err     error
	// submitted is the draft as it was when the current attempt began.
	submitted Draft
}

// NewWorkflow binds a workflow to a draft store and a creator.
func NewWorkflow(store *Store, creator notestore.Creator, timeout time.Duration, logger *slog.Logger) *Workflow {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Workflow{
		store:   store,
		creator: creator,
		timeout: timeout,
		logger:  logger,
	}
}

// Store returns the draft store.
func (w *Workflow) Store() *Store {
	return w.store
}

// Phase reports the current phase.
func (w *Workflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// Err is the last submission error, cleared by the next submit or cancel.
func (w *Workflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Submit validates the draft and returns a command that creates it. The
// draft is left untouched when validation fails.
func (w *Workflow) Submit() (tea.Cmd, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	payload, err := w.beginLocked()
	if err != nil {
		return nil, err
	}

	attempt := w.attempt
	creator := w.creator
	timeout := w.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		n, err := creator.CreateNote(ctx, payload)
		if err != nil {
			return FailedMsg{Err: err, attempt: attempt}
		}
		return CreatedMsg{Note: n, attempt: attempt}
	}, nil
}

// Settle applies a submission outcome and returns the resulting phase.
// Success clears the draft unless it changed since Submit. Failure keeps it and returns to Editing with
// the error recorded. Messages from an earlier attempt are ignored.
func (w *Workflow) Settle(msg tea.Msg) Phase {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch msg := msg.(type) {
	case CreatedMsg:
		if msg.attempt != w.attempt || w.phase != Submitting {
			return w.phase
		}
		if w.store.Get() == w.submitted {
			w.store.Clear()
		} else {
			w.logger.Info("draft changed during submission, kept")
		}
		w.phase = Succeeded
		w.err = nil
		w.logger.Info("note created", "id", msg.Note.ID, "tag", msg.Note.Tag)
		return Succeeded

	case FailedMsg:
		if msg.attempt != w.attempt || w.phase != Submitting {
			return w.phase
		}
		w.phase = Editing
		w.err = &CreateError{Err: msg.Err}
		w.logger.Warn("note creation failed", "err", msg.Err)
		return Failed
	}
	return w.phase
}

// Cancel abandons editing. The draft is kept exactly as it is. A submission
// already in flight still settles.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != Submitting {
		w.phase = Editing
	}
	w.err = nil
}

// SubmitNow creates the draft synchronously.
func (w *Workflow) SubmitNow(ctx context.Context) (note.Note, error) {
	w.mu.Lock()
	payload, err := w.beginLocked()
	attempt := w.attempt
	w.mu.Unlock()
	if err != nil {
		return note.Note{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	n, err := w.creator.CreateNote(ctx, payload)
	if err != nil {
		w.Settle(FailedMsg{Err: err, attempt: attempt})
		return note.Note{}, &CreateError{Err: err}
	}
	w.Settle(CreatedMsg{Note: n, attempt: attempt})
	return n, nil
}

func (w *Workflow) beginLocked() (note.NewNote, error) {
	if w.phase == Submitting {
		return note.NewNote{}, ErrSubmitting
	}

	current := w.store.Get()
	payload := current.Payload()
	if payload.Title == "" {
		return note.NewNote{}, ErrTitleRequired
	}
	w.submitted = current

	w.attempt++
	w.phase = Submitting
	w.err = nil
	w.logger.Debug("submitting note", "title", payload.Title, "tag", payload.Tag)
	return payload, nil
}
