// Package notestore talks to the remote note store that owns every note.
package notestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/internal/query"
)

// ErrNotFound is returned when the store has no note with the requested id.
var ErrNotFound = errors.New("note not found")

// Lister lists one page of notes.
type Lister interface {
	ListNotes(ctx context.Context, params query.ListParams) (note.ResultPage, error)
}

// Creator creates a note and returns it as stored.
type Creator interface {
	CreateNote(ctx context.Context, payload note.NewNote) (note.Note, error)
}

// Getter fetches a single note.
type Getter interface {
	GetNote(ctx context.Context, id string) (note.Note, error)
}

// Store is the full note store surface used by the CLI.
type Store interface {
	Lister
	Creator
	Getter
}

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: server returned %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: server returned %d: %s", e.Method, e.Path, e.Code, e.Body)
}
