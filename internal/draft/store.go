// Package draft keeps the note being composed alive across form open and
// close, and drives its submission to the note store.
package draft

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/notehub/internal/note"
)

// DefaultTag is the tag of a fresh draft.
const DefaultTag = note.Todo

// Draft is an unsaved note.
type Draft struct {
	Title   string   `yaml:"title"`
	Content string   `yaml:"content"`
	Tag     note.Tag `yaml:"tag"`
}

// Empty returns the initial draft.
func Empty() Draft {
	return Draft{Tag: DefaultTag}
}

// IsEmpty reports whether d carries nothing worth keeping.
func (d Draft) IsEmpty() bool {
	return strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.Content) == ""
}

// Payload is the creation request for d. Title and content are trimmed.
func (d Draft) Payload() note.NewNote {
	tag := d.Tag
	if !tag.IsFilter() {
		tag = DefaultTag
	}
	return note.NewNote{
		Title:   strings.TrimSpace(d.Title),
		Content: strings.TrimSpace(d.Content),
		Tag:     tag,
	}
}

// Store is the single owner of the current draft. When built with a path
// every mutation is written to that file so the draft also outlives the
// process.
type Store struct {
	mu     sync.Mutex
	draft  Draft
	path   string
	logger *slog.Logger
}

// NewStore returns an in-memory store holding the default draft.
func NewStore() *Store {
	return &Store{
		draft:  Empty(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Open returns a store persisted at path, loading any draft already there.
// A missing file starts from the default draft.
func Open(path string, logger *slog.Logger) (*Store, error) {
	s := NewStore()
	s.path = path
	if logger != nil {
		s.logger = logger
	}

	d, err := s.read()
	if err != nil {
		return nil, err
	}
	s.draft = d
	return s, nil
}

// Reload replaces the in-memory draft with the file contents, picking up
// edits made by another process.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}

	d, err := s.read()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d
	return nil
}

func (s *Store) read() (Draft, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Empty(), nil
	}
	if err != nil {
		return Draft{}, fmt.Errorf("read draft: %w", err)
	}

	var d Draft
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Draft{}, fmt.Errorf("parse draft %s: %w", s.path, err)
	}
	if d.Tag == note.NoTag {
		d.Tag = DefaultTag
		return d, nil
	}

	tag, err := note.ValidateTag(string(d.Tag))
	if err != nil {
		s.logger.Warn("discarding invalid draft tag", "tag", d.Tag)
		tag = DefaultTag
	}
	d.Tag = tag
	return d, nil
}

// Path is the backing file, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// Get returns a copy of the current draft.
func (s *Store) Get() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Set replaces the draft.
func (s *Store) Set(d Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = d
	s.persistLocked()
}

// Update applies fn to the draft in place.
func (s *Store) Update(fn func(*Draft)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.draft)
	s.persistLocked()
}

// Clear resets to the default draft.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = Empty()
	s.persistLocked()
}

// persistLocked writes the draft out. Failures are logged and the in-memory
// draft stays authoritative.
func (s *Store) persistLocked() {
	if s.path == "" {
		return
	}

	if s.draft == Empty() {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to remove draft file", "path", s.path, "err", err)
		}
		return
	}

	data, err := yaml.Marshal(s.draft)
	if err != nil {
		s.logger.Warn("failed to encode draft", "err", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Warn("failed to create draft directory", "path", s.path, "err", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Warn("failed to save draft", "path", s.path, "err", err)
	}
}
