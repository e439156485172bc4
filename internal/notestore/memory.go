package notestore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/internal/query"
)

// DefaultPerPage matches the page size the hosted API uses.
const DefaultPerPage = 12

// Calls counts operations served by a Memory store.
type Calls struct {
	List   int
	Create int
	Get    int
}

// Memory is an in-process Store used for offline mode and tests. Notes are
// listed newest first.
type Memory struct {
	mu    sync.Mutex
	notes []note.Note
	calls Calls
	now   func() time.Time

	// ListErr and CreateErr, when set, fail the matching operation.
	ListErr   error
	CreateErr error
}

// NewMemory seeds a store with notes, oldest first.
func NewMemory(seed ...note.Note) *Memory {
	m := &Memory{now: time.Now}
	for _, n := range seed {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		m.notes = append(m.notes, n)
	}
	return m
}

// ListNotes filters by tag and a case-insensitive search over title and
// content, then pages the result.
func (m *Memory) ListNotes(ctx context.Context, params query.ListParams) (note.ResultPage, error) {
	if err := ctx.Err(); err != nil {
		return note.ResultPage{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls.List++
	if m.ListErr != nil {
		return note.ResultPage{}, m.ListErr
	}

	needle := strings.ToLower(strings.TrimSpace(params.Search))
	matched := make([]note.Note, 0, len(m.notes))
	for i := len(m.notes) - 1; i >= 0; i-- {
		n := m.notes[i]
		if params.Tag.IsFilter() && n.Tag != params.Tag {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(n.Title), needle) &&
			!strings.Contains(strings.ToLower(n.Content), needle) {
			continue
		}
		matched = append(matched, n)
	}

	perPage := params.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	page := max(params.Page, 1)

	total := (len(matched) + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start >= len(matched) {
		return note.ResultPage{Notes: []note.Note{}, TotalPages: total}, nil
	}
	end := min(start+perPage, len(matched))

	return note.ResultPage{
		Notes:      append([]note.Note(nil), matched[start:end]...),
		TotalPages: total,
	}, nil
}

// CreateNote appends a note with a fresh id.
func (m *Memory) CreateNote(ctx context.Context, payload note.NewNote) (note.Note, error) {
	if err := ctx.Err(); err != nil {
		return note.Note{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls.Create++
	if m.CreateErr != nil {
		return note.Note{}, m.CreateErr
	}
	if _, err := note.ValidateTag(string(payload.Tag)); err != nil {
		return note.Note{}, fmt.Errorf("create note: %w", err)
	}

	stamp := m.now().UTC().Format(time.RFC3339)
	n := note.Note{
		ID:        uuid.NewString(),
		Title:     payload.Title,
		Content:   payload.Content,
		Tag:       payload.Tag,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
	m.notes = append(m.notes, n)
	return n, nil
}

// GetNote looks a note up by id.
func (m *Memory) GetNote(ctx context.Context, id string) (note.Note, error) {
	if err := ctx.Err(); err != nil {
		return note.Note{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls.Get++
	for _, n := range m.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return note.Note{}, ErrNotFound
}

// Calls returns the operation counters.
func (m *Memory) Calls() Calls {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// SampleNotes is the seed used by offline mode.
func SampleNotes() []note.Note {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	samples := []struct {
		title, content string
		tag            note.Tag
	}{
		{"Grocery run", "- milk\n- eggs\n- **coffee**", note.Shopping},
		{"Sprint planning", "Agenda: review backlog, estimate stories.", note.Meeting},
		{"Fix login bug", "Session expires too early on mobile.", note.Work},
		{"Call mom", "Sunday afternoon.", note.Personal},
		{"Renew passport", "Bring two photos.", note.Todo},
		{"Quarterly report", "Draft the *numbers* section first.", note.Work},
		{"Gift ideas", "Books, a plant, concert tickets.", note.Personal},
		{"Standup notes", "Blocked on API review.", note.Meeting},
		{"Hardware store", "Screws, wood glue.", note.Shopping},
		{"Read Go spec", "Focus on the memory model.", note.Todo},
		{"Team offsite", "Book venue before May.", note.Work},
		{"Dentist", "Tuesday 10:00.", note.Personal},
		{"Pantry restock", "Rice, beans, olive oil.", note.Shopping},
		{"1:1 with lead", "Career growth, feedback.", note.Meeting},
	}

	notes := make([]note.Note, len(samples))
	for i, s := range samples {
		stamp := base.Add(time.Duration(i) * 24 * time.Hour).Format(time.RFC3339)
		notes[i] = note.Note{
			ID:        fmt.Sprintf("sample-%02d", i+1),
			Title:     s.title,
			Content:   s.content,
			Tag:       s.tag,
			CreatedAt: stamp,
			UpdatedAt: stamp,
		}
	}
	return notes
}
