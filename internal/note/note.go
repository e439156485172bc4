// Package note holds the note payloads exchanged with the note store.
package note

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Note is a note as returned by the note store. The client never mutates it.
type Note struct {
	ID        string `json:"id"        yaml:"id"`
	Title     string `json:"title"     yaml:"title"`
	Content   string `json:"content"   yaml:"content"`
	Tag       Tag    `json:"tag"       yaml:"tag"`
	CreatedAt string `json:"createdAt" yaml:"created_at"`
	UpdatedAt string `json:"updatedAt" yaml:"updated_at"`
}

// NewNote is the payload sent when creating a note.
type NewNote struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tag     Tag    `json:"tag"`
}

// ResultPage is one page of notes in the order the store returned them.
type ResultPage struct {
	Notes      []Note `json:"notes"`
	TotalPages int    `json:"totalPages"`
}

// CreatedTime parses CreatedAt. Stores are not consistent about the
// timestamp layout so any format dateparse understands is accepted.
func (n Note) CreatedTime() (time.Time, error) {
	return dateparse.ParseAny(strings.TrimSpace(n.CreatedAt))
}

// CreatedLabel formats the creation date for list rows, falling back to the
// raw value when it cannot be parsed.
func (n Note) CreatedLabel() string {
	t, err := n.CreatedTime()
	if err != nil {
		return n.CreatedAt
	}
	return t.Local().Format("2006-01-02 15:04")
}

// Empty reports whether the page holds no notes.
func (p ResultPage) Empty() bool {
	return len(p.Notes) == 0
}
