// Package fzf picks a note from a page of results with a fuzzy finder and a
// rendered markdown preview.
package fzf

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/notehub/internal/note"
)

// ErrNoSelection is returned when the finder is aborted.
var ErrNoSelection = errors.New("no note selected")

type FuzzyFinder struct {
	Notes  []note.Note
	Header string

	find func(notes []note.Note, label func(int) string, opts ...fuzzyfinder.Option) (int, error)
}

func NewFuzzyFinder(notes []note.Note, header string) *FuzzyFinder {
	return &FuzzyFinder{
		Notes:  notes,
		Header: header,
		find: func(notes []note.Note, label func(int) string, opts ...fuzzyfinder.Option) (int, error) {
			return fuzzyfinder.Find(notes, label, opts...)
		},
	}
}

// Run shows the finder, seeded with query when it is not empty, and returns
// the chosen note.
func (f *FuzzyFinder) Run(query string) (note.Note, error) {
	if len(f.Notes) == 0 {
		return note.Note{}, ErrNoSelection
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderMarkdownPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	i, err := f.find(f.Notes, f.Label, options...)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return note.Note{}, ErrNoSelection
	}
	if err != nil {
		return note.Note{}, fmt.Errorf("error selecting note: %w", err)
	}
	return f.Notes[i], nil
}

// Label is the line shown for the i-th note.
func (f *FuzzyFinder) Label(i int) string {
	n := f.Notes[i]
	title := n.Title
	if title == "" {
		title = n.ID
	}
	return fmt.Sprintf("%s [%s] ", title, n.Tag)
}

func (f *FuzzyFinder) renderMarkdownPreview(i, w, h int) string {
	if i == -1 {
		return ""
	}

	width := w - 4
	if width < 20 {
		width = 20
	}
	out, err := Render(f.Notes[i], width)
	if err != nil {
		return "Error rendering markdown"
	}
	return out
}

// Render draws n as markdown for a terminal of the given width.
func Render(n note.Note, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return "", err
	}
	return r.Render(Markdown(n))
}

// Markdown is the document shown for a note: its title, a byline and the
// body.
func Markdown(n note.Note) string {
	md := fmt.Sprintf("# %s\n\n*%s · %s*\n\n", n.Title, n.Tag, n.CreatedLabel())
	return md + n.Content
}
