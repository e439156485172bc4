// Package query defines the key that identifies one browsable result set.
package query

import (
	"fmt"

	"github.com/Paintersrp/notehub/internal/note"
)

// Key is the (page, search, tag) tuple that fully determines which notes are
// displayed. It is a comparable value and is used directly as a cache key;
// derive a new Key instead of mutating one.
type Key struct {
	Page   int
	Search string
	Tag    note.Tag
}

// ListParams are the parameters sent to the note store for a Key.
type ListParams struct {
	Page    int
	PerPage int
	Search  string
	Tag     note.Tag
}

// New builds a Key, clamping page to 1.
func New(page int, search string, tag note.Tag) Key {
	if page < 1 {
		page = 1
	}
	return Key{Page: page, Search: search, Tag: tag}
}

// WithPage returns a copy of k on page n. Search and tag are unchanged.
func (k Key) WithPage(n int) Key {
	return New(n, k.Search, k.Tag)
}

// WithSearch returns a copy of k with a new search string. Changing the
// search always starts again from the first page.
func (k Key) WithSearch(search string) Key {
	return New(1, search, k.Tag)
}

// WithTag returns the first page of an unsearched listing for tag.
func (k Key) WithTag(tag note.Tag) Key {
	return New(1, "", tag)
}

// Params converts k to store parameters.
func (k Key) Params(perPage int) ListParams {
	return ListParams{
		Page:    k.Page,
		PerPage: perPage,
		Search:  k.Search,
		Tag:     k.Tag,
	}
}

// Title is the heading for the listing k describes.
func (k Key) Title() string {
	if !k.Tag.IsFilter() {
		return "All notes"
	}
	return fmt.Sprintf("Notes tagged “%s”", k.Tag)
}

// Description is a one-line summary of k for status bars.
func (k Key) Description() string {
	desc := "Browsing all notes"
	if k.Tag.IsFilter() {
		desc = fmt.Sprintf("Browsing notes filtered by tag “%s”", k.Tag)
	}
	if k.Search != "" {
		desc += fmt.Sprintf(" matching %q", k.Search)
	}
	return fmt.Sprintf("%s, page %d", desc, k.Page)
}

func (k Key) String() string {
	return fmt.Sprintf("notes{page=%d search=%q tag=%s}", k.Page, k.Search, k.Tag.Slug())
}
