// Package location keeps the browsing query in sync with a navigable
// address of the form /notes/filter/<tag>?page=N&search=text.
package location

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/internal/query"
)

// FilterPrefix is the route every browsing address lives under.
const FilterPrefix = "/notes/filter/"

const (
	pageParam   = "page"
	searchParam = "search"
)

// Location is an address: a path plus its query parameters.
type Location struct {
	Path  string
	Query url.Values
}

// Parse reads a raw address. A bare tag ("work") or a query string alone
// ("?page=2") are accepted and placed under FilterPrefix.
func Parse(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Root(), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, err
	}

	p := u.EscapedPath()
	switch {
	case p == "":
		p = Root().Path
	case !strings.HasPrefix(p, "/"):
		p = FilterPrefix + p
	}

	return Location{Path: p, Query: u.Query()}, nil
}

// Root is the unfiltered first page.
func Root() Location {
	return Location{Path: FilterPrefix + note.AllSlug, Query: url.Values{}}
}

// FromKey builds the canonical address for k.
func FromKey(k query.Key) Location {
	q := url.Values{}
	if k.Page > 1 {
		q.Set(pageParam, strconv.Itoa(k.Page))
	}
	if k.Search != "" {
		q.Set(searchParam, k.Search)
	}
	return Location{Path: TagPath(k.Tag), Query: q}
}

// TagPath is the path segment route for tag.
func TagPath(tag note.Tag) string {
	return FilterPrefix + url.PathEscape(tag.Slug())
}

// Key derives the query key from the address alone. A missing or
// unrecognised tag segment means no filter, page defaults to 1 and search to
// the empty string.
func (l Location) Key() query.Key {
	page := 1
	if raw := strings.TrimSpace(l.Query.Get(pageParam)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	return query.New(page, l.Query.Get(searchParam), l.tag())
}

func (l Location) tag() note.Tag {
	if !strings.HasPrefix(l.Path, FilterPrefix) {
		return note.NoTag
	}
	rest := strings.TrimPrefix(l.Path, FilterPrefix)
	segment, _, _ := strings.Cut(rest, "/")
	return note.ParseTag(segment)
}

// String renders the address with query keys sorted.
func (l Location) String() string {
	p := l.Path
	if p == "" {
		p = "/"
	}
	if encoded := l.Query.Encode(); encoded != "" {
		return p + "?" + encoded
	}
	return p
}

// Clone returns a deep copy so callers never share query maps.
func (l Location) Clone() Location {
	q := url.Values{}
	for k, vs := range l.Query {
		q[k] = append([]string(nil), vs...)
	}
	p := l.Path
	if p != "" {
		p = path.Clean(p)
	}
	return Location{Path: p, Query: q}
}

// Equal compares two locations by their canonical string.
func (l Location) Equal(other Location) bool {
	return l.String() == other.String()
}
