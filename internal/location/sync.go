package location

import (
	"io"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/internal/query"
)

// Partial describes which query parameters a commit changes. Nil fields are
// left as they are in the current address.
type Partial struct {
	Page   *int
	Search *string
}

// PageOnly is a Partial that changes the page.
func PageOnly(n int) Partial {
	return Partial{Page: &n}
}

// SearchOnly is a Partial that changes the search text.
func SearchOnly(s string) Partial {
	return Partial{Search: &s}
}

// Synchronizer is the single source of truth for the browsing key. Reads
// always come from the router so the key can be rebuilt from the address
// alone.
type Synchronizer struct {
	router Router
	logger *slog.Logger
}

// NewSynchronizer binds a Synchronizer to router.
func NewSynchronizer(router Router, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Synchronizer{router: router, logger: logger}
}

// Key derives the current key from the address.
func (s *Synchronizer) Key() query.Key {
	return s.router.Current().Key()
}

// Location returns the current address.
func (s *Synchronizer) Location() Location {
	return s.router.Current()
}

// Commit merges p into the current query parameters and pushes the result
// as a new navigation. A search change always forces page 1. The address is
// updated before Commit returns.
func (s *Synchronizer) Commit(p Partial) query.Key {
	next := s.router.Current().Clone()

	if p.Page != nil {
		page := *p.Page
		if page < 1 {
			page = 1
		}
		next.Query.Set(pageParam, strconv.Itoa(page))
	}

	if p.Search != nil {
		if *p.Search == "" {
			next.Query.Del(searchParam)
		} else {
			next.Query.Set(searchParam, *p.Search)
		}
		next.Query.Set(pageParam, "1")
	}

	s.router.Push(next)
	s.logger.Debug("location committed", "location", next.String())
	return next.Key()
}

// NavigateTag moves to the route for tag. Tags live in the path, so this
// starts a fresh query: page 1 and no search.
func (s *Synchronizer) NavigateTag(tag note.Tag) query.Key {
	next := Location{Path: TagPath(tag), Query: url.Values{}}

	s.router.Push(next)
	s.logger.Debug("tag navigation", "location", next.String())
	return next.Key()
}

// Canonicalize rewrites the current entry in place when the address spells
// its key in a non-canonical way, such as a lowercase tag or page=1. It
// reports whether the address changed.
func (s *Synchronizer) Canonicalize() bool {
	current := s.router.Current()
	canonical := FromKey(current.Key())
	if current.Equal(canonical) {
		return false
	}
	s.router.Replace(canonical)
	s.logger.Debug("location canonicalized", "from", current.String(), "to", canonical.String())
	return true
}

// OnNavigate registers fn to run after every navigation of the router,
// including ones made through this Synchronizer.
func (s *Synchronizer) OnNavigate(fn Listener) {
	s.router.OnNavigate(fn)
}

// Back steps the router back one navigation.
func (s *Synchronizer) Back() (query.Key, bool) {
	if !s.router.Back() {
		return s.Key(), false
	}
	return s.Key(), true
}
