package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/notehub/internal/location"
	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/internal/query"
)

// Query holds the browsing flags shared by the listing commands.
type Query struct {
	Tag    string
	Search string
	Page   int
}

func AddQuery(cmd *cobra.Command, q *Query) {
	cmd.Flags().StringVarP(&q.Tag, "tag", "t", "", "Only show notes with this tag (all to clear).")
	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "Only show notes matching this text.")
	cmd.Flags().IntVarP(&q.Page, "page", "p", 1, "Page to show.")
}

// HandleQuery applies the flags that were set on top of base.
func HandleQuery(cmd *cobra.Command, q *Query, base location.Location) (location.Location, error) {
	key := base.Key()
	tag, search, page := key.Tag, key.Search, key.Page

	if cmd.Flags().Changed("tag") {
		t, err := parseTag(q.Tag)
		if err != nil {
			return location.Location{}, err
		}
		tag = t
	}
	if cmd.Flags().Changed("search") {
		search = strings.TrimSpace(q.Search)
	}
	if cmd.Flags().Changed("page") {
		if q.Page < 1 {
			return location.Location{}, fmt.Errorf("invalid page %d: pages start at 1", q.Page)
		}
		page = q.Page
	}

	return location.FromKey(query.New(page, search, tag)), nil
}

func parseTag(raw string) (note.Tag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, note.AllSlug) {
		return note.NoTag, nil
	}
	return note.ValidateTag(raw)
}
