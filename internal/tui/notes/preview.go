package notes

import (
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/notehub/internal/cache"
	"github.com/Paintersrp/notehub/internal/fzf"
	"github.com/Paintersrp/notehub/internal/note"
)

const previewCacheEntries = 64

type previewKey struct {
	id        string
	updatedAt string
	width     int
}

// previewRenderer renders note content as terminal markdown. Output is
// cached per note revision and width.
type previewRenderer struct {
	rendered  *cache.LRU[previewKey, string]
	renderers map[int]*glamour.TermRenderer
	render    func(content string, width int) (string, error)
}

func newPreviewRenderer() *previewRenderer {
	p := &previewRenderer{
		rendered:  cache.NewLRU[previewKey, string](previewCacheEntries),
		renderers: make(map[int]*glamour.TermRenderer),
	}
	p.render = p.glamourRender
	return p
}

func (p *previewRenderer) Render(n note.Note, width int) string {
	if width < 20 {
		width = 20
	}

	k := previewKey{id: n.ID, updatedAt: n.UpdatedAt, width: width}
	if out, ok := p.rendered.Get(k); ok {
		return out
	}

	out, err := p.render(fzf.Markdown(n), width)
	if err != nil {
		return "Error rendering markdown"
	}
	p.rendered.Put(k, out)
	return out
}

func (p *previewRenderer) Len() int {
	return p.rendered.Len()
}

func (p *previewRenderer) glamourRender(content string, width int) (string, error) {
	r, ok := p.renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle("dracula"),
			glamour.WithWordWrap(width),
			glamour.WithColorProfile(termenv.ANSI256),
		)
		if err != nil {
			return "", err
		}
		p.renderers[width] = r
	}
	return r.Render(content)
}
