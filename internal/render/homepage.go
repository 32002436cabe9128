package render

import (
	"strings"

	"git.home.luguber.info/inful/siteshim/internal/content"
	"git.home.luguber.info/inful/siteshim/internal/dom"
	"git.home.luguber.info/inful/siteshim/internal/sanitize"
)

// Homepage writes the hero title/subtitle and the stats grid. A missing hero
// or stats list leaves the corresponding markup untouched; an empty hero
// field keeps the page's own text.
func (r *Renderer) Homepage(doc *dom.Document, h content.Homepage) error {
	if h.Hero != nil {
		if title := h.Hero.Title.String(); title != "" {
			dom.SetText(doc.Query(SelHeroTitle), title)
		}
		if subtitle := h.Hero.Subtitle.String(); subtitle != "" {
			dom.SetText(doc.Query(SelHeroSubtitle), subtitle)
		}
	}
	if h.Stats == nil {
		return nil
	}
	grid := doc.Query(SelStatsGrid)
	if grid == nil {
		return nil
	}
	return dom.SetInnerHTML(grid, statsHTML(h.Stats))
}

func statsHTML(stats []content.Stat) string {
	var b strings.Builder
	for _, s := range stats {
		b.WriteString(`<div class="stat-card scroll-reveal">`)
		b.WriteString(`<div class="stat-number">` + sanitize.Escape(s.Number.String()) + `</div>`)
		b.WriteString(`<div class="stat-label">` + sanitize.Escape(s.Label.String()) + `</div>`)
		b.WriteString(`</div>`)
	}
	return b.String()
}
