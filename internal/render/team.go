package render

import (
	"strings"

	"git.home.luguber.info/inful/siteshim/internal/content"
	"git.home.luguber.info/inful/siteshim/internal/dom"
	"git.home.luguber.info/inful/siteshim/internal/logfields"
	"git.home.luguber.info/inful/siteshim/internal/sanitize"
)

// CEO picks the record flagged ceo: "true", else the first one.
func CEO(records []content.Record) (content.Record, int, bool) {
	for i, rec := range records {
		if rec.Get("ceo") == "true" {
			return rec, i, true
		}
	}
	if len(records) == 0 {
		return content.Record{}, -1, false
	}
	return records[0], 0, true
}

// Team writes the CEO block and a card for every other member into the team
// grid. records must already be sorted.
func (r *Renderer) Team(doc *dom.Document, records []content.Record) error {
	ceo, idx, ok := CEO(records)
	if !ok {
		return nil
	}
	r.ceoBlock(doc, ceo)

	grid := doc.Query(SelTeamGrid)
	if grid == nil {
		return nil
	}
	var b strings.Builder
	for i, rec := range records {
		if i == idx {
			continue
		}
		r.memberCard(&b, rec)
	}
	return dom.SetInnerHTML(grid, b.String())
}

func (r *Renderer) ceoBlock(doc *dom.Document, ceo content.Record) {
	name := ceo.Name()
	dom.SetText(doc.Query(SelCEOName), name)
	if title := ceo.Get("title"); title != "" {
		dom.SetText(doc.Query(SelCEOTitle), title)
	}
	if tagline := ceo.Get("tagline"); tagline != "" {
		dom.SetText(doc.Query(SelCEOTagline), tagline)
	}
	img := doc.Query(SelCEOImage)
	if img == nil {
		return
	}
	if src := ceo.Image(); src != "" {
		dom.SetAttr(img, "src", r.resolver.Resolve(src))
	}
	dom.SetAttr(img, "alt", name)
	dom.SetAttr(img, "onerror", ImageFallback(name))
}

func (r *Renderer) memberCard(b *strings.Builder, rec content.Record) {
	name := rec.Name()
	b.WriteString(`<div class="card team-card scroll-reveal">`)
	b.WriteString(`<div class="card-image">` + r.imageTag(rec.Image(), name) + `</div>`)
	b.WriteString(`<div class="card-content">`)
	b.WriteString(`<h3 class="card-title">` + sanitize.Escape(name) + `</h3>`)
	if title := rec.Get("title"); title != "" {
		b.WriteString(`<p class="team-role">` + sanitize.Escape(title) + `</p>`)
	}
	b.WriteString(`<div class="team-bio">` + r.bio(rec) + `</div>`)
	b.WriteString(`</div></div>`)
}

// bio renders the markdown body, falling back to the escaped description.
func (r *Renderer) bio(rec content.Record) string {
	if strings.TrimSpace(rec.Body) != "" {
		out, err := r.markdown.Render(rec.Body)
		if err == nil {
			return out
		}
		r.logger.Warn("Team bio could not be rendered; using description",
			logfields.Slug(rec.Slug),
			logfields.Error(err))
	}
	if d := rec.Description(); d != "" {
		return `<p>` + sanitize.Escape(d) + `</p>`
	}
	return ""
}
