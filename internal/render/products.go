package render

import (
	"strings"

	"git.home.luguber.info/inful/siteshim/internal/content"
	"git.home.luguber.info/inful/siteshim/internal/dom"
	"git.home.luguber.info/inful/siteshim/internal/relay"
	"git.home.luguber.info/inful/siteshim/internal/sanitize"
)

// Products fills the solutions grid with every record and the homepage grid
// with the featured subset. records must already be sorted.
func (r *Renderer) Products(doc *dom.Document, records []content.Record, settings relay.Settings) error {
	if grid := doc.Query(SelSolutionsGrid); grid != nil {
		var b strings.Builder
		for _, rec := range records {
			r.productCard(&b, rec, settings)
		}
		if err := dom.SetInnerHTML(grid, b.String()); err != nil {
			return err
		}
	}

	if grid := doc.Query(SelFeaturedGrid); grid != nil {
		var b strings.Builder
		for _, rec := range content.Featured(records, content.FeaturedLimit) {
			r.featuredCard(&b, rec)
		}
		if err := dom.SetInnerHTML(grid, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) productCard(b *strings.Builder, rec content.Record, settings relay.Settings) {
	name := rec.Name()
	b.WriteString(`<div class="card product-card scroll-reveal delay-100">`)
	b.WriteString(`<div class="card-image">` + r.imageTag(rec.Image(), name) + `</div>`)
	b.WriteString(`<div class="card-content">`)
	b.WriteString(`<h3 class="card-title">` + sanitize.Escape(name) + `</h3>`)
	b.WriteString(`<p class="card-description">` + sanitize.Escape(rec.Description()) + `</p>`)
	b.WriteString(`<div class="card-actions">`)
	b.WriteString(`<a href="` + sanitize.Escape(r.resolver.Resolve(ContactPage)) + `" class="btn btn-primary">Contact Us</a>`)
	b.WriteString(`<a href="` + sanitize.Escape(settings.InquiryLink(name)) + `" class="btn btn-outline" target="_blank" rel="noopener noreferrer">WhatsApp</a>`)
	b.WriteString(`</div></div></div>`)
}

func (r *Renderer) featuredCard(b *strings.Builder, rec content.Record) {
	name := rec.Name()
	b.WriteString(`<div class="card scroll-reveal">`)
	b.WriteString(`<div class="card-image">` + r.imageTag(rec.Image(), name) + `</div>`)
	b.WriteString(`<div class="card-content">`)
	b.WriteString(`<h3 class="card-title">` + sanitize.Escape(name) + `</h3>`)
	b.WriteString(`<p class="card-description">` + sanitize.Escape(rec.Description()) + `</p>`)
	b.WriteString(`<a href="` + sanitize.Escape(r.resolver.Resolve(SolutionsPage)) + `" class="btn btn-outline">Learn More</a>`)
	b.WriteString(`</div></div>`)
}

// imageTag renders an <img> whose broken-image hook swaps in the placeholder.
// A record without an image gets the placeholder directly.
func (r *Renderer) imageTag(src, name string) string {
	if src == "" {
		src = PlaceholderURI(name)
	} else {
		src = r.resolver.Resolve(src)
	}
	return `<img src="` + sanitize.Escape(src) +
		`" alt="` + sanitize.Escape(name) +
		`" loading="lazy" onerror="` + sanitize.Escape(ImageFallback(name)) + `">`
}
