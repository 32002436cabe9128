package render

import (
	"fmt"
	"net/url"

	"git.home.luguber.info/inful/siteshim/internal/sanitize"
)

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300" viewBox="0 0 400 300">` +
	`<rect width="400" height="300" fill="#E5E7EB"/>` +
	`<text x="200" y="150" font-family="sans-serif" font-size="20" fill="#6B7280" text-anchor="middle" dominant-baseline="middle">%s</text>` +
	`</svg>`

// PlaceholderURI returns an inline SVG data URI showing name.
func PlaceholderURI(name string) string {
	svg := fmt.Sprintf(placeholderSVG, sanitize.Escape(name))
	return "data:image/svg+xml," + url.PathEscape(svg)
}

// ImageFallback is the onerror hook of a card image: it swaps in the
// placeholder once and disables itself. The value is unescaped; escape it
// when building markup.
func ImageFallback(name string) string {
	return "this.onerror=null;this.src='" + PlaceholderURI(name) + "';"
}
