// Package render writes content records into the page's fixed containers.
// Every renderer replaces the children of its targets wholesale, so running
// it again over the same document yields the same markup. Containers that
// are absent from the page are skipped.
//
// Content values reach the page either through dom.SetText or, when they are
// part of a markup fragment, through sanitize.Escape.
package render

import (
	"log/slog"

	"git.home.luguber.info/inful/siteshim/internal/markdown"
	"git.home.luguber.info/inful/siteshim/internal/paths"
)

// Selectors of the containers the renderers write into.
const (
	SelHeroTitle      = ".hero-title"
	SelHeroSubtitle   = ".hero-subtitle"
	SelStatsGrid      = ".stats-grid"
	SelSolutionsGrid  = ".solutions-grid"
	SelFeaturedGrid   = "#homepage-solutions-grid"
	SelTeamGrid       = ".team-grid"
	SelCEOName        = ".ceo-name"
	SelCEOTitle       = ".ceo-title"
	SelCEOTagline     = ".ceo-tagline"
	SelCEOImage       = ".ceo-image-container img"
	SelContactAddress = ".contact-address"
	SelMailto         = `a[href^="mailto:"]`
	SelTel            = `a[href^="tel:"]`
)

// Page links used by card actions; resolved against the base path.
const (
	ContactPage   = "contact.html"
	SolutionsPage = "solutions.html"
)

// Renderer holds what every section needs: the base-path resolver for asset
// and page links, and the markdown renderer for record bodies.
type Renderer struct {
	resolver paths.Resolver
	markdown *markdown.Renderer
	logger   *slog.Logger
}

// New returns a Renderer resolving links against r.
func New(r paths.Resolver, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		resolver: r,
		markdown: markdown.New(markdown.WithLinkResolver(r.Resolve)),
		logger:   logger,
	}
}
