// Package page drives one content pass over a page: contact details first,
// then the sections the page's route needs, one stage at a time.
package page

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/siteshim/internal/catalog"
	"git.home.luguber.info/inful/siteshim/internal/content"
	"git.home.luguber.info/inful/siteshim/internal/dom"
	"git.home.luguber.info/inful/siteshim/internal/logfields"
	"git.home.luguber.info/inful/siteshim/internal/metrics"
	"git.home.luguber.info/inful/siteshim/internal/observability"
	"git.home.luguber.info/inful/siteshim/internal/paths"
	"git.home.luguber.info/inful/siteshim/internal/relay"
	"git.home.luguber.info/inful/siteshim/internal/render"
)

// State is the controller's position within a run.
type State string

const (
	StateIdle                State = "idle"
	StateLoadingContact      State = "loading-contact"
	StateLoadingPageSpecific State = "loading-page-specific"
	StateDone                State = "done"
)

// ScrollRevealer re-arms entrance animations for freshly injected nodes. It
// is optional; the host registers one when its page has such behaviour.
type ScrollRevealer interface {
	Reinit(doc *dom.Document)
}

// ScrollRevealFunc adapts a function to ScrollRevealer.
type ScrollRevealFunc func(doc *dom.Document)

func (f ScrollRevealFunc) Reinit(doc *dom.Document) { f(doc) }

// FetcherFactory returns a content fetcher bound to a page's base path.
type FetcherFactory func(paths.Resolver) content.Fetcher

// Report describes a finished run.
type Report struct {
	Route            Route
	BasePath         string
	Transitions      []State
	ContactLoaded    bool
	Relay            relay.Settings
	ProductsFallback bool
	TeamFallback     bool
}

// Controller runs the content pipeline over a page. It holds only
// configuration and may be shared between runs.
type Controller struct {
	catalog        catalog.Catalog
	fetchers       FetcherFactory
	basePath       string
	fallbackNumber string
	parallelism    int
	revealer       ScrollRevealer
	recorder       metrics.Recorder
	logger         *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithBasePath overrides the page's <base href>.
func WithBasePath(base string) Option { return func(c *Controller) { c.basePath = base } }

// WithFallbackNumber sets the relay number used when contact data has none.
func WithFallbackNumber(n string) Option { return func(c *Controller) { c.fallbackNumber = n } }

// WithParallelism enables bounded parallel fetching within a section.
func WithParallelism(n int) Option { return func(c *Controller) { c.parallelism = n } }

// WithScrollRevealer registers the optional re-initializer.
func WithScrollRevealer(r ScrollRevealer) Option { return func(c *Controller) { c.revealer = r } }

func WithRecorder(r metrics.Recorder) Option {
	return func(c *Controller) { c.recorder = metrics.OrNoop(r) }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController returns a controller reading content through fetchers.
func NewController(cat catalog.Catalog, fetchers FetcherFactory, opts ...Option) *Controller {
	c := &Controller{
		catalog:        cat,
		fetchers:       fetchers,
		fallbackNumber: relay.FallbackNumber,
		recorder:       metrics.NoopRecorder{},
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// run is the state of a single pass.
type run struct {
	*Controller
	doc      *dom.Document
	loader   *content.Loader
	renderer *render.Renderer
	report   Report
}

// Run performs one pass over doc for the page at pagePath. Content failures
// degrade to fallback data or untouched markup; nothing is returned as an
// error.
func (c *Controller) Run(ctx context.Context, doc *dom.Document, pagePath string) Report {
	resolver := paths.FromDocument(c.basePath, doc.BaseHref())
	logger := c.logger.With(logfields.Page(pagePath))

	r := &run{
		Controller: c,
		doc:        doc,
		loader: content.NewLoader(c.fetchers(resolver), c.catalog,
			content.WithRecorder(c.recorder),
			content.WithLogger(logger),
			content.WithParallelism(c.parallelism)),
		renderer: render.New(resolver, logger),
		report: Report{
			Route:       DetectRoute(resolver.StripBase(pagePath)),
			BasePath:    resolver.Base(),
			Transitions: []State{StateIdle},
		},
	}

	r.stage(ctx, StateLoadingContact, r.contact)
	r.stage(ctx, StateLoadingPageSpecific, r.pageSpecific)

	if c.revealer != nil {
		c.revealer.Reinit(doc)
	}
	r.report.Transitions = append(r.report.Transitions, StateDone)
	logger.InfoContext(ctx, "Page content loaded",
		slog.String("route", string(r.report.Route)),
		slog.Bool("products_fallback", r.report.ProductsFallback),
		slog.Bool("team_fallback", r.report.TeamFallback))
	return r.report
}

func (r *run) stage(ctx context.Context, s State, fn func(context.Context)) {
	r.report.Transitions = append(r.report.Transitions, s)
	start := time.Now()
	fn(observability.WithStage(ctx, string(s)))
	r.recorder.ObserveStageDuration(string(s), time.Since(start))
}

func (r *run) contact(ctx context.Context) {
	contact, ok := r.loader.Contact(ctx)
	r.report.ContactLoaded = ok
	if !ok {
		r.report.Relay = relay.NewSettings("", "", r.fallbackNumber)
		return
	}
	r.renderer.Contact(r.doc, contact)
	r.report.Relay = relay.NewSettings(contact.WhatsApp.String(), contact.Phone.String(), r.fallbackNumber)
}

func (r *run) pageSpecific(ctx context.Context) {
	switch r.report.Route {
	case RouteHome:
		if home, ok := r.loader.Homepage(ctx); ok {
			r.check(ctx, "homepage", r.renderer.Homepage(r.doc, home))
		}
		r.products(ctx)
	case RouteSolutions:
		r.products(ctx)
	case RouteTeam:
		res := r.loader.Team(ctx)
		r.report.TeamFallback = res.Fallback
		r.check(ctx, content.SectionTeam, r.renderer.Team(r.doc, res.Records))
	}
}

func (r *run) products(ctx context.Context) {
	res := r.loader.Products(ctx)
	r.report.ProductsFallback = res.Fallback
	r.check(ctx, content.SectionProducts, r.renderer.Products(r.doc, res.Records, r.report.Relay))
}

func (r *run) check(ctx context.Context, section string, err error) {
	if err != nil {
		r.logger.WarnContext(ctx, "Section render failed; keeping page markup",
			logfields.Section(section),
			logfields.Error(err))
	}
}
