// Package site wires configuration into the content pipeline: catalog,
// fetchers, the page controller and the relay settings used by serve.
package site

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/siteshim/internal/catalog"
	"git.home.luguber.info/inful/siteshim/internal/config"
	"git.home.luguber.info/inful/siteshim/internal/content"
	"git.home.luguber.info/inful/siteshim/internal/dom"
	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
	"git.home.luguber.info/inful/siteshim/internal/logfields"
	"git.home.luguber.info/inful/siteshim/internal/metrics"
	"git.home.luguber.info/inful/siteshim/internal/page"
	"git.home.luguber.info/inful/siteshim/internal/paths"
	"git.home.luguber.info/inful/siteshim/internal/relay"
)

// Site holds everything needed to hydrate pages for one configuration.
type Site struct {
	cfg      *config.Config
	catalog  catalog.Catalog
	http     *content.HTTPFetcher // nil when content is read from Site.Dir
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New builds a Site. recorder and logger may be nil.
func New(cfg *config.Config, recorder metrics.Recorder, logger *slog.Logger) (*Site, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cat, err := catalog.Load(cfg.Content.CatalogFile)
	if err != nil {
		return nil, err
	}
	s := &Site{
		cfg:      cfg,
		catalog:  cat,
		recorder: metrics.OrNoop(recorder),
		logger:   logger,
	}
	if cfg.Content.Origin != "" {
		s.http, err = content.NewHTTPFetcher(cfg.Content.Origin,
			content.WithTimeout(cfg.Content.Timeout),
			content.WithRetryPolicy(cfg.Content.RetryPolicy()),
			content.WithFetchRecorder(s.recorder),
			content.WithFetchLogger(logger))
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Catalog returns the active catalog.
func (s *Site) Catalog() catalog.Catalog { return s.catalog }

// Fetcher returns a content fetcher resolving paths against r: HTTP when an
// origin is configured, otherwise the site directory.
func (s *Site) Fetcher(r paths.Resolver) content.Fetcher {
	if s.http != nil {
		return s.http.WithResolver(r)
	}
	return content.NewFSFetcher(os.DirFS(s.cfg.Site.Dir), r,
		content.WithFSRecorder(s.recorder),
		content.WithFSLogger(s.logger))
}

// Controller returns a page controller for this site. opts are applied after
// the configured ones.
func (s *Site) Controller(opts ...page.Option) *page.Controller {
	base := []page.Option{
		page.WithBasePath(s.cfg.Site.BasePath),
		page.WithFallbackNumber(s.cfg.Relay.FallbackNumber),
		page.WithRecorder(s.recorder),
		page.WithLogger(s.logger),
	}
	if s.cfg.Content.ParallelFetch {
		base = append(base, page.WithParallelism(s.cfg.Content.Parallelism))
	}
	return page.NewController(s.catalog, s.Fetcher, append(base, opts...)...)
}

// RenderFile hydrates the shell page at pageFile as route and writes the
// result to w. An empty route is derived from the file name.
func (s *Site) RenderFile(ctx context.Context, pageFile, route string, w io.Writer) (page.Report, error) {
	f, err := os.Open(pageFile)
	if err != nil {
		return page.Report{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to open page").
			WithContext("page", pageFile).
			Build()
	}
	defer func() { _ = f.Close() }()

	doc, err := dom.Parse(f)
	if err != nil {
		return page.Report{}, errors.WrapError(err, errors.CategoryContent, "failed to parse page").
			WithContext("page", pageFile).
			Build()
	}
	if route == "" {
		route = "/" + filepath.ToSlash(filepath.Base(pageFile))
	}

	report := s.Controller().Run(ctx, doc, route)

	if err := doc.Render(w); err != nil {
		return report, errors.WrapError(err, errors.CategoryRender, "failed to write page").
			WithContext("page", pageFile).
			Build()
	}
	return report, nil
}

// RelaySettings loads the contact data and derives the WhatsApp settings.
// It satisfies relay.SettingsSource.
func (s *Site) RelaySettings(ctx context.Context) relay.Settings {
	loader := content.NewLoader(s.Fetcher(paths.NewResolver(s.cfg.Site.BasePath)), s.catalog,
		content.WithRecorder(s.recorder),
		content.WithLogger(s.logger))
	c, ok := loader.Contact(ctx)
	if !ok {
		s.logger.DebugContext(ctx, "Contact data unavailable; using fallback number",
			logfields.Path(content.ContactPath))
		return relay.NewSettings("", "", s.cfg.Relay.FallbackNumber)
	}
	return relay.NewSettings(c.WhatsApp.String(), c.Phone.String(), s.cfg.Relay.FallbackNumber)
}
