// Package content turns the site's known content files into plain records:
// fetch, parse, drop invalid entries, fall back when nothing survives, and
// sort. It knows nothing about the DOM.
package content

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/siteshim/internal/catalog"
	"git.home.luguber.info/inful/siteshim/internal/frontmatter"
	"git.home.luguber.info/inful/siteshim/internal/logfields"
	"git.home.luguber.info/inful/siteshim/internal/metrics"
)

// Content file locations, relative to the site root.
const (
	HomepagePath = "/_data/homepage.json"
	ContactPath  = "/_data/contact.json"
	ProductsDir  = "/_data/products/"
	TeamDir      = "/_data/team/"
)

// Section names used in logs and metrics.
const (
	SectionProducts = "products"
	SectionTeam     = "team"
)

// Result is the outcome of loading one section.
type Result struct {
	Records  []Record
	Fallback bool // Records came from the fallback catalog
}

// Loader runs the fetch+merge+sort stage for each section.
type Loader struct {
	fetcher     Fetcher
	catalog     catalog.Catalog
	recorder    metrics.Recorder
	logger      *slog.Logger
	parallelism int
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) LoaderOption {
	return func(l *Loader) { l.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger.
func WithLogger(lg *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithParallelism fetches up to n files of a section at once. Values below 2
// keep the sequential behaviour. Results are still assembled in known-file
// order, so arrival order never changes the output.
func WithParallelism(n int) LoaderOption {
	return func(l *Loader) { l.parallelism = n }
}

// NewLoader returns a Loader reading through f with the given catalog.
func NewLoader(f Fetcher, c catalog.Catalog, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:  f,
		catalog:  c,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Products loads the product records, sorted.
func (l *Loader) Products(ctx context.Context) Result {
	return l.section(ctx, SectionProducts, ProductsDir, l.catalog.Known.Products, l.catalog.Fallback.Products)
}

// Team loads the team records, sorted.
func (l *Loader) Team(ctx context.Context) Result {
	return l.section(ctx, SectionTeam, TeamDir, l.catalog.Known.Team, l.catalog.Fallback.Team)
}

// Homepage loads homepage.json; ok is false when it is unavailable.
func (l *Loader) Homepage(ctx context.Context) (Homepage, bool) {
	var h Homepage
	if !l.fetcher.FetchJSON(ctx, HomepagePath, &h) {
		return Homepage{}, false
	}
	return h, true
}

// Contact loads contact.json; ok is false when it is unavailable.
func (l *Loader) Contact(ctx context.Context) (Contact, bool) {
	var c Contact
	if !l.fetcher.FetchJSON(ctx, ContactPath, &c) {
		return Contact{}, false
	}
	return c, true
}

func (l *Loader) section(ctx context.Context, section, dir string, slugs []string, fallback []map[string]string) Result {
	start := time.Now()
	fetched := l.fetchAll(ctx, dir, slugs)

	records := make([]Record, 0, len(fetched))
	for i, rec := range fetched {
		if rec == nil {
			continue
		}
		if !rec.Valid() {
			l.recorder.IncFetchResult(kindText, metrics.ResultInvalid)
			l.logger.InfoContext(ctx, "Skipping invalid or inactive content record",
				logfields.Section(section),
				logfields.Slug(slugs[i]))
			continue
		}
		records = append(records, *rec)
	}

	res := Result{Records: records}
	if len(records) == 0 {
		res = Result{Records: FromCatalog(fallback), Fallback: true}
		l.recorder.IncFallback(section)
		l.logger.WarnContext(ctx, "No usable content records; using fallback catalog",
			logfields.Section(section),
			logfields.Count(len(res.Records)))
	}
	SortByOrder(res.Records)

	l.logger.DebugContext(ctx, "Section loaded",
		logfields.Section(section),
		logfields.Count(len(res.Records)),
		slog.Bool("fallback", res.Fallback),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return res
}

// fetchAll returns one entry per slug, nil where the file was unavailable.
func (l *Loader) fetchAll(ctx context.Context, dir string, slugs []string) []*Record {
	out := make([]*Record, len(slugs))
	if l.parallelism < 2 {
		for i, slug := range slugs {
			out[i] = l.fetchRecord(ctx, dir, slug)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(l.parallelism)
	for i, slug := range slugs {
		g.Go(func() error {
			out[i] = l.fetchRecord(ctx, dir, slug)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (l *Loader) fetchRecord(ctx context.Context, dir, slug string) *Record {
	text, ok := l.fetcher.FetchText(ctx, dir+slug+".md")
	if !ok {
		return nil
	}
	fields, body := frontmatter.Parse(text)
	rec := NewRecord(slug, fields, body)
	return &rec
}
