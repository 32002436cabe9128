package page

import (
	"context"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/siteshim/internal/catalog"
	"git.home.luguber.info/inful/siteshim/internal/content"
	"git.home.luguber.info/inful/siteshim/internal/dom"
	"git.home.luguber.info/inful/siteshim/internal/paths"
	"git.home.luguber.info/inful/siteshim/internal/relay"
)

const shell = `<!DOCTYPE html><html><head>%BASE%</head><body>
<h1 class="hero-title">Static</h1><p class="hero-subtitle">Static</p>
<div class="stats-grid"></div>
<div class="solutions-grid"></div>
<div id="homepage-solutions-grid"></div>
<h2 class="ceo-name">CEO</h2><p class="ceo-title"></p><p class="ceo-tagline"></p>
<div class="ceo-image-container"><img src="/old.jpg"></div>
<a href="mailto:x@example.com">x@example.com</a>
<a href="tel:+1">+1</a>
</body></html>`

func newDoc(t *testing.T, base string) *dom.Document {
	t.Helper()
	tag := ""
	if base != "" {
		tag = `<base href="` + base + `">`
	}
	d, err := dom.ParseString(strings.Replace(shell, "%BASE%", tag, 1))
	require.NoError(t, err)
	return d
}

var site = fstest.MapFS{
	"_data/contact.json":               {Data: []byte(`{"email":"info@betax.ng","phone":"+234 803 000 0000"}`)},
	"_data/homepage.json":              {Data: []byte(`{"hero":{"title":"Live title","subtitle":"Live subtitle"},"stats":[{"number":"50+","label":"Projects"}]}`)},
	"_data/products/irrigate-smart.md": {Data: []byte("---\nname: Irrigate Smart\norder: 2\nfeatured: true\n---\n")},
	"_data/products/solar-plant.md":    {Data: []byte("---\nname: <img src=x onerror=alert(1)>\norder: 1\n---\n")},
	"_data/products/ignite-home.md":    {Data: []byte("---\nname: Ignite Home\nactive: false\n---\n")},
	"_data/team/umar-muhammad.md":      {Data: []byte("---\nname: Umar Muhammad\ntitle: CEO\ntagline: Live tagline\nphoto: /img/umar.jpg\n---\n")},
}

// recordingFetcher logs every requested path in order.
type recordingFetcher struct {
	content.Fetcher
	mu    *sync.Mutex
	calls *[]string
}

func (f recordingFetcher) FetchJSON(ctx context.Context, p string, dst any) bool {
	f.record(p)
	return f.Fetcher.FetchJSON(ctx, p, dst)
}

func (f recordingFetcher) FetchText(ctx context.Context, p string) (string, bool) {
	f.record(p)
	return f.Fetcher.FetchText(ctx, p)
}

func (f recordingFetcher) record(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*f.calls = append(*f.calls, p)
}

func fsFactory(fsys fstest.MapFS, calls *[]string, bases *[]string) FetcherFactory {
	mu := &sync.Mutex{}
	return func(r paths.Resolver) content.Fetcher {
		if bases != nil {
			*bases = append(*bases, r.Base())
		}
		f := content.Fetcher(content.NewFSFetcher(fsys, r))
		if calls != nil {
			f = recordingFetcher{Fetcher: f, mu: mu, calls: calls}
		}
		return f
	}
}

func TestRun_Home(t *testing.T) {
	var calls []string
	doc := newDoc(t, "")
	c := NewController(catalog.Default(), fsFactory(site, &calls, nil))

	rep := c.Run(context.Background(), doc, "/index.html")

	assert.Equal(t, RouteHome, rep.Route)
	assert.Equal(t, []State{StateIdle, StateLoadingContact, StateLoadingPageSpecific, StateDone}, rep.Transitions)
	assert.True(t, rep.ContactLoaded)
	assert.Equal(t, relay.Settings{Number: "2348030000000"}, rep.Relay)
	assert.False(t, rep.ProductsFallback)

	assert.Equal(t, []string{
		content.ContactPath,
		content.HomepagePath,
		"/_data/products/irrigate-smart.md",
		"/_data/products/solar-plant.md",
		"/_data/products/ignite-home.md",
	}, calls)

	assert.Equal(t, "Live title", dom.Text(doc.Query(".hero-title")))
	assert.Equal(t, "info@betax.ng", dom.Text(doc.Query(`a[href^="mailto:"]`)))

	featured := dom.QueryAll(doc.Query("#homepage-solutions-grid"), ".card-title")
	require.Len(t, featured, 1)
	assert.Equal(t, "Irrigate Smart", dom.Text(featured[0]))

	solutions := dom.QueryAll(doc.Query(".solutions-grid"), ".card-title")
	require.Len(t, solutions, 2)
	assert.Equal(t, "<img src=x onerror=alert(1)>", dom.Text(solutions[0]))
	assert.Len(t, dom.QueryAll(doc.Query(".solutions-grid"), "img"), 2)

	link, _ := dom.Attr(dom.Query(doc.Query(".solutions-grid"), `a[href^="https://wa.me/"]`), "href")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/2348030000000?text=Inquiry%20about%20"))
}

func TestRun_SolutionsFallsBackWhenContentMissing(t *testing.T) {
	doc := newDoc(t, "")
	c := NewController(catalog.Default(), fsFactory(fstest.MapFS{}, nil, nil))

	rep := c.Run(context.Background(), doc, "/solutions.html")

	assert.Equal(t, RouteSolutions, rep.Route)
	assert.False(t, rep.ContactLoaded)
	assert.True(t, rep.ProductsFallback)
	assert.Equal(t, relay.FallbackNumber, rep.Relay.Number)
	assert.Equal(t, "x@example.com", dom.Text(doc.Query(`a[href^="mailto:"]`)))

	var names []string
	for _, n := range dom.QueryAll(doc.Query(".solutions-grid"), ".card-title") {
		names = append(names, dom.Text(n))
	}
	assert.Equal(t, []string{"Irrigate Smart", "Solar Plant", "Ignite Home"}, names)
	assert.Equal(t, "Static", dom.Text(doc.Query(".hero-title")))
}

func TestRun_TeamUsesDocumentBase(t *testing.T) {
	var bases []string
	doc := newDoc(t, "/site/")
	c := NewController(catalog.Default(), fsFactory(site, nil, &bases))

	rep := c.Run(context.Background(), doc, "/site/team.html")

	assert.Equal(t, RouteTeam, rep.Route)
	assert.Equal(t, "/site", rep.BasePath)
	assert.Equal(t, []string{"/site"}, bases)
	assert.False(t, rep.TeamFallback)
	assert.Equal(t, "Umar Muhammad", dom.Text(doc.Query(".ceo-name")))
	assert.Equal(t, "Live tagline", dom.Text(doc.Query(".ceo-tagline")))
	src, _ := dom.Attr(doc.Query(".ceo-image-container img"), "src")
	assert.Equal(t, "/site/img/umar.jpg", src)
}

func TestRun_BaseOverrideWins(t *testing.T) {
	var bases []string
	doc := newDoc(t, "/ignored/")
	c := NewController(catalog.Default(), fsFactory(site, nil, &bases), WithBasePath("/preview"))

	rep := c.Run(context.Background(), doc, "/preview/")
	assert.Equal(t, RouteHome, rep.Route)
	assert.Equal(t, []string{"/preview"}, bases)
}

func TestRun_ScrollRevealer(t *testing.T) {
	calls := 0
	doc := newDoc(t, "")
	c := NewController(catalog.Default(), fsFactory(site, nil, nil),
		WithScrollRevealer(ScrollRevealFunc(func(d *dom.Document) {
			assert.Same(t, doc, d)
			calls++
		})))

	c.Run(context.Background(), doc, "/about.html")
	assert.Equal(t, 1, calls)
}

func TestRun_Idempotent(t *testing.T) {
	doc := newDoc(t, "")
	c := NewController(catalog.Default(), fsFactory(site, nil, nil), WithParallelism(3))

	c.Run(context.Background(), doc, "/")
	first := doc.String()
	c.Run(context.Background(), doc, "/")
	assert.Equal(t, first, doc.String())
}

func TestDetectRoute(t *testing.T) {
	tests := map[string]Route{
		"":                       RouteHome,
		"/":                      RouteHome,
		"index.html":             RouteHome,
		"/index.html":            RouteHome,
		"/en/index.html":         RouteHome,
		"/?utm=1":                RouteHome,
		"/solutions.html":        RouteSolutions,
		"/solutions/":            RouteSolutions,
		"/team.html#ceo":         RouteTeam,
		"/contact.html":          RouteOther,
		"/about.html?team=false": RouteOther,
	}
	for in, want := range tests {
		assert.Equal(t, want, DetectRoute(in), in)
	}
}
