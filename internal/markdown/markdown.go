// Package markdown renders content bodies (team bios, product details) to
// HTML fragments suitable for injection into the page.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
)

// Renderer converts markdown to HTML. Raw HTML in the source is omitted
// (goldmark's default), so the output only contains markup goldmark produced
// itself, with text and attributes escaped.
type Renderer struct {
	md      goldmark.Markdown
	resolve func(string) string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLinkResolver rewrites every link and image destination before
// rendering, typically paths.Resolver.Resolve.
func WithLinkResolver(fn func(string) string) Option {
	return func(r *Renderer) { r.resolve = fn }
}

// New returns a Renderer with GitHub-flavoured tables, strikethrough and
// autolinks enabled.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts body to HTML. An empty body renders as "".
func (r *Renderer) Render(body string) (string, error) {
	if body == "" {
		return "", nil
	}
	src := []byte(body)
	root := r.md.Parser().Parse(text.NewReader(src))
	if r.resolve != nil {
		r.rewriteDestinations(root)
	}
	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, root); err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "failed to render markdown").Build()
	}
	return buf.String(), nil
}

func (r *Renderer) rewriteDestinations(root gmast.Node) {
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Image:
			node.Destination = []byte(r.resolve(string(node.Destination)))
		case *gmast.Link:
			node.Destination = []byte(r.resolve(string(node.Destination)))
		}
		return gmast.WalkContinue, nil
	})
}
