// Package dom wraps an HTML document tree for in-place rewriting: CSS
// selector queries, text and attribute updates, and wholesale replacement of a
// container's children with a parsed fragment.
package dom

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
)

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse reads a complete HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}
	return &Document{root: root}, nil
}

// ParseString is Parse for an in-memory page.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "failed to render HTML").Build()
	}
	return nil
}

// String renders the document; render errors yield "".
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

var (
	selMu    sync.Mutex
	selCache = map[string]cascadia.Sel{}
)

func compile(selector string) (cascadia.Sel, bool) {
	selMu.Lock()
	defer selMu.Unlock()
	if s, ok := selCache[selector]; ok {
		return s, s != nil
	}
	s, err := cascadia.Parse(selector)
	if err != nil {
		selCache[selector] = nil
		return nil, false
	}
	selCache[selector] = s
	return s, true
}

// QueryAll returns every element matching selector in document order. An
// invalid selector matches nothing.
func (d *Document) QueryAll(selector string) []*html.Node {
	return QueryAll(d.root, selector)
}

// Query returns the first match or nil.
func (d *Document) Query(selector string) *html.Node {
	return Query(d.root, selector)
}

// QueryAll searches below n.
func QueryAll(n *html.Node, selector string) []*html.Node {
	if n == nil {
		return nil
	}
	s, ok := compile(selector)
	if !ok {
		return nil
	}
	return cascadia.QueryAll(n, s)
}

// Query returns the first match below n or nil.
func Query(n *html.Node, selector string) *html.Node {
	if n == nil {
		return nil
	}
	s, ok := compile(selector)
	if !ok {
		return nil
	}
	return cascadia.Query(n, s)
}

// BaseHref returns the href of the document's first <base> element.
func (d *Document) BaseHref() string {
	if n := d.Query("base[href]"); n != nil {
		v, _ := Attr(n, "href")
		return v
	}
	return ""
}

// Attr returns the value of key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or adds key on n.
func SetAttr(n *html.Node, key, val string) {
	if n == nil {
		return
	}
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return b.String()
}

// SetText replaces the children of n with a single text node. The value is
// stored verbatim and escaped on render.
func SetText(n *html.Node, s string) {
	if n == nil {
		return
	}
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// SetInnerHTML replaces the children of n with the parsed fragment. The
// fragment is trusted markup; callers escape any interpolated content.
func SetInnerHTML(n *html.Node, fragment string) error {
	if n == nil {
		return nil
	}
	ctx := n
	if n.Type != html.ElementNode {
		ctx = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRender, "failed to parse HTML fragment").Build()
	}
	removeChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// OuterHTML renders n itself.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}
