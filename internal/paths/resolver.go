// Package paths rewrites site-relative asset and content references against the
// deployment base path, so the same content works from a domain root, a
// sub-directory (project pages) or a CDN prefix.
package paths

import (
	"net/url"
	"regexp"
	"strings"
)

// schemePattern matches an RFC 3986 scheme prefix such as "https:", "data:" or "mailto:".
var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

// Resolver prefixes site-relative paths with a base path. The zero value has
// an empty base and leaves every path untouched.
type Resolver struct {
	base string
}

// NewResolver returns a Resolver for base. The base may be a path ("/site"),
// an absolute URL ("https://cdn.example.com/site") or empty.
func NewResolver(base string) Resolver {
	return Resolver{base: normalizeBase(base)}
}

// FromDocument picks the base path for a page: a non-empty override wins,
// otherwise the page's <base href> is used. For an absolute base href only
// its path component is kept, since content is fetched from the configured
// origin.
func FromDocument(override, baseHref string) Resolver {
	if strings.TrimSpace(override) != "" {
		return NewResolver(override)
	}
	baseHref = strings.TrimSpace(baseHref)
	if IsAbsolute(baseHref) {
		u, err := url.Parse(baseHref)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return Resolver{}
		}
		return NewResolver(u.Path)
	}
	return NewResolver(baseHref)
}

// Base returns the normalized base ("" when none is configured).
func (r Resolver) Base() string {
	return r.base
}

// Resolve rewrites p against the base. Absolute URLs, data URIs,
// protocol-relative URLs, fragments and queries pass through unchanged, as do
// paths already under the base, so Resolve(Resolve(p)) == Resolve(p).
func (r Resolver) Resolve(p string) string {
	if p == "" || r.base == "" || IsAbsolute(p) {
		return p
	}
	if strings.HasPrefix(p, "#") || strings.HasPrefix(p, "?") {
		return p
	}
	if r.hasBase(p) {
		return p
	}
	rel := p
	for strings.HasPrefix(rel, "./") {
		rel = rel[2:]
	}
	if strings.HasPrefix(rel, "/") {
		return r.base + rel
	}
	return r.base + "/" + rel
}

// StripBase removes the base prefix from a request path so routes can be
// matched the same way under every hosting root. The result always starts
// with "/".
func (r Resolver) StripBase(p string) string {
	if p == "" {
		return "/"
	}
	prefix := r.base
	if IsAbsolute(prefix) {
		if u, err := url.Parse(prefix); err == nil {
			prefix = strings.TrimRight(u.Path, "/")
		}
	}
	if prefix != "" && (p == prefix || strings.HasPrefix(p, prefix+"/")) {
		p = strings.TrimPrefix(p, prefix)
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func (r Resolver) hasBase(p string) bool {
	return p == r.base || strings.HasPrefix(p, r.base+"/")
}

// IsAbsolute reports whether p carries a scheme (https:, data:, mailto:) or is
// protocol-relative (//host/...).
func IsAbsolute(p string) bool {
	return strings.HasPrefix(p, "//") || schemePattern.MatchString(p)
}

func normalizeBase(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	if !IsAbsolute(base) && !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return base
}
