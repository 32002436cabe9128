// Package sanitize escapes content-derived text before it is concatenated
// into HTML markup.
package sanitize

import (
	"fmt"
	"strings"
)

// replacer works in a single pass and never rescans its own output, which is
// equivalent to replacing '&' before the other four characters.
var replacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape replaces the five HTML-significant characters with entities so the
// result is safe in element text and quoted attribute values.
//
// Escape is not idempotent: Escape(Escape(s)) escapes the ampersands of the
// entities the first call produced ("&lt;" becomes "&amp;lt;"). Callers escape
// exactly once, at the point of concatenation.
func Escape(s string) string {
	return replacer.Replace(s)
}

// EscapeValue escapes an arbitrary value; nil yields "".
func EscapeValue(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return Escape(vv)
	case fmt.Stringer:
		return Escape(vv.String())
	default:
		return Escape(fmt.Sprint(vv))
	}
}
