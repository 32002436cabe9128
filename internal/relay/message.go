package relay

import (
	"net/url"
	"strings"
	"time"
)

// DefaultTitle heads every relayed submission.
const DefaultTitle = "New Form Submission from BetaX Website"

const timestampLayout = "02 Jan 2006, 15:04 MST"

// Message formats a submission as WhatsApp markdown: a bold title, one
// "*Label:* value" line per submitted field in form order, and a timestamp
// footer. Values are trimmed and truncated to 200 characters.
func Message(title string, form Form, values url.Values, at time.Time) string {
	if title == "" {
		title = DefaultTitle
	}
	var b strings.Builder
	b.WriteString("🔔 *" + title + "*\n\n")
	for _, field := range form {
		if !values.Has(field.Name) {
			continue
		}
		b.WriteString("*" + field.DisplayLabel() + ":* " + truncate(strings.TrimSpace(values.Get(field.Name)), maxValueRunes) + "\n")
	}
	b.WriteString("\n_Submitted: " + at.Format(timestampLayout) + "_")
	return b.String()
}

func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
