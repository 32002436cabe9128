// Package frontmatter parses the lightweight "---" delimited header used by
// the site's content files.
//
// The header is deliberately not YAML: a line that looks like "key:" starts a
// field and every other line is appended to the field before it. That keeps
// hand-edited and CMS-written files readable without a schema.
package frontmatter

import (
	"regexp"
	"strings"
)

const delimiter = "---"

// fieldLine matches the start of a new field ("  name : value").
var fieldLine = regexp.MustCompile(`^\s*(\w+)\s*:(.*)$`)

// Split separates the header block from the body.
//
// If the text does not open with a delimiter line, or the closing delimiter
// is missing, had is false and body is the input unchanged.
func Split(text string) (header []string, body string, had bool) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) == 0 || !isDelimiter(lines[0]) {
		return nil, text, false
	}
	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			return lines[1:i], strings.Join(lines[i+1:], "\n"), true
		}
	}
	return nil, text, false
}

// Parse converts text into its header fields and trimmed body.
//
// Field values are whitespace-trimmed and have one layer of matching quotes
// removed. A field with no value yields "". Without a header the field map is
// empty and body is text, untouched.
func Parse(text string) (map[string]string, string) {
	header, body, had := Split(text)
	if !had {
		return map[string]string{}, text
	}
	return parseFields(header), trimBlankLines(body)
}

func parseFields(lines []string) map[string]string {
	fields := make(map[string]string)
	raw := make(map[string][]string)
	var order []string
	current := ""

	for _, line := range lines {
		if m := fieldLine.FindStringSubmatch(line); m != nil {
			current = m[1]
			if _, seen := raw[current]; !seen {
				order = append(order, current)
			}
			first := m[2]
			if isBlockIndicator(first) {
				raw[current] = nil
				continue
			}
			raw[current] = []string{first}
			continue
		}
		if current == "" {
			continue
		}
		raw[current] = append(raw[current], line)
	}

	for _, key := range order {
		fields[key] = cleanValue(strings.Join(raw[key], "\n"))
	}
	return fields
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			v = v[1 : len(v)-1]
		}
	}
	return v
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t") == delimiter
}

// isBlockIndicator reports whether a first-line value only announces a YAML
// block scalar ("|" or "|-"); the content is on the following lines.
func isBlockIndicator(v string) bool {
	switch strings.TrimSpace(v) {
	case "|", "|-":
		return true
	}
	return false
}

func trimBlankLines(body string) string {
	lines := strings.Split(body, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
