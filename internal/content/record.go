package content

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// DefaultOrder is the sort position of a record whose order field is missing
// or not an integer.
const DefaultOrder = 999

// FeaturedLimit caps abbreviated (homepage) listings.
const FeaturedLimit = 3

// Record is one parsed content file: its frontmatter fields, markdown body and
// the slug it was fetched for. Fallback records have an empty Slug.
type Record struct {
	Slug   string
	Fields map[string]string
	Body   string
}

// NewRecord copies fields into a Record.
func NewRecord(slug string, fields map[string]string, body string) Record {
	cp := make(map[string]string, len(fields))
	maps.Copy(cp, fields)
	return Record{Slug: slug, Fields: cp, Body: body}
}

// Get returns a field value or "".
func (r Record) Get(key string) string {
	return r.Fields[key]
}

func (r Record) Name() string        { return strings.TrimSpace(r.Get("name")) }
func (r Record) Description() string { return r.Get("description") }

// Image returns the image field, accepting the older "photo" key.
func (r Record) Image() string {
	if img := strings.TrimSpace(r.Get("image")); img != "" {
		return img
	}
	return strings.TrimSpace(r.Get("photo"))
}

// Order parses the order field, defaulting to DefaultOrder. Only whole
// integers count: "1.0" or "3rd" sort as DefaultOrder.
func (r Record) Order() int {
	n, err := strconv.Atoi(strings.TrimSpace(r.Get("order")))
	if err != nil {
		return DefaultOrder
	}
	return n
}

// Active is false only for the literal value "false".
func (r Record) Active() bool   { return r.Get("active") != "false" }
func (r Record) Featured() bool { return r.Get("featured") == "true" }

// Valid reports whether the record may be rendered: it has a name and is not
// explicitly deactivated.
func (r Record) Valid() bool {
	return r.Name() != "" && r.Active()
}

// SortByOrder stable-sorts records in place by Order; ties keep input order.
func SortByOrder(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Compare(a.Order(), b.Order())
	})
}

// Featured returns up to limit featured records from an already sorted list.
// When nothing is featured the leading records of the full list are used.
func Featured(sorted []Record, limit int) []Record {
	var featured []Record
	for _, r := range sorted {
		if r.Featured() {
			featured = append(featured, r)
		}
	}
	if len(featured) == 0 {
		featured = sorted
	}
	if limit >= 0 && len(featured) > limit {
		featured = featured[:limit]
	}
	return slices.Clone(featured)
}

// FromCatalog converts fallback entries to records, preserving order.
func FromCatalog(entries []map[string]string) []Record {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, NewRecord("", e, ""))
	}
	return records
}
