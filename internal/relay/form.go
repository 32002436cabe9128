package relay

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldType mirrors the HTML input types that carry extra validation.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldTextarea FieldType = "textarea"
)

// Field describes one form input.
type Field struct {
	Name      string
	Label     string // as shown on the page; a trailing "*" marks required
	Type      FieldType
	Required  bool
	MinLength int
	MaxLength int
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[\d\s+\-()]{7,}$`)
	titleCaser   = cases.Title(language.English)
)

const (
	minPhoneDigits = 7
	maxValueRunes  = 200
)

// DisplayLabel returns the label without required markers, or a title-cased
// field name when no label is set.
func (f Field) DisplayLabel() string {
	if l := strings.TrimSpace(strings.ReplaceAll(f.Label, "*", "")); l != "" {
		return l
	}
	return titleCaser.String(strings.NewReplacer("_", " ", "-", " ").Replace(f.Name))
}

// Validate checks value against the field rules and returns a visitor-facing
// message, or "" when the value is acceptable. Values are trimmed first;
// length rules are skipped for empty optional values.
func (f Field) Validate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		if f.Required {
			return f.DisplayLabel() + " is required"
		}
		return ""
	}
	switch f.Type {
	case FieldEmail:
		if !emailPattern.MatchString(value) {
			return "Please enter a valid email address"
		}
	case FieldTel:
		if !phonePattern.MatchString(value) || countDigits(value) < minPhoneDigits {
			return "Please enter a valid phone number (minimum 7 digits)"
		}
	}
	n := utf8.RuneCountInString(value)
	if f.MinLength > 0 && n < f.MinLength {
		return fmt.Sprintf("%s must be at least %d characters", f.DisplayLabel(), f.MinLength)
	}
	if f.MaxLength > 0 && n > f.MaxLength {
		return fmt.Sprintf("%s must not exceed %d characters", f.DisplayLabel(), f.MaxLength)
	}
	return ""
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Form is an ordered set of fields.
type Form []Field

// ContactForm is the site's contact and product inquiry form.
func ContactForm() Form {
	return Form{
		{Name: "name", Label: "Full Name *", Type: FieldText, Required: true, MinLength: 2, MaxLength: 100},
		{Name: "email", Label: "Email Address *", Type: FieldEmail, Required: true, MaxLength: 254},
		{Name: "phone", Label: "Phone Number", Type: FieldTel, MaxLength: 30},
		{Name: "product", Label: "Product", Type: FieldText, MaxLength: 100},
		{Name: "subject", Label: "Subject", Type: FieldText, MaxLength: 200},
		{Name: "message", Label: "Message *", Type: FieldTextarea, Required: true, MinLength: 10, MaxLength: 2000},
	}
}

// Validate returns field name → message for every failing field.
func (f Form) Validate(values url.Values) map[string]string {
	problems := make(map[string]string)
	for _, field := range f {
		if msg := field.Validate(values.Get(field.Name)); msg != "" {
			problems[field.Name] = msg
		}
	}
	return problems
}
