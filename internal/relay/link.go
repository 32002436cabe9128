// Package relay turns site form submissions and product inquiries into
// WhatsApp deep links. The target number is an explicit Settings value
// derived from contact data, never ambient state.
package relay

import (
	"net/url"
	"strings"
	"unicode"
)

// FallbackNumber is used when contact data carries no usable phone number.
const FallbackNumber = "2347035459321"

// Settings carries the relay target.
type Settings struct {
	Number string // digits only, international format without "+"
}

// NewSettings picks the WhatsApp number from the contact record: an explicit
// whatsapp value wins over phone, and fallback is used when neither has
// digits. An empty fallback means FallbackNumber.
func NewSettings(whatsapp, phone, fallback string) Settings {
	for _, candidate := range []string{whatsapp, phone, fallback} {
		if n := NormalizeNumber(candidate); n != "" {
			return Settings{Number: n}
		}
	}
	return Settings{Number: FallbackNumber}
}

// NormalizeNumber strips everything but ASCII digits.
func NormalizeNumber(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Link returns https://wa.me/<number>?text=<message>.
func (s Settings) Link(message string) string {
	number := s.Number
	if number == "" {
		number = FallbackNumber
	}
	return "https://wa.me/" + number + "?text=" + EncodeURIComponent(message)
}

// InquiryLink is the per-product link rendered on product cards.
func (s Settings) InquiryLink(product string) string {
	return s.Link(InquirySubject(product))
}

// InquirySubject prefills the subject of a product inquiry.
func InquirySubject(product string) string {
	return "Inquiry about " + strings.TrimSpace(product)
}

var uriComponentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes s the way browsers do for a URI
// component: only A-Z a-z 0-9 and - _ . ! ~ * ' ( ) are left as is.
func EncodeURIComponent(s string) string {
	return uriComponentUnescape.Replace(url.QueryEscape(s))
}
