package render

import (
	"strings"
	"unicode"

	"git.home.luguber.info/inful/siteshim/internal/content"
	"git.home.luguber.info/inful/siteshim/internal/dom"
)

// Contact rewrites every mailto:/tel: anchor and the address blocks. Anchor
// hrefs always change; the visible text only when it already shows an
// address or number, so custom labels ("Email us") survive.
func (r *Renderer) Contact(doc *dom.Document, c content.Contact) {
	if email := c.Email.String(); email != "" {
		for _, a := range doc.QueryAll(SelMailto) {
			dom.SetAttr(a, "href", "mailto:"+email)
			if strings.Contains(dom.Text(a), "@") {
				dom.SetText(a, email)
			}
		}
	}

	if phone := c.Phone.String(); phone != "" {
		href := "tel:" + strings.Join(strings.Fields(phone), "")
		for _, a := range doc.QueryAll(SelTel) {
			dom.SetAttr(a, "href", href)
			if LooksLikePhone(dom.Text(a)) {
				dom.SetText(a, phone)
			}
		}
	}

	if addr := c.Address.String(); addr != "" {
		for _, n := range doc.QueryAll(SelContactAddress) {
			dom.SetText(n, addr)
		}
	}
}

// LooksLikePhone reports whether s reads as a phone number: it contains "+"
// or consists only of digits and the usual separators.
func LooksLikePhone(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "+") {
		return true
	}
	digits := 0
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return false
		}
	}
	return digits > 0
}
