package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Solar Plant", "Solar Plant"},
		{"<img src=x onerror=alert(1)>", "&lt;img src=x onerror=alert(1)&gt;"},
		{`say "hi" & 'bye'`, "say &quot;hi&quot; &amp; &#39;bye&#39;"},
		{"&lt;", "&amp;lt;"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Escape(tt.in))
	}
}

// Escaping twice re-escapes the ampersands introduced by the first pass; this
// is the expected behaviour, not double-escaping within one call.
func TestEscape_TwiceOnlyReescapesIntroducedEntities(t *testing.T) {
	x := `<a href="x">Tom & Jerry's</a>`
	once := Escape(x)
	twice := Escape(once)

	assert.Equal(t, "&lt;a href=&quot;x&quot;&gt;Tom &amp; Jerry&#39;s&lt;/a&gt;", once)
	assert.Equal(t, "&amp;lt;a href=&amp;quot;x&amp;quot;&amp;gt;Tom &amp;amp; Jerry&amp;#39;s&amp;lt;/a&amp;gt;", twice)
	assert.NotContains(t, once, "&amp;lt;")
}

type stringer struct{}

func (stringer) String() string { return "<b>" }

func TestEscapeValue(t *testing.T) {
	assert.Equal(t, "", EscapeValue(nil))
	assert.Equal(t, "&lt;b&gt;", EscapeValue("<b>"))
	assert.Equal(t, "42", EscapeValue(42))
	assert.Equal(t, "&lt;b&gt;", EscapeValue(stringer{}))
}
