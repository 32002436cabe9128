package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NoFrontmatter_ReturnsBodyUnchanged(t *testing.T) {
	inputs := []string{
		"# Title\n\nHello\n",
		"",
		"  leading blank and trailing  \n\n",
		"name: not a header\n---\n",
	}
	for _, input := range inputs {
		fields, body := Parse(input)
		assert.Empty(t, fields)
		assert.Equal(t, input, body)
	}
}

func TestParse_MissingClosingDelimiter_IsBodyOnly(t *testing.T) {
	input := "---\nname: Solar Plant\n# Title\n"
	fields, body := Parse(input)
	assert.Empty(t, fields)
	assert.Equal(t, input, body)
}

func TestParse_SimpleFields(t *testing.T) {
	input := "---\nname: Solar Plant\nimage: /images/solar.jpg\norder: 2\nactive: \"true\"\n---\n\nBody text.\n\n"
	fields, body := Parse(input)

	assert.Equal(t, map[string]string{
		"name":   "Solar Plant",
		"image":  "/images/solar.jpg",
		"order":  "2",
		"active": "true",
	}, fields)
	assert.Equal(t, "Body text.", body)
}

func TestParse_ContinuationLineJoinedWithNewline(t *testing.T) {
	input := "---\ndescription: \"Smart irrigation\nfor every farm\"\n---\n"
	fields, _ := Parse(input)
	assert.Equal(t, "Smart irrigation\nfor every farm", fields["description"])
}

func TestParse_QuotesStrippedOnce(t *testing.T) {
	input := "---\na: \"'nested'\"\nb: 'single'\nc: \"unbalanced'\n---\n"
	fields, _ := Parse(input)
	assert.Equal(t, "'nested'", fields["a"])
	assert.Equal(t, "single", fields["b"])
	assert.Equal(t, "\"unbalanced'", fields["c"])
}

func TestParse_ValueContainingColons(t *testing.T) {
	fields, _ := Parse("---\nimage: https://cdn.example.com/a.png\ntime: 10:30\n---\n")
	assert.Equal(t, "https://cdn.example.com/a.png", fields["image"])
	assert.Equal(t, "10:30", fields["time"])
}

func TestParse_EmptyValueIsEmptyString(t *testing.T) {
	fields, _ := Parse("---\nname:\nfeatured :   \n---\n")
	require.Contains(t, fields, "name")
	assert.Equal(t, "", fields["name"])
	assert.Equal(t, "", fields["featured"])
}

func TestParse_LinesBeforeFirstFieldIgnored(t *testing.T) {
	fields, _ := Parse("---\n# comment-ish\nname: X\n---\n")
	assert.Equal(t, map[string]string{"name": "X"}, fields)
}

func TestParse_BlockIndicatorDropped(t *testing.T) {
	fields, _ := Parse("---\ntagline: |\n  Building Africa's\n  smart future\nname: Umar\n---\n")
	assert.Equal(t, "Building Africa's\n  smart future", fields["tagline"])
	assert.Equal(t, "Umar", fields["name"])
}

func TestParse_CRLF(t *testing.T) {
	fields, body := Parse("---\r\nname: Ignite Home\r\n---\r\nHello\r\n")
	assert.Equal(t, "Ignite Home", fields["name"])
	assert.Equal(t, "Hello", body)
}

func TestParse_EmptyHeaderBlock(t *testing.T) {
	fields, body := Parse("---\n---\n# Title\n")
	assert.Empty(t, fields)
	assert.Equal(t, "# Title", body)
}

func TestParse_DelimiterWithTrailingSpaces(t *testing.T) {
	fields, _ := Parse("---  \nname: X\n---\t\n")
	assert.Equal(t, "X", fields["name"])
}

func TestSplit_ReportsHeaderLines(t *testing.T) {
	header, body, had := Split("---\nkey: value\n---\n# Title\n")
	require.True(t, had)
	assert.Equal(t, []string{"key: value"}, header)
	assert.Equal(t, "# Title\n", body)
}
