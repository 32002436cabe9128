package relay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettings(t *testing.T) {
	assert.Equal(t, "2348012345678", NewSettings("", "+234 801 234 5678", "").Number)
	assert.Equal(t, "15551234567", NewSettings("+1 (555) 123-4567", "+234 801", "").Number)
	assert.Equal(t, "449999", NewSettings("", "n/a", "44 9999").Number)
	assert.Equal(t, FallbackNumber, NewSettings("", "", "").Number)
}

func TestEncodeURIComponent(t *testing.T) {
	tests := map[string]string{
		"Inquiry about Solar Plant": "Inquiry%20about%20Solar%20Plant",
		"a+b&c=d/e?f#g":             "a%2Bb%26c%3Dd%2Fe%3Ff%23g",
		"keep-_.!~*'()":             "keep-_.!~*'()",
		"*Name:* Ada\n":             "*Name%3A*%20Ada%0A",
		"🔔":                         "%F0%9F%94%94",
	}
	for in, want := range tests {
		assert.Equal(t, want, EncodeURIComponent(in), in)
	}
}

func TestInquiryLink(t *testing.T) {
	s := Settings{Number: "2347035459321"}
	assert.Equal(t, "https://wa.me/2347035459321?text=Inquiry%20about%20Ignite%20Home", s.InquiryLink(" Ignite Home "))
	assert.True(t, strings.HasPrefix(Settings{}.Link("x"), "https://wa.me/"+FallbackNumber+"?"))
}

func TestFieldValidate(t *testing.T) {
	form := ContactForm()
	byName := map[string]Field{}
	for _, f := range form {
		byName[f.Name] = f
	}
	tests := []struct {
		field, value, want string
	}{
		{"name", "", "Full Name is required"},
		{"name", "   ", "Full Name is required"},
		{"name", "A", "Full Name must be at least 2 characters"},
		{"name", strings.Repeat("a", 101), "Full Name must not exceed 100 characters"},
		{"name", "Ada", ""},
		{"email", "ada@example", "Please enter a valid email address"},
		{"email", "ada@example.com", ""},
		{"phone", "", ""},
		{"phone", "12-34", "Please enter a valid phone number (minimum 7 digits)"},
		{"phone", "(+)-(+)-(+)", "Please enter a valid phone number (minimum 7 digits)"},
		{"phone", "+234 (703) 545-9321", ""},
		{"phone", "0803abc4567", "Please enter a valid phone number (minimum 7 digits)"},
		{"message", "short", "Message must be at least 10 characters"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, byName[tt.field].Validate(tt.value), "%s=%q", tt.field, tt.value)
	}
}

func TestDisplayLabel_FallsBackToName(t *testing.T) {
	assert.Equal(t, "Preferred Contact", Field{Name: "preferred_contact"}.DisplayLabel())
	assert.Equal(t, "Email", Field{Name: "x", Label: " Email * "}.DisplayLabel())
}

func TestMessage(t *testing.T) {
	values := url.Values{
		"message": {strings.Repeat("x", 250)},
		"name":    {" Ada "},
		"email":   {"ada@example.com"},
		"unknown": {"ignored"},
	}
	at := time.Date(2025, 3, 1, 14, 5, 0, 0, time.UTC)
	got := Message("", ContactForm(), values, at)

	want := "🔔 *" + DefaultTitle + "*\n\n" +
		"*Full Name:* Ada\n" +
		"*Email Address:* ada@example.com\n" +
		"*Message:* " + strings.Repeat("x", 200) + "\n" +
		"\n_Submitted: 01 Mar 2025, 14:05 UTC_"
	assert.Equal(t, want, got)
}

func TestTruncate_RuneSafe(t *testing.T) {
	assert.Equal(t, "héé", truncate("héééé", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
}

func TestHandler_Redirects(t *testing.T) {
	at := time.Date(2025, 3, 1, 14, 5, 0, 0, time.UTC)
	h := NewHandler(StaticSettings(Settings{Number: "15550001111"}), WithClock(func() time.Time { return at }))

	form := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Tell me about solar plants"}}
	req := httptest.NewRequest(http.MethodPost, "/api/inquiry", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "wa.me", loc.Host)
	assert.Equal(t, "/15550001111", loc.Path)
	assert.Contains(t, loc.Query().Get("text"), "*Full Name:* Ada")
}

func TestHandler_RejectsInvalid(t *testing.T) {
	h := NewHandler(nil)
	form := url.Values{"name": {""}, "email": {"nope"}}
	req := httptest.NewRequest(http.MethodPost, "/api/inquiry", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Error   string `json:"error"`
		Details struct {
			Fields map[string]string `json:"fields"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid form submission", body.Error)
	assert.Equal(t, "Full Name is required", body.Details.Fields["name"])
	assert.Equal(t, "Please enter a valid email address", body.Details.Fields["email"])
	assert.Equal(t, "Message is required", body.Details.Fields["message"])
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inquiry", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}
