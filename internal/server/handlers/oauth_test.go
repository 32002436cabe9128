package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "abc", req["code"])
		assert.Equal(t, "client", req["client_id"])
		assert.Equal(t, "secret", req["client_secret"])
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newOAuth(tokenURL string) *OAuthHandler {
	return NewOAuthHandler(OAuthConfig{Provider: "github", TokenURL: tokenURL, ClientID: "client", ClientSecret: "secret"}, nil, nil, nil)
}

func assertSecurityHeaders(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "frame-ancestors 'none'", h.Get("Content-Security-Policy"))
	assert.Equal(t, "no-store", h.Get("Cache-Control"))
}

func TestOAuth_MissingCode(t *testing.T) {
	rec := httptest.NewRecorder()
	newOAuth("http://127.0.0.1:0").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assertSecurityHeaders(t, rec.Header())
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No code provided", body["error"])
}

func TestOAuth_Success(t *testing.T) {
	srv := tokenServer(t, http.StatusOK, `{"access_token":"tok</script><script>alert(1)</script>","token_type":"bearer"}`)

	rec := httptest.NewRecorder()
	newOAuth(srv.URL).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth?code=abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assertSecurityHeaders(t, rec.Header())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	page := rec.Body.String()
	assert.Contains(t, page, `"authorization:" + provider + ":success:"`)
	assert.Contains(t, page, `"provider":"github"`)
	assert.Contains(t, page, `</script>`)
	assert.NotContains(t, page, "tok</script>")
	assert.Contains(t, page, "window.close()")
}

func TestOAuth_ProviderError(t *testing.T) {
	srv := tokenServer(t, http.StatusOK, `{"error":"bad_verification_code","error_description":"The code passed is incorrect or expired."}`)

	rec := httptest.NewRecorder()
	newOAuth(srv.URL).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth?code=abc", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assertSecurityHeaders(t, rec.Header())
	var body struct {
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad_verification_code", body.Details["provider_error"])
}

func TestOAuth_MalformedAndFailedResponses(t *testing.T) {
	for name, tc := range map[string]struct {
		status int
		body   string
	}{
		"not json":      {http.StatusOK, "<html>"},
		"server error":  {http.StatusInternalServerError, `{}`},
		"missing token": {http.StatusOK, `{}`},
	} {
		t.Run(name, func(t *testing.T) {
			srv := tokenServer(t, tc.status, tc.body)
			rec := httptest.NewRecorder()
			newOAuth(srv.URL).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth?code=abc", nil))
			assert.GreaterOrEqual(t, rec.Code, 500)
		})
	}

	t.Run("unparseable token URL", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newOAuth("::bad").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth?code=abc", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assertSecurityHeaders(t, rec.Header())
	})
}

func TestOAuth_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := httptest.NewRecorder()
	newOAuth(url).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth?code=abc", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
