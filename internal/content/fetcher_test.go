package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
	"git.home.luguber.info/inful/siteshim/internal/metrics"
	"git.home.luguber.info/inful/siteshim/internal/paths"
	"git.home.luguber.info/inful/siteshim/internal/retry"
)

func TestNewHTTPFetcher_RejectsRelativeOrigin(t *testing.T) {
	for _, origin := range []string{"", "/site", "ftp://example.com", "https://"} {
		_, err := NewHTTPFetcher(origin)
		require.Error(t, err, origin)
		assert.True(t, errors.HasCategory(err, errors.CategoryConfig), origin)
	}
}

func TestHTTPFetcher_ResolvesAgainstBase(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"email":"info@example.com"}`))
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(srv.URL)
	require.NoError(t, err)

	var c Contact
	ok := f.WithResolver(paths.NewResolver("/site")).FetchJSON(context.Background(), ContactPath, &c)
	require.True(t, ok)
	assert.Equal(t, "/site/_data/contact.json", gotPath)
	assert.Equal(t, "info@example.com", c.Email.String())

	// The original fetcher is unchanged.
	_, ok = f.FetchText(context.Background(), ContactPath)
	require.True(t, ok)
	assert.Equal(t, "/_data/contact.json", gotPath)
}

func TestHTTPFetcher_FailuresReportNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.json":
			http.NotFound(w, r)
		case "/broken.json":
			_, _ = w.Write([]byte(`{"email":`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(srv.URL)
	require.NoError(t, err)

	var c Contact
	assert.False(t, f.FetchJSON(context.Background(), "/missing.json", &c))
	assert.False(t, f.FetchJSON(context.Background(), "/broken.json", &c))
	_, ok := f.FetchText(context.Background(), "/boom.md")
	assert.False(t, ok)
}

func TestHTTPFetcher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("---\nname: A\n---\n"))
	}))
	defer srv.Close()

	policy := retry.NewPolicy(retry.BackoffFixed, time.Millisecond, time.Millisecond, 2)
	f, err := NewHTTPFetcher(srv.URL, WithRetryPolicy(policy))
	require.NoError(t, err)

	text, ok := f.FetchText(context.Background(), "/_data/products/a.md")
	require.True(t, ok)
	assert.Contains(t, text, "name: A")
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPFetcher_DoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	policy := retry.NewPolicy(retry.BackoffFixed, time.Millisecond, time.Millisecond, 3)
	f, err := NewHTTPFetcher(srv.URL, WithRetryPolicy(policy))
	require.NoError(t, err)

	_, ok := f.FetchText(context.Background(), "/x.md")
	assert.False(t, ok)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f, err := NewHTTPFetcher(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, ok := f.FetchText(context.Background(), "/slow.md")
	assert.False(t, ok)
}

func TestHTTPFetcher_RejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 2*maxContentBytes) + "END"))
	}))
	defer srv.Close()

	rec := &recorderStub{}
	f, err := NewHTTPFetcher(srv.URL, WithFetchRecorder(rec))
	require.NoError(t, err)

	text, ok := f.FetchText(context.Background(), "/_data/products/huge.md")
	assert.False(t, ok)
	assert.Empty(t, text)
	assert.Equal(t, 1, rec.results[metrics.ResultFailed])
}

func TestHTTPFetcher_AcceptsBodyAtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", maxContentBytes)))
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(srv.URL)
	require.NoError(t, err)

	text, ok := f.FetchText(context.Background(), "/_data/products/big.md")
	assert.True(t, ok)
	assert.Len(t, text, maxContentBytes)
}

func TestFSFetcher(t *testing.T) {
	fsys := fstest.MapFS{
		"_data/contact.json":       {Data: []byte(`{"email":"a@b.co","phone":"+234 1"}`)},
		"_data/products/solar.md":  {Data: []byte("---\nname: Solar\n---\nBody")},
		"_data/products/broken.md": {Data: []byte("")},
	}
	f := NewFSFetcher(fsys, paths.NewResolver("/site"))

	var c Contact
	require.True(t, f.FetchJSON(context.Background(), ContactPath, &c))
	assert.Equal(t, "a@b.co", c.Email.String())

	text, ok := f.FetchText(context.Background(), "/_data/products/solar.md")
	require.True(t, ok)
	assert.Contains(t, text, "Solar")

	_, ok = f.FetchText(context.Background(), "/_data/products/none.md")
	assert.False(t, ok)
	_, ok = f.FetchText(context.Background(), "https://example.com/x.md")
	assert.False(t, ok)
	_, ok = f.FetchText(context.Background(), "/../etc/passwd")
	assert.False(t, ok)
}

func TestFSFetcher_RecordsOutcomes(t *testing.T) {
	fsys := fstest.MapFS{
		"_data/products/solar.md": {Data: []byte("---\nname: Solar\n---\n")},
		"_data/homepage.json":     {Data: []byte("{not json")},
		"_data/products/huge.md":  {Data: []byte(strings.Repeat("a", maxContentBytes+1))},
	}
	rec := &recorderStub{}
	f := NewFSFetcher(fsys, paths.NewResolver("/site"), WithFSRecorder(rec))

	_, ok := f.FetchText(context.Background(), "/_data/products/solar.md")
	require.True(t, ok)
	_, ok = f.FetchText(context.Background(), "/_data/products/huge.md")
	assert.False(t, ok)
	_, ok = f.FetchText(context.Background(), "/_data/products/none.md")
	assert.False(t, ok)
	var home map[string]any
	assert.False(t, f.FetchJSON(context.Background(), HomepagePath, &home))

	assert.Equal(t, 1, rec.results[metrics.ResultSuccess])
	assert.Equal(t, 3, rec.results[metrics.ResultFailed])
}
