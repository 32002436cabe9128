package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
	"git.home.luguber.info/inful/siteshim/internal/logfields"
	"git.home.luguber.info/inful/siteshim/internal/metrics"
	"git.home.luguber.info/inful/siteshim/internal/paths"
	"git.home.luguber.info/inful/siteshim/internal/retry"
)

const (
	kindJSON = "json"
	kindText = "text"

	// DefaultTimeout bounds a single fetch attempt.
	DefaultTimeout = 10 * time.Second

	maxContentBytes = 1 << 20
)

// Fetcher retrieves content files. Failures are reported as ok == false and
// are never returned to the caller; callers treat them as "use the fallback".
type Fetcher interface {
	FetchJSON(ctx context.Context, path string, dst any) bool
	FetchText(ctx context.Context, path string) (string, bool)
}

// HTTPFetcher fetches content from an HTTP origin after resolving each path
// against the deployment base. It is immutable; WithResolver returns a copy.
type HTTPFetcher struct {
	origin   *url.URL
	resolver paths.Resolver
	client   *http.Client
	policy   retry.Policy
	recorder metrics.Recorder
	logger   *slog.Logger
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithTimeout sets the per-attempt timeout of the default client.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client = &http.Client{Timeout: d}
		}
	}
}

// WithRetryPolicy retries transport errors and 5xx responses.
func WithRetryPolicy(p retry.Policy) FetcherOption {
	return func(f *HTTPFetcher) { f.policy = p }
}

// WithFetchRecorder attaches a metrics recorder.
func WithFetchRecorder(r metrics.Recorder) FetcherOption {
	return func(f *HTTPFetcher) { f.recorder = metrics.OrNoop(r) }
}

// WithFetchLogger sets the logger used for failed fetches.
func WithFetchLogger(l *slog.Logger) FetcherOption {
	return func(f *HTTPFetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewHTTPFetcher returns a fetcher for the given origin ("https://example.com").
func NewHTTPFetcher(origin string, opts ...FetcherOption) (*HTTPFetcher, error) {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.ConfigError("content origin must be an absolute http(s) URL").
			WithContext("origin", origin).
			Build()
	}
	f := &HTTPFetcher{
		origin:   u,
		client:   &http.Client{Timeout: DefaultTimeout},
		policy:   retry.NoRetry(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// WithResolver returns a copy of f that resolves paths against r.
func (f *HTTPFetcher) WithResolver(r paths.Resolver) *HTTPFetcher {
	cp := *f
	cp.resolver = r
	return &cp
}

// FetchJSON GETs path and decodes the body into dst.
func (f *HTTPFetcher) FetchJSON(ctx context.Context, path string, dst any) bool {
	body, ok := f.fetch(ctx, kindJSON, path)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		f.fail(ctx, kindJSON, path, errors.WrapError(err, errors.CategoryContent, "malformed JSON").Warning().Build())
		return false
	}
	return true
}

// FetchText GETs path and returns the body as text.
func (f *HTTPFetcher) FetchText(ctx context.Context, path string) (string, bool) {
	body, ok := f.fetch(ctx, kindText, path)
	if !ok {
		return "", false
	}
	return string(body), true
}

func (f *HTTPFetcher) fetch(ctx context.Context, kind, path string) ([]byte, bool) {
	resolved := f.resolver.Resolve(path)
	target, err := f.origin.Parse(resolved)
	if err != nil {
		f.fail(ctx, kind, path, errors.WrapError(err, errors.CategoryContent, "invalid content path").Warning().Build())
		return nil, false
	}

	start := time.Now()
	var body []byte
	err = f.policy.Do(ctx, func(int) (bool, error) {
		b, transient, getErr := f.get(ctx, target.String())
		if getErr == nil {
			body = b
		}
		return transient, getErr
	})
	f.recorder.ObserveFetchDuration(kind, time.Since(start))
	if err != nil {
		f.fail(ctx, kind, path, err)
		return nil, false
	}
	f.recorder.IncFetchResult(kind, metrics.ResultSuccess)
	return body, true
}

// get performs one attempt; transient is true for failures worth retrying.
func (f *HTTPFetcher) get(ctx context.Context, target string) (body []byte, transient bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, errors.WrapError(err, errors.CategoryContent, "cannot build request").Build()
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, errors.WrapError(err, errors.CategoryNetwork, "content request failed").Retryable().Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxContentBytes))
		b := errors.NewError(errors.CategoryContent, "unexpected status").
			Warning().
			WithContext("status", resp.StatusCode)
		if resp.StatusCode == http.StatusNotFound {
			b = errors.NewError(errors.CategoryNotFound, "content not found").Warning()
		}
		return nil, resp.StatusCode >= 500, b.Build()
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxContentBytes+1))
	if err != nil {
		return nil, true, errors.WrapError(err, errors.CategoryNetwork, "reading content body failed").Retryable().Build()
	}
	if len(body) > maxContentBytes {
		return nil, false, errTooLarge()
	}
	return body, false, nil
}

func errTooLarge() error {
	return errors.ContentError("content too large").WithContext("limit_bytes", maxContentBytes).Build()
}

func (f *HTTPFetcher) fail(ctx context.Context, kind, path string, err error) {
	f.recorder.IncFetchResult(kind, metrics.ResultFailed)
	f.logger.WarnContext(ctx, "Content fetch failed; falling back",
		logfields.Path(path),
		slog.String("kind", kind),
		logfields.Error(err))
}

// FSFetcher reads content from a file tree (the built site directory), for
// offline rendering and tests. Paths are resolved, then the base is stripped
// so "/site/_data/x.json" maps to "_data/x.json" in the tree.
type FSFetcher struct {
	fsys     fs.FS
	resolver paths.Resolver
	recorder metrics.Recorder
	logger   *slog.Logger
}

// FSOption configures an FSFetcher.
type FSOption func(*FSFetcher)

// WithFSRecorder attaches a metrics recorder.
func WithFSRecorder(r metrics.Recorder) FSOption {
	return func(f *FSFetcher) { f.recorder = metrics.OrNoop(r) }
}

// WithFSLogger sets the logger used for failed reads.
func WithFSLogger(l *slog.Logger) FSOption {
	return func(f *FSFetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFSFetcher returns a fetcher reading from fsys.
func NewFSFetcher(fsys fs.FS, resolver paths.Resolver, opts ...FSOption) *FSFetcher {
	f := &FSFetcher{fsys: fsys, resolver: resolver, recorder: metrics.NoopRecorder{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchJSON reads and decodes a JSON file.
func (f *FSFetcher) FetchJSON(ctx context.Context, path string, dst any) bool {
	data, ok := f.read(ctx, kindJSON, path)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		f.fail(ctx, kindJSON, path, errors.WrapError(err, errors.CategoryContent, "malformed JSON").Warning().Build())
		return false
	}
	return true
}

// FetchText reads a text file.
func (f *FSFetcher) FetchText(ctx context.Context, path string) (string, bool) {
	data, ok := f.read(ctx, kindText, path)
	return string(data), ok
}

func (f *FSFetcher) read(ctx context.Context, kind, path string) ([]byte, bool) {
	start := time.Now()
	defer func() { f.recorder.ObserveFetchDuration(kind, time.Since(start)) }()

	resolved := f.resolver.Resolve(path)
	if paths.IsAbsolute(resolved) {
		f.fail(ctx, kind, path, errors.ContentError("absolute content URL cannot be read from a directory").Build())
		return nil, false
	}
	name := strings.TrimPrefix(f.resolver.StripBase(resolved), "/")
	if !fs.ValidPath(name) {
		f.fail(ctx, kind, path, errors.ContentError("invalid content path").Build())
		return nil, false
	}
	file, err := f.fsys.Open(name)
	if err != nil {
		f.fail(ctx, kind, path, errors.WrapError(err, errors.CategoryNotFound, "content read failed").Warning().Build())
		return nil, false
	}
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(io.LimitReader(file, maxContentBytes+1))
	if err != nil {
		f.fail(ctx, kind, path, errors.WrapError(err, errors.CategoryFileSystem, "content read failed").Build())
		return nil, false
	}
	if len(data) > maxContentBytes {
		f.fail(ctx, kind, path, errTooLarge())
		return nil, false
	}
	f.recorder.IncFetchResult(kind, metrics.ResultSuccess)
	return data, true
}

func (f *FSFetcher) fail(ctx context.Context, kind, path string, err error) {
	f.recorder.IncFetchResult(kind, metrics.ResultFailed)
	f.logger.WarnContext(ctx, "Content read failed; falling back",
		logfields.Path(path),
		slog.String("kind", kind),
		logfields.Error(err))
}

// String describes the fetcher for logs.
func (f *HTTPFetcher) String() string {
	return fmt.Sprintf("http(%s, base=%q)", f.origin, f.resolver.Base())
}
