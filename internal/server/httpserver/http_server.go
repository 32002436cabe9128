package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
	"git.home.luguber.info/inful/siteshim/internal/logfields"
	"git.home.luguber.info/inful/siteshim/internal/metrics"
	"git.home.luguber.info/inful/siteshim/internal/server/handlers"
	smw "git.home.luguber.info/inful/siteshim/internal/server/middleware"
)

const (
	defaultSiteDir    = "./public"
	defaultAddr       = ":8080"
	readHeaderTimeout = 10 * time.Second
)

// Server serves the static site together with the OAuth, inquiry, health and
// metrics endpoints.
type Server struct {
	opts         Options
	errorAdapter *errors.HTTPErrorAdapter
	handler      http.Handler

	mu  sync.Mutex
	srv *http.Server
	ln  net.Listener
}

// New constructs a new HTTP server wiring instance.
func New(opts Options) *Server {
	if opts.SiteDir == "" {
		opts.SiteDir = defaultSiteDir
	}
	if opts.Addr == "" {
		opts.Addr = defaultAddr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Recorder = metrics.OrNoop(opts.Recorder)

	s := &Server{
		opts:         opts,
		errorAdapter: errors.NewHTTPErrorAdapter(opts.Logger),
	}
	s.handler = smw.Chain(opts.Logger, s.errorAdapter)(s.routes())
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	monitoring := handlers.NewMonitoringHandlers(time.Now(), s.opts.SiteDir)

	mux.HandleFunc("/health", monitoring.HandleHealthCheck)
	mux.Handle("/api/auth", handlers.NewOAuthHandler(s.opts.OAuth, nil, s.opts.Recorder, s.opts.Logger))
	if s.opts.Inquiry != nil {
		mux.Handle("/api/inquiry", s.opts.Inquiry)
	}
	if s.opts.Registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	mux.Handle("/", http.FileServer(http.Dir(s.opts.SiteDir)))
	return mux
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Start binds the listen address and serves in the background. Binding
// happens before Start returns so address conflicts surface immediately.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return errors.InternalError("server already started").Build()
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, fmt.Sprintf("cannot listen on %s", s.opts.Addr)).Build()
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.opts.Logger.Error("HTTP server error", logfields.Error(err))
		}
	}(s.srv)

	s.opts.Logger.Info("HTTP server started",
		slog.String("addr", ln.Addr().String()),
		logfields.Path(s.opts.SiteDir))
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.opts.Addr
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.ln = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.opts.Logger.Info("HTTP server stopped")
	return nil
}
