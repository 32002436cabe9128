package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/siteshim/internal/config"
	"git.home.luguber.info/inful/siteshim/internal/metrics"
	"git.home.luguber.info/inful/siteshim/internal/relay"
	"git.home.luguber.info/inful/siteshim/internal/server/handlers"
	"git.home.luguber.info/inful/siteshim/internal/server/httpserver"
	"git.home.luguber.info/inful/siteshim/internal/site"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd serves the static site plus /api/auth, /api/inquiry, /health and
// /metrics.
type ServeCmd struct {
	Dir  string `short:"d" help:"Site directory (overrides site.dir)"`
	Addr string `short:"a" help:"Listen address (overrides server.addr)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return s.serve(ctx, g, cfg)
}

func (s *ServeCmd) serve(ctx context.Context, g *Global, cfg *config.Config) error {
	if s.Dir != "" {
		cfg.Site.Dir = s.Dir
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}

	var (
		registry *prom.Registry
		recorder metrics.Recorder = metrics.NoopRecorder{}
	)
	if cfg.Metrics.Enabled {
		registry = metrics.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	st, err := site.New(cfg, recorder, g.Logger)
	if err != nil {
		return err
	}
	inquiry := relay.NewHandler(st.RelaySettings,
		relay.WithTitle(cfg.Relay.Title),
		relay.WithRecorder(recorder),
		relay.WithLogger(g.Logger))

	srv := httpserver.New(httpserver.Options{
		Addr:    cfg.Server.Addr,
		SiteDir: cfg.Site.Dir,
		OAuth: handlers.OAuthConfig{
			Provider:     cfg.OAuth.Provider,
			TokenURL:     cfg.OAuth.TokenURL,
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
		},
		Inquiry:  inquiry,
		Registry: registry,
		Recorder: recorder,
		Logger:   g.Logger,
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}
	if cfg.OAuth.ClientID == "" || cfg.OAuth.ClientSecret == "" {
		g.Logger.Warn("OAuth client credentials are not configured; /api/auth exchanges will fail")
	}

	<-ctx.Done()
	g.Logger.Info("Shutdown signal received, stopping server")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	return srv.Stop(stopCtx)
}
