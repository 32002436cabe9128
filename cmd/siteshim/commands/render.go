package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/natefinch/atomic"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
	"git.home.luguber.info/inful/siteshim/internal/logfields"
	"git.home.luguber.info/inful/siteshim/internal/site"
	"git.home.luguber.info/inful/siteshim/internal/watch"
)

// RenderCmd hydrates a shell page the way the browser shim would and writes
// the resulting HTML.
type RenderCmd struct {
	Page     string `short:"p" required:"" help:"Shell page to hydrate (e.g. public/index.html)"`
	Route    string `short:"r" help:"Page path used for route detection (defaults to /<file name>)"`
	Out      string `short:"o" help:"Output file (defaults to stdout)"`
	Watch    string `short:"w" help:"Re-render whenever files under this directory change"`
	BasePath string `name:"base-path" help:"Override the deployment base path"`

	stdout io.Writer
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if r.BasePath != "" {
		cfg.Site.BasePath = r.BasePath
	}
	s, err := site.New(cfg, nil, g.Logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := r.renderOnce(ctx, s, g.Logger); err != nil {
		return err
	}
	if r.Watch == "" {
		return nil
	}

	w, err := watch.New(r.Watch, func(ctx context.Context) {
		if err := r.renderOnce(ctx, s, g.Logger); err != nil {
			g.Logger.ErrorContext(ctx, "Re-render failed", logfields.Error(err))
		}
	}, watch.WithLogger(g.Logger))
	if err != nil {
		return err
	}
	w.Run(ctx)
	return nil
}

func (r *RenderCmd) renderOnce(ctx context.Context, s *site.Site, logger *slog.Logger) error {
	var buf bytes.Buffer
	report, err := s.RenderFile(ctx, r.Page, r.Route, &buf)
	if err != nil {
		return err
	}
	if err := r.write(buf.Bytes()); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Page rendered",
		logfields.Page(r.Page),
		slog.String("route", string(report.Route)),
		slog.String("out", r.outName()))
	return nil
}

func (r *RenderCmd) write(data []byte) error {
	if r.Out == "" {
		out := r.stdout
		if out == nil {
			out = os.Stdout
		}
		_, err := out.Write(data)
		return err
	}
	// Readers of r.Out never see a partially written page.
	if err := atomic.WriteFile(r.Out, bytes.NewReader(data)); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write rendered page").
			WithContext("out", r.Out).
			Build()
	}
	return nil
}

func (r *RenderCmd) outName() string {
	if r.Out == "" {
		return "stdout"
	}
	return r.Out
}
