// Package commands implements the siteshim CLI subcommands.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/siteshim/internal/config"
)

// Global carries state shared by subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"siteshim.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render  RenderCmd  `cmd:"" help:"Hydrate a shell page with content and write the result"`
	Serve   ServeCmd   `cmd:"" help:"Serve the site with the OAuth, inquiry, health and metrics endpoints"`
	Inquiry InquiryCmd `cmd:"" help:"Print the WhatsApp inquiry link for a product"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`

	stderr io.Writer
}

// AfterApply runs after flag parsing; sets up a provisional logger until the
// configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(c.errWriter(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// LoadConfig reads the configuration (a missing file yields defaults) and
// replaces the provisional logger with the configured one.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config, true)
	if err != nil {
		return nil, err
	}
	g.Logger = config.NewLogger(cfg.Logging, c.errWriter(), c.Verbose)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

func (c *CLI) errWriter() io.Writer {
	if c.stderr != nil {
		return c.stderr
	}
	return os.Stderr
}
