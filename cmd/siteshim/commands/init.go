package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/siteshim/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`

	stdout io.Writer
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	out := i.stdout
	if out == nil {
		out = os.Stdout
	}
	return RunInit(out, root.Config, i.Force)
}

// RunInit writes an example configuration to configPath.
func RunInit(out io.Writer, configPath string, force bool) error {
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
