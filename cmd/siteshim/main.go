package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/siteshim/cmd/siteshim/commands"
	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
	"git.home.luguber.info/inful/siteshim/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	parser := kong.Parse(cli,
		kong.Name("siteshim"),
		kong.Description("Hydrate static site pages with CMS content and serve the site's form and OAuth endpoints."),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
		kong.UsageOnError(),
	)

	if err := parser.Run(global, cli); err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, global.Logger)
		fmt.Fprintln(os.Stderr, adapter.FormatError(err))
		os.Exit(adapter.Report(err))
	}
}
