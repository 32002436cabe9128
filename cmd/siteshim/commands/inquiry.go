package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/siteshim/internal/site"
)

// InquiryCmd prints the wa.me link a product card's inquiry button points to.
type InquiryCmd struct {
	Product string `short:"p" required:"" help:"Product name"`

	stdout io.Writer
}

func (q *InquiryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	s, err := site.New(cfg, nil, g.Logger)
	if err != nil {
		return err
	}
	out := q.stdout
	if out == nil {
		out = os.Stdout
	}
	settings := s.RelaySettings(context.Background())
	_, err = fmt.Fprintln(out, settings.InquiryLink(q.Product))
	return err
}
