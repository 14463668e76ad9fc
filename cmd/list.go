package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/nestegg/renderer"
	"github.com/google/subcommands"
)

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "display the watch-list" }
func (*listCmd) Usage() string {
	return `nest list

  Displays the watched symbols with the quantity held, the last price and
  recommendation, and the savings.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, _, closer, ok := openPortfolio(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	printMarkdown(renderer.RenderWatchlist(renderer.NewWatchlist(p)))
	return subcommands.ExitSuccess
}

type pendingCmd struct{}

func (*pendingCmd) Name() string     { return "pending" }
func (*pendingCmd) Synopsis() string { return "list the symbols waiting for an analysis" }
func (*pendingCmd) Usage() string {
	return `nest pending

  Lists the watched symbols without analysis, one per line.
`
}

func (c *pendingCmd) SetFlags(f *flag.FlagSet) {}

func (c *pendingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, _, closer, ok := openPortfolio(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	for _, s := range p.PendingSymbols() {
		fmt.Println(s)
	}
	return subcommands.ExitSuccess
}
