package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type addCmd struct{}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add symbols to the watch-list" }
func (*addCmd) Usage() string {
	return `nest add <symbols...>

  Adds symbols to the watch-list. Symbols can be separated by commas,
  full-width commas or spaces. Known typos are corrected.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required.")
		return subcommands.ExitUsageError
	}
	p, _, closer, ok := openPortfolio(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	added, err := p.AddSymbols(ctx, strings.Join(f.Args(), " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if len(added) == 0 {
		fmt.Println("All symbols are already watched.")
		return subcommands.ExitSuccess
	}
	fmt.Printf("✅ Added %s. Run `nest analyze` to analyze them.\n", strings.Join(added, ", "))
	return subcommands.ExitSuccess
}

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove a symbol from the watch-list" }
func (*removeCmd) Usage() string {
	return `nest remove <symbol>

  Removes a symbol from the watch-list and forgets its analysis.
  The quantity held is kept.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {}

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one symbol is required.")
		return subcommands.ExitUsageError
	}
	p, _, closer, ok := openPortfolio(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	if err := p.RemoveSymbol(ctx, f.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	fmt.Printf("✅ Removed %s.\n", f.Arg(0))
	return subcommands.ExitSuccess
}
