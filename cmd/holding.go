package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/nestegg"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type qtyCmd struct{}

func (*qtyCmd) Name() string     { return "qty" }
func (*qtyCmd) Synopsis() string { return "set the quantity held for a symbol" }
func (*qtyCmd) Usage() string {
	return `nest qty <symbol> <quantity>

  Sets the number of shares held. The symbol does not need to be watched.
`
}

func (c *qtyCmd) SetFlags(f *flag.FlagSet) {}

func (c *qtyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: a symbol and a quantity are required.")
		return subcommands.ExitUsageError
	}
	qty, err := nestegg.ParseQuantity(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	p, _, closer, ok := openPortfolio(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	if err := p.SetQuantity(ctx, f.Arg(0), qty); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	fmt.Printf("✅ %s: %v shares.\n", nestegg.NormalizeSymbol(f.Arg(0)), qty)
	return subcommands.ExitSuccess
}

type cashCmd struct{}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "show or set the cash savings" }
func (*cashCmd) Usage() string {
	return `nest cash [amount]

  Shows the cash savings, or sets them to 'amount'. The cash savings and the
  market value of the watch-list make the current savings of the plan.
`
}

func (c *cashCmd) SetFlags(f *flag.FlagSet) {}

func (c *cashCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: at most one amount is expected.")
		return subcommands.ExitUsageError
	}
	p, _, closer, ok := openPortfolio(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	before := p.Cash()
	if f.NArg() == 1 {
		amount, err := decimal.NewFromString(f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing amount %q: %v\n", f.Arg(0), err)
			return subcommands.ExitUsageError
		}
		if err := p.SetCash(ctx, nestegg.M(amount, p.Currency())); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if change := p.Cash().Sub(before); !change.IsZero() {
		fmt.Printf("Cash savings: %v (%s)\n", p.Cash(), change.SignedString())
	} else {
		fmt.Printf("Cash savings: %v\n", p.Cash())
	}
	fmt.Printf("Market value: %v\n", p.MarketValue())
	return subcommands.ExitSuccess
}
