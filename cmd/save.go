package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/nestegg"
	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"
)

type saveCmd struct{}

func (*saveCmd) Name() string     { return "save" }
func (*saveCmd) Synopsis() string { return "save the whole state again" }
func (*saveCmd) Usage() string {
	return `nest save

  Writes the plan, the watch-list, the holdings and the analyses to the
  storage. Changes are saved as they happen, 'save' reports the failures
  that were only logged then, and can copy a state to a new backend.
`
}

func (c *saveCmd) SetFlags(f *flag.FlagSet) {}

func (c *saveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, cfg, closer, ok := openPortfolio(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	if err := p.Save(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving to %s: %v\n", cfg.Store, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Saved to %s %s.\n", cfg.Store, cfg.DSN)
	return subcommands.ExitSuccess
}

// Export is the whole state of a portfolio.
type Export struct {
	Currency  string                  `json:"currency" yaml:"currency"`
	Cash      nestegg.Money           `json:"cash" yaml:"cash"`
	Plan      nestegg.Plan            `json:"financialPlan" yaml:"financialPlan"`
	Watchlist []string                `json:"watchlist" yaml:"watchlist"`
	Holdings  map[string]float64      `json:"holdings" yaml:"holdings"`
	Analyses  []nestegg.StockAnalysis `json:"analyses" yaml:"analyses"`
}

// NewExport captures the state of 'p'.
func NewExport(p *nestegg.Portfolio) *Export {
	holdings := make(map[string]float64)
	for s, q := range p.Holdings() {
		holdings[s] = q.Float64()
	}
	return &Export{
		Currency:  p.Currency(),
		Cash:      p.Cash(),
		Plan:      p.Plan(),
		Watchlist: p.Watchlist(),
		Holdings:  holdings,
		Analyses:  p.Analyses(),
	}
}

// Encode writes the export in 'format', json or yaml.
func (e *Export) Encode(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(e)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(e); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q, want json or yaml", format)
	}
}

type exportCmd struct {
	format string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "print the whole state" }
func (*exportCmd) Usage() string {
	return `nest export [-format json|yaml]

  Prints the plan, the cash savings, the watch-list, the holdings and the
  analyses.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "json", "output format: json or yaml")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.format != "json" && c.format != "yaml" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q, want json or yaml\n", c.format)
		return subcommands.ExitUsageError
	}
	p, _, closer, ok := openPortfolio(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	if err := NewExport(p).Encode(os.Stdout, c.format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
