package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/nestegg/advisor"
	"github.com/etnz/nestegg/renderer"
	"github.com/google/subcommands"
)

type analyzeCmd struct {
	all bool
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "analyze the pending symbols with Gemini" }
func (*analyzeCmd) Usage() string {
	return `nest analyze [-all]

  Asks Gemini, grounded on Google Search, to analyze the symbols without
  analysis. With -all, the whole watch-list is analyzed again.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "analyze the whole watch-list")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, cfg, closer, ok := openPortfolio(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	key, err := cfg.credential()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	analyst, err := advisor.NewGeminiAnalyst(ctx, key, cfg.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	requested, err := p.Refresh(ctx, analyst, c.all)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(requested) == 0 {
		fmt.Println("Nothing to analyze.")
		return subcommands.ExitSuccess
	}
	fmt.Printf("✅ Analyzed %s.\n\n", strings.Join(requested, ", "))
	printMarkdown(renderer.RenderWatchlist(renderer.NewWatchlist(p)))
	return subcommands.ExitSuccess
}

type trendingCmd struct{}

func (*trendingCmd) Name() string     { return "trending" }
func (*trendingCmd) Synopsis() string { return "analyze the stocks trending today" }
func (*trendingCmd) Usage() string {
	return `nest trending

  Asks Gemini for the stocks trending today. The watch-list is not changed,
  use 'nest add' to watch them.
`
}

func (c *trendingCmd) SetFlags(f *flag.FlagSet) {}

func (c *trendingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	cfg.Logger()
	key, err := cfg.credential()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	analyst, err := advisor.NewGeminiAnalyst(ctx, key, cfg.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	analyses, err := analyst.Trending(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderAnalyses("Trending", analyses))
	return subcommands.ExitSuccess
}

type adviseCmd struct{}

func (*adviseCmd) Name() string     { return "advise" }
func (*adviseCmd) Synopsis() string { return "get retirement advice from Gemini" }
func (*adviseCmd) Usage() string {
	return `nest advise

  Sends the plan, its projection and the watch-list to Gemini and displays
  its advice.
`
}

func (c *adviseCmd) SetFlags(f *flag.FlagSet) {}

func (c *adviseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, cfg, closer, ok := openPortfolio(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	plan := p.Plan()
	proj, computable, err := plan.Project(now().Year())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing projection: %v\n", err)
		return subcommands.ExitFailure
	}
	if !computable {
		fmt.Fprintln(os.Stderr, "Error: the retirement age must be greater than the current age, see 'nest plan'.")
		return subcommands.ExitFailure
	}

	key, err := cfg.credential()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	adviser, err := advisor.NewGeminiAdviser(ctx, key, cfg.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	advice, err := adviser.Advise(ctx, plan, proj, p.Watchlist())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(advice)
	return subcommands.ExitSuccess
}
