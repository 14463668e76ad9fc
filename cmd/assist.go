package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/nestegg/advisor"
	"github.com/google/subcommands"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `nest assist [prompt]

  Starts an interactive session with the AI assistant. The assistant can read
  the watch-list and the retirement plan, and search the news. 'prompt' is
  asked first. Type 'bye' to exit.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

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
	client, err := advisor.NewClient(ctx, key)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	market := advisor.NewMarketExpert(cfg.Model)
	planner := advisor.NewPlanner(cfg.Model, p, now)
	a := advisor.New(os.Stdout, os.Stdin, cfg.Model, market, planner)

	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
