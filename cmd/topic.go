package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/nestegg/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `nest topic [<topic>...]

Show documentation for the given topics, '*' for all of them.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}

	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)

	if len(f.Args()) == 0 {
		printMarkdown(topicIndex())
	}
	return subcommands.ExitSuccess
}

// topicIndex lists the topics with their title.
func topicIndex() string {
	all, err := docs.GetAllTopics()
	if err != nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("| topic | title |\n|---|---|\n")
	for _, t := range all {
		title, err := docs.Title(t)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s |\n", t, title)
	}
	return b.String()
}
