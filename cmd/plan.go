package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/nestegg"
	"github.com/etnz/nestegg/renderer"
	"github.com/google/subcommands"
)

type planCmd struct {
	age           int
	retire        int
	monthly       float64
	target        float64
	rate          float64
	insurance     float64
	insuranceRate float64
	insuranceYear int
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "show or edit the retirement plan" }
func (*planCmd) Usage() string {
	return `nest plan [-age <n>] [-retire <n>] [-monthly <amount>] [-target <amount>] [-return <%>]
          [-insurance <amount>] [-insurance-rate <%>] [-insurance-year <year>]

  Shows the retirement plan. Flags change the corresponding fields, the other
  fields are kept. The current savings are the cash savings plus the market
  value, see 'nest cash'.
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.age, "age", 0, "current age")
	f.IntVar(&c.retire, "retire", 0, "retirement age")
	f.Float64Var(&c.monthly, "monthly", 0, "monthly savings")
	f.Float64Var(&c.target, "target", 0, "target monthly pension")
	f.Float64Var(&c.rate, "return", 0, "expected annual return in percent")
	f.Float64Var(&c.insurance, "insurance", 0, "insurance principal")
	f.Float64Var(&c.insuranceRate, "insurance-rate", 0, "insurance annual rate in percent")
	f.IntVar(&c.insuranceYear, "insurance-year", 0, "year the insurance was done")
}

// apply copies the flags explicitly set in 'f' into 'plan'.
func (c *planCmd) apply(f *flag.FlagSet, plan nestegg.Plan) (nestegg.Plan, bool) {
	changed := false
	f.Visit(func(fl *flag.Flag) {
		changed = true
		switch fl.Name {
		case "age":
			plan.CurrentAge = c.age
		case "retire":
			plan.RetirementAge = c.retire
		case "monthly":
			plan.MonthlySavings = c.monthly
		case "target":
			plan.TargetMonthlyPension = c.target
		case "return":
			plan.ExpectedAnnualReturn = nestegg.Percent(c.rate)
		case "insurance":
			plan.InsurancePrincipal = c.insurance
		case "insurance-rate":
			plan.InsuranceRate = nestegg.Percent(c.insuranceRate)
		case "insurance-year":
			plan.InsuranceYearDone = c.insuranceYear
		}
	})
	return plan, changed
}

func (c *planCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, _, closer, ok := openPortfolio(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	if plan, changed := c.apply(f, p.Plan()); changed {
		if err := p.SetPlan(ctx, plan); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	year := now().Year()
	plan := p.Plan()
	proj, computable, err := plan.Project(year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing projection: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderProjection(&renderer.Projection{Year: year, Plan: plan, Projection: proj, Computable: computable, Step: 10}))
	return subcommands.ExitSuccess
}

type projectCmd struct {
	year int
	step int
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "display the retirement projection" }
func (*projectCmd) Usage() string {
	return `nest project [-year <year>] [-step <n>]

  Displays the retirement projection with the yearly capital, one row every
  'step' years.
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", now().Year(), "current year")
	f.IntVar(&c.step, "step", 5, "years between two rows of the timeline")
}

func (c *projectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, _, closer, ok := openPortfolio(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer closer()

	plan := p.Plan()
	proj, computable, err := plan.Project(c.year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing projection: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderProjection(&renderer.Projection{Year: c.year, Plan: plan, Projection: proj, Computable: computable, Step: c.step}))
	return subcommands.ExitSuccess
}
