package advisor

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/etnz/nestegg"
)

const adviserInstruction = `You are a certified financial planner.
You give practical, prudent and personalized retirement advice in markdown.
Never promise returns.`

// Adviser writes retirement advice.
type Adviser struct {
	gen Generator
}

// NewAdviser returns an Adviser answering with 'gen'.
func NewAdviser(gen Generator) *Adviser { return &Adviser{gen: gen} }

// NewGeminiAdviser returns an Adviser using a Gemini model.
func NewGeminiAdviser(ctx context.Context, apiKey, model string) (*Adviser, error) {
	client, err := NewClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return NewAdviser(NewModel(client, model, adviserInstruction, false)), nil
}

var advicePrompt = template.Must(template.New("advice").Parse(`Here is my retirement plan:

- I am {{.Plan.CurrentAge}} and want to retire at {{.Plan.RetirementAge}}.
- My current savings (cash and stocks) are {{printf "%.0f" .Plan.CurrentSavings}}.
- I save {{printf "%.0f" .Plan.MonthlySavings}} every month, and expect a {{.Plan.ExpectedAnnualReturn}} yearly return.
- I also hold a legacy insurance of {{printf "%.0f" .Plan.InsurancePrincipal}} at {{.Plan.InsuranceRate}} since {{.Plan.InsuranceYearDone}}.
- I want a monthly pension of {{printf "%.0f" .Plan.TargetMonthlyPension}}.

The projection gives:

- total capital at retirement: {{printf "%.0f" .Projection.TotalAccumulated}}
- sustainable monthly pension (4% rule): {{printf "%.0f" .Projection.MonthlyPensionPossible}}
- goal reachable: {{if .Projection.IsGoalReachable}}yes{{else}}no, the shortfall is {{printf "%.0f" .Projection.Shortfall}}{{end}}
{{if .Holdings}}
My stocks are: {{range $i, $s := .Holdings}}{{if $i}}, {{end}}{{$s}}{{end}}.
{{end}}
What should I do to secure my retirement? Give me 3 to 5 concrete actions.`))

// Advise returns markdown advice for 'plan' and its projection. 'symbols'
// lists the watched stocks, it can be empty.
func (a *Adviser) Advise(ctx context.Context, plan nestegg.Plan, proj nestegg.Projection, symbols []string) (string, error) {
	var buf bytes.Buffer
	err := advicePrompt.Execute(&buf, struct {
		Plan       nestegg.Plan
		Projection nestegg.Projection
		Holdings   []string
	}{plan, proj, symbols})
	if err != nil {
		return "", fmt.Errorf("cannot write advice prompt: %w", err)
	}
	return a.gen.Generate(ctx, buf.String())
}
