package renderer

import (
	"github.com/etnz/nestegg"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Projection is the view of a plan and its projection.
type Projection struct {
	Year       int
	Plan       nestegg.Plan
	Projection nestegg.Projection
	Computable bool
	// Step is the number of years between two timeline rows.
	Step int
}

// Timeline renders the yearly capital as a markdown table, one row every
// Step years plus the retirement year.
func (p *Projection) Timeline() string {
	step := max(1, p.Step)
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Year", "Age", "Invested", "Insurance", "Total"})
	points := p.Projection.Timeline
	for i, pt := range points {
		if i%step != 0 && i != len(points)-1 {
			continue
		}
		t.AppendRow(table.Row{pt.Year, pt.Age, amount(pt.Invested), amount(pt.Insurance), amount(pt.Total)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return t.RenderMarkdown()
}

// RenderProjection renders the projection view to markdown.
func RenderProjection(p *Projection) string {
	partials := map[string]string{
		"projection_plan":   "projection_plan.md",
		"projection_result": "projection_result.md",
	}
	if !p.Computable {
		partials["projection_result"] = "projection_not_computable.md"
	}
	return renderTemplate("projection", "projection.md", partials, p)
}
