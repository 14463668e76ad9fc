package renderer

import "github.com/etnz/nestegg"

// Analyses is the detailed view of a list of analyses.
type Analyses struct {
	Title    string
	Analyses []nestegg.StockAnalysis
}

// RenderAnalyses renders the analyses to markdown.
func RenderAnalyses(title string, analyses []nestegg.StockAnalysis) string {
	partials := map[string]string{
		"analysis": "analysis.md",
	}
	return renderTemplate("analyses", "analyses.md", partials, &Analyses{Title: title, Analyses: analyses})
}
