package advisor

import (
	"context"
	"time"

	"github.com/etnz/nestegg"
	"github.com/etnz/nestegg/docs"
	"github.com/etnz/nestegg/renderer"
	"google.golang.org/genai"
)

// NewMarketExpert returns the expert that knows the markets.
func NewMarketExpert(model string) *Expert {
	return &Expert{
		Name: "Market",
		Description: `This is an expert of the Taiwan and US stock markets,
		well aware of the latest news about companies and funds.
		Ask the Market whenever you need recent or grounding information.`,
		ModelName: modelOrDefault(model),
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: analystInstruction}}},
		},
	}
}

// NewPlanner returns the expert that reads the user's portfolio.
func NewPlanner(model string, p *nestegg.Portfolio, now func() time.Time) *Expert {
	lib := PortfolioFunctions(p, now)
	return &Expert{
		Name: "Planner",
		Description: `This is the Planner. It knows the user's watch-list, holdings,
		cash savings and retirement plan, and can compute the retirement projection.`,
		ModelName: modelOrDefault(model),
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: adviserInstruction + `
				Use the available tools to get information about the user's situation:
				  - the watch-list with holdings, prices and recommendations
				  - the retirement plan and its projection
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// PortfolioFunctions returns the functions that read 'p'.
func PortfolioFunctions(p *nestegg.Portfolio, now func() time.Time) []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Watchlist",
				Description: "Watchlist lists the watched symbols, the quantities held, the last prices and recommendations, the cash savings and the total savings.",
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown report of the watch-list.",
				},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return &genai.FunctionResponse{
					ID:       id,
					Name:     "Watchlist",
					Response: map[string]any{"output": renderer.RenderWatchlist(renderer.NewWatchlist(p))},
				}
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Projection",
				Description: "Projection returns the retirement plan and its projection at retirement.\n\n" + must(docs.GetTopic("projection")),
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown report of the plan and projection.",
				},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				year := now().Year()
				plan := p.Plan()
				proj, ok, err := plan.Project(year)
				if err != nil {
					return errorResponse(id, "Projection", err)
				}
				report := renderer.RenderProjection(&renderer.Projection{Year: year, Plan: plan, Projection: proj, Computable: ok, Step: 5})
				return &genai.FunctionResponse{
					ID:       id,
					Name:     "Projection",
					Response: map[string]any{"output": report},
				}
			},
		},
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
