package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/nestegg"
)

// analystInstruction is the system instruction of the grounded model.
const analystInstruction = `You are a professional equity analyst covering the Taiwan and US stock markets.
Use Google Search to ground every figure on the latest market data.
Answer with JSON only, no prose.`

// analysisSchema describes one analysis to the model. Keys must match
// nestegg.StockAnalysis.
const analysisSchema = `{
  "symbol": "the stock symbol as requested",
  "name": "company name",
  "marketCap": "market capitalization, human readable (e.g. \"25.3T TWD\")",
  "high52Week": number,
  "low52Week": number,
  "currentPrice": number,
  "suggestedBuyPrice": number,
  "suggestedSellPrice": number,
  "recommendation": "BUY" | "SELL" | "HOLD",
  "analysis": "a short fundamental and technical analysis",
  "projectedYield": "expected yearly yield range (e.g. \"5% - 8%\")",
  "exampleScenario": "what happens to an investment of 100,000 following the recommendation"
}`

// Analyst implements nestegg.Analyzer with a generative model.
type Analyst struct {
	gen Generator
}

// NewAnalyst returns an Analyst answering with 'gen', that should be grounded.
func NewAnalyst(gen Generator) *Analyst { return &Analyst{gen: gen} }

// NewGeminiAnalyst returns an Analyst using a Gemini model grounded on Google Search.
func NewGeminiAnalyst(ctx context.Context, apiKey, model string) (*Analyst, error) {
	client, err := NewClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return NewAnalyst(NewModel(client, model, analystInstruction, true)), nil
}

// Analyze returns one analysis per symbol in a single request.
func (a *Analyst) Analyze(ctx context.Context, symbols []string) ([]nestegg.StockAnalysis, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	answer, err := a.gen.Generate(ctx, analyzePrompt(symbols))
	if err != nil {
		return nil, err
	}
	analyses, err := decodeAnalyses(answer)
	if err != nil {
		return nil, err
	}
	return analyses, nil
}

// Trending returns analyses of the stocks currently trending.
func (a *Analyst) Trending(ctx context.Context) ([]nestegg.StockAnalysis, error) {
	answer, err := a.gen.Generate(ctx, trendingPrompt)
	if err != nil {
		return nil, err
	}
	return decodeAnalyses(answer)
}

func analyzePrompt(symbols []string) string {
	return fmt.Sprintf(`Analyze the following stocks: %s.

Return a JSON array with exactly one object per stock, in the same order, each object having this shape:
%s`, strings.Join(symbols, ", "), analysisSchema)
}

var trendingPrompt = `Find the 3 stocks that are trending the most today in the news and on the markets.

Return a JSON array with one object per stock, each object having this shape:
` + analysisSchema
