package nestegg

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Recommendation is the advised action on a stock.
type Recommendation string

const (
	Buy  Recommendation = "BUY"
	Sell Recommendation = "SELL"
	Hold Recommendation = "HOLD"
)

// ParseRecommendation parses a recommendation, case insensitive.
func ParseRecommendation(s string) (Recommendation, error) {
	switch r := Recommendation(strings.ToUpper(strings.TrimSpace(s))); r {
	case Buy, Sell, Hold:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown recommendation %q", ErrInvalidInput, s)
	}
}

func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	rec, err := ParseRecommendation(s)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// StockAnalysis is the last analysis fetched for a symbol.
type StockAnalysis struct {
	Symbol             string         `json:"symbol" yaml:"symbol"`
	Name               string         `json:"name" yaml:"name"`
	MarketCap          string         `json:"marketCap" yaml:"marketCap"`
	High52Week         float64        `json:"high52Week" yaml:"high52Week"`
	Low52Week          float64        `json:"low52Week" yaml:"low52Week"`
	CurrentPrice       float64        `json:"currentPrice" yaml:"currentPrice"`
	SuggestedBuyPrice  float64        `json:"suggestedBuyPrice" yaml:"suggestedBuyPrice"`
	SuggestedSellPrice float64        `json:"suggestedSellPrice" yaml:"suggestedSellPrice"`
	Recommendation     Recommendation `json:"recommendation" yaml:"recommendation"`
	Analysis           string         `json:"analysis" yaml:"analysis"`
	ProjectedYield     string         `json:"projectedYield" yaml:"projectedYield"`
	ExampleScenario    string         `json:"exampleScenario" yaml:"exampleScenario"`
}

// Validate checks that the analysis can be stored.
func (a StockAnalysis) Validate() error {
	var errs []error
	if NormalizeSymbol(a.Symbol) == "" {
		errs = append(errs, fmt.Errorf("%w: analysis has no symbol", ErrInvalidInput))
	}
	switch a.Recommendation {
	case Buy, Sell, Hold:
	default:
		errs = append(errs, fmt.Errorf("%w: recommendation %q of %s is not BUY, SELL or HOLD", ErrInvalidInput, a.Recommendation, a.Symbol))
	}
	prices := []struct {
		name  string
		value float64
	}{
		{"current price", a.CurrentPrice},
		{"52 week high", a.High52Week},
		{"52 week low", a.Low52Week},
		{"suggested buy price", a.SuggestedBuyPrice},
		{"suggested sell price", a.SuggestedSellPrice},
	}
	for _, p := range prices {
		if p.value < 0 {
			errs = append(errs, fmt.Errorf("%w: %s of %s is negative", ErrInvalidInput, p.name, a.Symbol))
		}
	}
	return errors.Join(errs...)
}
