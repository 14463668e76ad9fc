package renderer

import (
	"context"
	"strings"
	"testing"

	"github.com/etnz/nestegg"
	"github.com/etnz/nestegg/store"
)

func TestTemplatesParse(t *testing.T) {
	// a rendering error is reported inside the output
	outputs := map[string]string{
		"watchlist":  RenderWatchlist(&Watchlist{}),
		"projection": RenderProjection(&Projection{Computable: false}),
		"analyses":   RenderAnalyses("Trending", nil),
	}
	for name, out := range outputs {
		if strings.Contains(out, "error ") {
			t.Errorf("%s: %s", name, out)
		}
	}
}

func TestWatchlistUnwatchedOrder(t *testing.T) {
	ctx := context.Background()
	p := nestegg.Open(ctx, store.NewMemory())
	if _, err := p.AddSymbols(ctx, "2330"); err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"9999", "1101", "5880", "2317"} {
		if err := p.SetQuantity(ctx, s, nestegg.Q(1)); err != nil {
			t.Fatal(err)
		}
	}

	want := "1101,2317,5880,9999"
	for i := 0; i < 10; i++ {
		if got := strings.Join(NewWatchlist(p).Unwatched, ","); got != want {
			t.Fatalf("Unwatched = %s, want %s", got, want)
		}
	}
}

func TestRenderWatchlist(t *testing.T) {
	ctx := context.Background()
	p := nestegg.Open(ctx, store.NewMemory())
	if _, err := p.AddSymbols(ctx, "2330 0050"); err != nil {
		t.Fatal(err)
	}
	if err := p.SetQuantity(ctx, "2330", nestegg.Q(100)); err != nil {
		t.Fatal(err)
	}
	if err := p.SetQuantity(ctx, "2317", nestegg.Q(5)); err != nil {
		t.Fatal(err)
	}
	err := p.ReplaceAnalyses(ctx, []nestegg.StockAnalysis{{
		Symbol:             "2330",
		Name:               "TSMC",
		CurrentPrice:       1000,
		SuggestedBuyPrice:  950,
		SuggestedSellPrice: 1200,
		Recommendation:     nestegg.Buy,
	}})
	if err != nil {
		t.Fatal(err)
	}

	w := NewWatchlist(p)
	if len(w.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(w.Rows))
	}
	if !w.Rows[1].Pending {
		t.Errorf("Rows[1].Pending = false, want true")
	}
	if want := nestegg.M(100000, "TWD"); !w.Rows[0].Value.Equal(want) {
		t.Errorf("Rows[0].Value = %v, want %v", w.Rows[0].Value, want)
	}

	got := RenderWatchlist(w)
	for _, want := range []string{"# Watch-list", "| 2330 ", "TSMC", "1000.00", "BUY", "*pending*", "0050", "Run `nest analyze`", "Held but not watched: 2317"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderWatchlist() does not contain %q:\n%s", want, got)
		}
	}
}

func TestRenderProjection(t *testing.T) {
	plan := nestegg.DefaultPlan()
	proj, ok, err := plan.Project(2025)
	if err != nil {
		t.Fatal(err)
	}
	got := RenderProjection(&Projection{Year: 2025, Plan: plan, Projection: proj, Computable: ok, Step: 5})
	for _, want := range []string{"# Retirement Projection (2025)", "2060", "37,128,894", "123,763", "reachable", "| 2030 "} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderProjection() does not contain %q:\n%s", want, got)
		}
	}

	plan.TargetMonthlyPension = 1000000
	proj, ok, _ = plan.Project(2025)
	got = RenderProjection(&Projection{Year: 2025, Plan: plan, Projection: proj, Computable: ok})
	if !strings.Contains(got, "shortfall") {
		t.Errorf("RenderProjection() does not report the shortfall:\n%s", got)
	}

	plan.RetirementAge = plan.CurrentAge
	got = RenderProjection(&Projection{Year: 2025, Plan: plan, Computable: false})
	if !strings.Contains(got, "must be greater") {
		t.Errorf("RenderProjection() does not explain why it is not computable:\n%s", got)
	}
}

func TestRenderAnalyses(t *testing.T) {
	got := RenderAnalyses("Trending", []nestegg.StockAnalysis{{
		Symbol:          "NVDA",
		Name:            "NVIDIA",
		CurrentPrice:    180.5,
		Recommendation:  nestegg.Hold,
		Analysis:        "Strong demand for accelerators.",
		ExampleScenario: "100,000 invested today",
	}})
	for _, want := range []string{"# Trending", "## NVDA NVIDIA: HOLD", "180.50", "Strong demand", "> 100,000 invested today"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderAnalyses() does not contain %q:\n%s", want, got)
		}
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999.4, "999"},
		{1234567.89, "1,234,568"},
		{-15000, "-15,000"},
	}
	for _, tt := range tests {
		if got := amount(tt.in); got != tt.want {
			t.Errorf("amount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
