package advisor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/etnz/nestegg"
	"github.com/etnz/nestegg/store"
	"google.golang.org/genai"
)

func TestPortfolioFunctions(t *testing.T) {
	ctx := context.Background()
	p := nestegg.Open(ctx, store.NewMemory())
	if _, err := p.AddSymbols(ctx, "2330"); err != nil {
		t.Fatal(err)
	}
	now := func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	lib := NewLibrary(PortfolioFunctions(p, now))

	tests := []struct {
		name string
		want string
	}{
		{"Watchlist", "2330"},
		{"Projection", "2030"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := lib(ctx, &genai.FunctionCall{ID: "1", Name: tt.name})
			out, ok := resp.Response["output"].(string)
			if !ok {
				t.Fatalf("%s() = %v, want an output", tt.name, resp.Response)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("%s() = %q, want it to contain %q", tt.name, out, tt.want)
			}
		})
	}

	resp := lib(ctx, &genai.FunctionCall{ID: "2", Name: "Unknown"})
	if _, ok := resp.Response["error"]; !ok {
		t.Errorf("Unknown() = %v, want an error", resp.Response)
	}
}

func TestFacilitatorDeclarations(t *testing.T) {
	experts := []*Expert{NewMarketExpert(""), NewPlanner("", nestegg.Open(context.Background(), store.NewMemory()), time.Now)}
	f := newFacilitator("", experts...)
	if f.ModelName != DefaultModel {
		t.Errorf("ModelName = %q, want %q", f.ModelName, DefaultModel)
	}
	decls := f.Config.Tools[0].FunctionDeclarations
	if len(decls) != 2 || decls[0].Name != "Market" || decls[1].Name != "Planner" {
		t.Errorf("declarations = %v, want Market and Planner", decls)
	}
}
