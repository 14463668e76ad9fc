package nestegg

import (
	"slices"
	"testing"
)

func TestParseSymbols(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{}},
		{" ,, \n", []string{}},
		{"2330", []string{"2330"}},
		{"2330,0050", []string{"2330", "0050"}},
		{"aapl msft\tgoog\nnvda", []string{"AAPL", "MSFT", "GOOG", "NVDA"}},
		{"2330 , 2330,2330", []string{"2330"}},
		{"304", []string{"3045"}},
		{"304,3045", []string{"3045"}},
		{"2330，2317", []string{"2330", "2317"}},
	}
	for _, tt := range tests {
		if got := ParseSymbols(tt.raw); !slices.Equal(got, tt.want) {
			t.Errorf("ParseSymbols(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct{ in, want string }{
		{" tsla ", "TSLA"},
		{"304", "3045"},
		{"  ", ""},
		{"brk.b", "BRK.B"},
	}
	for _, tt := range tests {
		if got := NormalizeSymbol(tt.in); got != tt.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
