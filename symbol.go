package nestegg

import (
	"strings"
	"unicode"
)

// symbolCorrections maps frequent typos to the symbol the user meant.
var symbolCorrections = map[string]string{
	"304": "3045",
}

// NormalizeSymbol returns the canonical form of a single symbol: trimmed,
// upper-cased and corrected. It returns "" if nothing is left.
func NormalizeSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if fixed, ok := symbolCorrections[s]; ok {
		return fixed
	}
	return s
}

// ParseSymbols splits a free form user input on commas and white spaces and
// returns the normalized symbols in input order, duplicates removed.
func ParseSymbols(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '，' || unicode.IsSpace(r)
	})
	seen := make(map[string]bool, len(fields))
	symbols := make([]string, 0, len(fields))
	for _, f := range fields {
		s := NormalizeSymbol(f)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, s)
	}
	return symbols
}
