package advisor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/nestegg"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// extractJSON returns the JSON document embedded in a model answer.
//
// Models wrap JSON in a fenced code block most of the time, possibly with
// some prose around. The first fenced block tagged "json" (or untagged) wins,
// otherwise the longest JSON value found in the text is used.
func extractJSON(answer string) (string, error) {
	src := []byte(answer)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var block string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		code, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if lang := string(code.Language(src)); lang != "" && !strings.EqualFold(lang, "json") {
			return ast.WalkContinue, nil
		}
		var buf bytes.Buffer
		lines := code.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		block = buf.String()
		return ast.WalkStop, nil
	})
	if strings.TrimSpace(block) != "" {
		return block, nil
	}

	// Prose may contain brackets too, like citation markers "[1]": the
	// longest JSON value found wins.
	var best json.RawMessage
	for i := 0; i < len(answer); i++ {
		if answer[i] != '[' && answer[i] != '{' {
			continue
		}
		var value json.RawMessage
		if err := json.NewDecoder(strings.NewReader(answer[i:])).Decode(&value); err != nil {
			continue
		}
		if len(value) > len(best) {
			best = value
		}
		i += len(value) - 1
	}
	if best == nil {
		return "", fmt.Errorf("%w: no JSON in answer", ErrMalformedResponse)
	}
	return string(best), nil
}

// listPaths are the places where models tend to put the list of analyses when
// they answer with an object instead of an array.
var listPaths = []string{"$.stocks", "$.analyses", "$.results", "$.data"}

// decodeAnalyses parses the analyses contained in a model answer.
func decodeAnalyses(answer string) ([]nestegg.StockAnalysis, error) {
	raw, err := extractJSON(answer)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var items any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		for _, path := range listPaths {
			if found, err := jsonpath.Get(path, v); err == nil {
				items = found
				break
			}
		}
		if items == nil {
			// a single analysis
			if _, ok := v["symbol"]; ok {
				items = []any{v}
			}
		}
	}
	if _, ok := items.([]any); !ok {
		return nil, fmt.Errorf("%w: no list of analyses in answer", ErrMalformedResponse)
	}

	// decode again into the typed version.
	content, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	var analyses []nestegg.StockAnalysis
	if err := json.Unmarshal(content, &analyses); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for _, a := range analyses {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}
	return analyses, nil
}
