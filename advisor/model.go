package advisor

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generator produces a text answer to a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Model is a Generator backed by a Gemini model.
type Model struct {
	client *genai.Client
	Name   string
	Config *genai.GenerateContentConfig
}

// NewModel returns a Model. 'grounded' enables Google Search so that answers
// are based on current information.
func NewModel(client *genai.Client, name, instruction string, grounded bool) *Model {
	if name == "" {
		name = DefaultModel
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
	}
	if grounded {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return &Model{client: client, Name: name, Config: config}
}

func (m *Model) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.Name, genai.Text(prompt), m.Config)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", m.Name, err)
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: empty answer from %s", ErrMalformedResponse, m.Name)
	}
	return text, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
