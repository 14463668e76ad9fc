// Package advisor asks Gemini for stock analyses and retirement advice.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-pro"

var (
	// ErrNoCredential is returned when no API key is available.
	ErrNoCredential = errors.New("no Gemini API key: set GEMINI_API_KEY or use -api-key")

	// ErrMalformedResponse is returned when the model answer cannot be understood.
	ErrMalformedResponse = errors.New("malformed model response")
)

// Credential returns the first non empty key among 'explicit' and the
// GEMINI_API_KEY and GOOGLE_API_KEY environment variables.
func Credential(explicit string) (string, error) {
	for _, key := range []string{explicit, os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")} {
		if key = strings.TrimSpace(key); key != "" {
			return key, nil
		}
	}
	return "", ErrNoCredential
}

// NewClient creates a Gemini client. It fails with ErrNoCredential before
// any network access if 'apiKey' is empty.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoCredential
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create Gemini client: %w", err)
	}
	return client, nil
}
