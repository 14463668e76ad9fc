package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/nestegg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator answers every prompt with the same answer.
type fakeGenerator struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

func TestAnalyst_Analyze(t *testing.T) {
	gen := &fakeGenerator{answer: "```json\n[{\"symbol\":\"2330\",\"name\":\"TSMC\",\"currentPrice\":1000,\"recommendation\":\"BUY\"}]\n```"}
	a := NewAnalyst(gen)

	got, err := a.Analyze(context.Background(), []string{"2330"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "TSMC", got[0].Name)
	assert.Equal(t, nestegg.Buy, got[0].Recommendation)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Analyze the following stocks: 2330.")
}

func TestAnalyst_Analyze_Nothing(t *testing.T) {
	gen := &fakeGenerator{}
	got, err := NewAnalyst(gen).Analyze(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, gen.prompts, "no request expected")
}

func TestAnalyst_Errors(t *testing.T) {
	boom := errors.New("quota exceeded")
	_, err := NewAnalyst(&fakeGenerator{err: boom}).Analyze(context.Background(), []string{"2330"})
	assert.ErrorIs(t, err, boom)

	_, err = NewAnalyst(&fakeGenerator{answer: "market is closed"}).Trending(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestAnalyst_Trending(t *testing.T) {
	gen := &fakeGenerator{answer: `{"stocks":[{"symbol":"NVDA","recommendation":"HOLD"},{"symbol":"2330","recommendation":"BUY"}]}`}
	got, err := NewAnalyst(gen).Trending(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(gen.prompts[0], "Find the 3 stocks"))
}

func TestAdviser_Advise(t *testing.T) {
	gen := &fakeGenerator{answer: "Save more."}
	plan := nestegg.DefaultPlan()
	proj, ok, err := plan.Project(2025)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := NewAdviser(gen).Advise(context.Background(), plan, proj, []string{"2330", "0050"})
	require.NoError(t, err)
	assert.Equal(t, "Save more.", got)

	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "I am 30 and want to retire at 65.")
	assert.Contains(t, prompt, "expect a 6.00% yearly return")
	assert.Contains(t, prompt, "goal reachable: yes")
	assert.Contains(t, prompt, "My stocks are: 2330, 0050.")
}

func TestAdviser_Advise_Shortfall(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	plan := nestegg.DefaultPlan()
	plan.TargetMonthlyPension = 1000000
	proj, _, err := plan.Project(2025)
	require.NoError(t, err)

	_, err = NewAdviser(gen).Advise(context.Background(), plan, proj, nil)
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[0], "no, the shortfall is")
	assert.NotContains(t, gen.prompts[0], "My stocks are")
}

func TestCredential(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	_, err := Credential("")
	assert.ErrorIs(t, err, ErrNoCredential)

	t.Setenv("GOOGLE_API_KEY", "google")
	got, err := Credential("  ")
	require.NoError(t, err)
	assert.Equal(t, "google", got)

	t.Setenv("GEMINI_API_KEY", "gemini")
	got, _ = Credential("")
	assert.Equal(t, "gemini", got)

	got, _ = Credential("explicit")
	assert.Equal(t, "explicit", got)
}

func TestNewClient_NoCredential(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoCredential)
}
