package nestegg

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/nestegg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tsmc(price float64) StockAnalysis {
	return StockAnalysis{Symbol: "2330", Name: "TSMC", CurrentPrice: price, Recommendation: Hold}
}

func analysis(symbol string, price float64) StockAnalysis {
	return StockAnalysis{Symbol: symbol, Name: symbol, CurrentPrice: price, Recommendation: Buy}
}

func TestAddSymbols(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	p := Open(ctx, s)

	added, err := p.AddSymbols(ctx, " 2330, 0050 aapl\t2330 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"2330", "0050", "AAPL"}, added)

	added, err = p.AddSymbols(ctx, "AAPL,msft")
	require.NoError(t, err)
	assert.Equal(t, []string{"MSFT"}, added)

	added, err = p.AddSymbols(ctx, "aapl")
	require.NoError(t, err)
	assert.Empty(t, added)

	_, err = p.AddSymbols(ctx, " , ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	// round trip through the store
	reloaded := Open(ctx, s)
	assert.Equal(t, []string{"2330", "0050", "AAPL", "MSFT"}, reloaded.Watchlist())
}

func TestAddSymbolsCorrectsTypos(t *testing.T) {
	ctx := context.Background()
	p := Open(ctx, store.NewMemory())

	added, err := p.AddSymbols(ctx, "304")
	require.NoError(t, err)
	assert.Equal(t, []string{"3045"}, added)

	added, err = p.AddSymbols(ctx, "3045 304")
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestRemoveSymbol(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	p := Open(ctx, s)

	_, err := p.AddSymbols(ctx, "2330 0050")
	require.NoError(t, err)
	require.NoError(t, p.SetQuantity(ctx, "2330", Q(100)))
	require.NoError(t, p.ReplaceAnalyses(ctx, []StockAnalysis{tsmc(1000), analysis("0050", 180)}))

	require.NoError(t, p.RemoveSymbol(ctx, "2330"))
	assert.Equal(t, []string{"0050"}, p.Watchlist())
	assert.NotContains(t, p.PendingSymbols(), "2330")
	_, ok := p.Analysis("2330")
	assert.False(t, ok)

	qty, ok := p.Quantity("2330")
	require.True(t, ok)
	assert.True(t, qty.Equal(Q(100)))

	// re-adding restores the quantity, the analysis is pending
	_, err = p.AddSymbols(ctx, "2330")
	require.NoError(t, err)
	assert.Equal(t, []string{"2330"}, p.PendingSymbols())
	qty, _ = p.Quantity("2330")
	assert.True(t, qty.Equal(Q(100)))

	// persisted
	reloaded := Open(ctx, s)
	_, ok = reloaded.Analysis("2330")
	assert.False(t, ok)

	// unknown symbols are ignored
	assert.NoError(t, p.RemoveSymbol(ctx, "NOPE"))
	assert.ErrorIs(t, p.RemoveSymbol(ctx, " "), ErrInvalidInput)
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	p := Open(ctx, s)

	err := p.SetQuantity(ctx, "2330", Q(-1))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Get(ctx, KeyHoldings)
	assert.ErrorIs(t, err, store.ErrNotFound, "a rejected quantity must not be persisted")

	assert.ErrorIs(t, p.SetQuantity(ctx, "", Q(1)), ErrInvalidInput)

	require.NoError(t, p.SetQuantity(ctx, "2330", Q(12.5)))
	raw, err := s.Get(ctx, KeyHoldings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2330": 12.5}`, raw)
}

func TestPendingSymbols(t *testing.T) {
	ctx := context.Background()
	p := Open(ctx, store.NewMemory())
	_, err := p.AddSymbols(ctx, "2330 0050 2317")
	require.NoError(t, err)

	// no analysis yet: all pending
	assert.Equal(t, []string{"2330", "0050", "2317"}, p.PendingSymbols())

	require.NoError(t, p.ReplaceAnalyses(ctx, []StockAnalysis{analysis("0050", 180), analysis("AAPL", 200)}))
	assert.Equal(t, []string{"2330", "2317"}, p.PendingSymbols())
}

func TestMarketValue(t *testing.T) {
	ctx := context.Background()
	p := Open(ctx, store.NewMemory())
	_, err := p.AddSymbols(ctx, "2330 0050 2317")
	require.NoError(t, err)
	require.NoError(t, p.SetQuantity(ctx, "2330", Q(100)))
	require.NoError(t, p.SetQuantity(ctx, "0050", Q(10)))
	require.NoError(t, p.SetQuantity(ctx, "AAPL", Q(10)))

	// no analysis: worth nothing
	assert.True(t, p.MarketValue().IsZero())

	require.NoError(t, p.ReplaceAnalyses(ctx, []StockAnalysis{
		tsmc(1000),
		analysis("0050", 180.5),
		analysis("2317", 150), // no quantity
		analysis("AAPL", 200), // not watched
	}))
	assert.True(t, p.MarketValue().Equal(M(100*1000+10*180.5, "TWD")), "got %v", p.MarketValue())
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.Put(ctx, KeyHoldings, `{"2330": 100}`))

	p := Open(ctx, s)
	assert.Equal(t, []string{"2330"}, p.Watchlist())

	raw, err := s.Get(ctx, KeyWatchlist)
	require.NoError(t, err)
	assert.JSONEq(t, `["2330"]`, raw, "the recovered watch-list is persisted")

	assert.False(t, p.Reconcile(ctx), "nothing left to repair")
}

func TestReconcileOrder(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.Put(ctx, KeyWatchlist, `[]`))
	require.NoError(t, s.Put(ctx, KeyHoldings, `{"2330": 100, "0050": 1, "2317": 0}`))

	p := Open(ctx, s)
	assert.Equal(t, []string{"0050", "2317", "2330"}, p.Watchlist())
}

func TestOpenFallsBackOnCorruptedValues(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.Put(ctx, KeyPlan, `{"currentAge":`))
	require.NoError(t, s.Put(ctx, KeyWatchlist, `["2330"]`))
	require.NoError(t, s.Put(ctx, KeyHoldings, `not json`))
	require.NoError(t, s.Put(ctx, KeyAnalyses, `[{"symbol":"2330","recommendation":"MAYBE"}]`))

	p := Open(ctx, s)
	assert.Equal(t, DefaultPlan().RetirementAge, p.Plan().RetirementAge)
	assert.Equal(t, []string{"2330"}, p.Watchlist())
	assert.Empty(t, p.Holdings())
	assert.Empty(t, p.Analyses())
	assert.Equal(t, []string{"2330"}, p.PendingSymbols())
}

func TestOpenDropsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.Put(ctx, KeyWatchlist, `["2330","0050","2317"]`))
	require.NoError(t, s.Put(ctx, KeyHoldings, `{"2330":100,"0050":-5," ":3}`))
	require.NoError(t, s.Put(ctx, KeyAnalyses, `[
		{"symbol":"2330","currentPrice":1000,"recommendation":"BUY"},
		{"symbol":"0050","currentPrice":-180,"recommendation":"HOLD"},
		{"symbol":"2317","currentPrice":150,"recommendation":""}
	]`))

	p := Open(ctx, s)
	holdings := p.Holdings()
	assert.Len(t, holdings, 1)
	assert.True(t, holdings["2330"].Equal(Q(100)))
	_, ok := p.Analysis("2330")
	assert.True(t, ok, "valid analysis is kept")
	assert.Equal(t, []string{"0050", "2317"}, p.PendingSymbols())
	assert.True(t, p.MarketValue().Equal(M(100000, "TWD")), "got %v", p.MarketValue())
}

func TestAnalysesWithoutRecommendationAreRejected(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	p := Open(ctx, s)
	_, err := p.AddSymbols(ctx, "2330, 0050")
	require.NoError(t, err)
	require.NoError(t, p.ReplaceAnalyses(ctx, []StockAnalysis{tsmc(1000)}))

	err = p.ReplaceAnalyses(ctx, []StockAnalysis{analysis("2330", 1010), {Symbol: "0050", CurrentPrice: 180}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	reloaded := Open(ctx, s)
	a, ok := reloaded.Analysis("2330")
	require.True(t, ok, "analyses survive a reload")
	assert.Equal(t, 1000.0, a.CurrentPrice)
	assert.Equal(t, []string{"0050"}, reloaded.PendingSymbols())
}

func TestCashSplit(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	plan := DefaultPlan()
	plan.CurrentSavings = 500000
	require.NoError(t, save(ctx, s, KeyPlan, plan))
	require.NoError(t, s.Put(ctx, KeyWatchlist, `["2330"]`))
	require.NoError(t, s.Put(ctx, KeyHoldings, `{"2330": 100}`))
	require.NoError(t, s.Put(ctx, KeyAnalyses, `[{"symbol":"2330","currentPrice":1000,"recommendation":"HOLD"}]`))

	p := Open(ctx, s)
	assert.True(t, p.Cash().Equal(M(400000, "TWD")), "got %v", p.Cash())
	assert.Equal(t, 500000.0, p.Plan().CurrentSavings)

	// the market value moves, the cash does not
	require.NoError(t, p.SetQuantity(ctx, "2330", Q(200)))
	assert.Equal(t, 600000.0, p.Plan().CurrentSavings)

	require.NoError(t, p.SetCash(ctx, M(1000, "TWD")))
	assert.Equal(t, 201000.0, p.Plan().CurrentSavings)
	assert.ErrorIs(t, p.SetCash(ctx, M(-1, "TWD")), ErrInvalidInput)

	// the persisted plan holds the combined savings
	reloaded := Open(ctx, s)
	assert.Equal(t, 201000.0, reloaded.Plan().CurrentSavings)
	assert.True(t, reloaded.Cash().Equal(M(1000, "TWD")))
}

func TestCashSplitNeverNegative(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	plan := DefaultPlan()
	plan.CurrentSavings = 10
	require.NoError(t, save(ctx, s, KeyPlan, plan))
	require.NoError(t, s.Put(ctx, KeyHoldings, `{"2330": 100}`))
	require.NoError(t, s.Put(ctx, KeyAnalyses, `[{"symbol":"2330","currentPrice":1000,"recommendation":"HOLD"}]`))

	p := Open(ctx, s)
	assert.True(t, p.Cash().IsZero())
	assert.Equal(t, 100000.0, p.Plan().CurrentSavings)
}

func TestSetPlan(t *testing.T) {
	ctx := context.Background()
	p := Open(ctx, store.NewMemory())
	require.NoError(t, p.SetCash(ctx, M(1000, "TWD")))

	plan := DefaultPlan()
	plan.CurrentSavings = 99 // ignored
	plan.RetirementAge = 60
	require.NoError(t, p.SetPlan(ctx, plan))
	assert.Equal(t, 60, p.Plan().RetirementAge)
	assert.Equal(t, 1000.0, p.Plan().CurrentSavings)

	plan.MonthlySavings = -1
	assert.ErrorIs(t, p.SetPlan(ctx, plan), ErrInvalidInput)
	assert.Equal(t, 20000.0, p.Plan().MonthlySavings)
}

func TestReplaceAnalysesRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	p := Open(ctx, store.NewMemory())
	require.NoError(t, p.ReplaceAnalyses(ctx, []StockAnalysis{tsmc(1000)}))

	err := p.ReplaceAnalyses(ctx, []StockAnalysis{analysis("", 1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	a, ok := p.Analysis("2330")
	require.True(t, ok)
	assert.Equal(t, 1000.0, a.CurrentPrice)
}

func TestStaleAnalysis(t *testing.T) {
	ctx := context.Background()
	p := Open(ctx, store.NewMemory())

	slow := p.StartAnalysis()
	fast := p.StartAnalysis()
	require.NoError(t, p.ApplyAnalysis(ctx, fast, []StockAnalysis{tsmc(1010)}))
	err := p.ApplyAnalysis(ctx, slow, []StockAnalysis{tsmc(990)})
	assert.ErrorIs(t, err, ErrStaleAnalysis)

	a, _ := p.Analysis("2330")
	assert.Equal(t, 1010.0, a.CurrentPrice)
}

// fakeAnalyzer answers with a fixed price for every symbol.
type fakeAnalyzer struct {
	price float64
	err   error
	calls [][]string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, symbols []string) ([]StockAnalysis, error) {
	f.calls = append(f.calls, symbols)
	if f.err != nil {
		return nil, f.err
	}
	var out []StockAnalysis
	for _, s := range symbols {
		out = append(out, analysis(s, f.price))
	}
	return out, nil
}

func (f *fakeAnalyzer) Trending(context.Context) ([]StockAnalysis, error) {
	return []StockAnalysis{analysis("NVDA", f.price)}, f.err
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	p := Open(ctx, store.NewMemory())
	_, err := p.AddSymbols(ctx, "2330 0050")
	require.NoError(t, err)

	a := &fakeAnalyzer{price: 100}
	requested, err := p.Refresh(ctx, a, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"2330", "0050"}, requested)
	assert.Empty(t, p.PendingSymbols())

	// only the new symbol is requested, the others are kept
	_, err = p.AddSymbols(ctx, "2317")
	require.NoError(t, err)
	a.price = 200
	requested, err = p.Refresh(ctx, a, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"2317"}, requested)
	old, _ := p.Analysis("2330")
	assert.Equal(t, 100.0, old.CurrentPrice)
	fresh, _ := p.Analysis("2317")
	assert.Equal(t, 200.0, fresh.CurrentPrice)

	// nothing pending: no call
	requested, err = p.Refresh(ctx, a, false)
	require.NoError(t, err)
	assert.Empty(t, requested)
	assert.Len(t, a.calls, 2)

	// all
	requested, err = p.Refresh(ctx, a, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"2330", "0050", "2317"}, requested)
	old, _ = p.Analysis("2330")
	assert.Equal(t, 200.0, old.CurrentPrice)
}

func TestRefreshFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	p := Open(ctx, store.NewMemory())
	_, err := p.AddSymbols(ctx, "2330")
	require.NoError(t, err)
	require.NoError(t, p.ReplaceAnalyses(ctx, []StockAnalysis{tsmc(1000)}))

	boom := errors.New("network down")
	_, err = p.Refresh(ctx, &fakeAnalyzer{err: boom}, true)
	assert.ErrorIs(t, err, boom)
	a, ok := p.Analysis("2330")
	require.True(t, ok)
	assert.Equal(t, 1000.0, a.CurrentPrice)
	assert.Equal(t, []string{"2330"}, p.Watchlist())
}

func TestAutoSaveFailureIsNotRaised(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	p := Open(ctx, s)

	s.Fail = errors.New("quota exceeded")
	added, err := p.AddSymbols(ctx, "2330")
	require.NoError(t, err)
	assert.Equal(t, []string{"2330"}, added)
	assert.Equal(t, []string{"2330"}, p.Watchlist())

	// explicit saves report it
	assert.ErrorIs(t, p.Save(ctx), s.Fail)

	s.Fail = nil
	require.NoError(t, p.Save(ctx))
	assert.Equal(t, []string{"2330"}, Open(ctx, s).Watchlist())
}
