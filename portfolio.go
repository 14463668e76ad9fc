package nestegg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Portfolio owns the user's state: the plan, the cash savings, the watch-list,
// the holdings and the analyses.
//
// The watch-list, the holdings and the analyses are persisted independently
// and are only loosely related: a holding survives the removal of its symbol
// from the watch-list, an analysis may be missing for a watched symbol
// (pending) and Reconcile rebuilds a lost watch-list from the holdings.
//
// Every mutation persists the collections it changed before returning.
// Failures of those writes are logged and never returned, use Save to get
// them.
type Portfolio struct {
	mu       sync.Mutex
	store    Store
	log      zerolog.Logger
	currency string

	plan      Plan // CurrentSavings is derived, see Plan()
	cash      Money
	watchlist []string
	holdings  map[string]Quantity
	analyses  []StockAnalysis // nil until the first analysis is stored
	index     map[string]int  // symbol to position in analyses

	issued, applied Ticket
}

// Option configures a Portfolio.
type Option func(*Portfolio)

// WithLogger sets the logger for load fallbacks and persistence failures.
func WithLogger(l zerolog.Logger) Option { return func(p *Portfolio) { p.log = l } }

// WithCurrency sets the currency of all amounts, "TWD" by default.
func WithCurrency(cur string) Option { return func(p *Portfolio) { p.currency = cur } }

// Open loads the portfolio from 's'.
//
// Each key falls back independently to its default value when it is absent
// or cannot be decoded. The watch-list is then reconciled and the loaded plan's
// CurrentSavings is split into cash savings and the current market value.
func Open(ctx context.Context, s Store, opts ...Option) *Portfolio {
	p := &Portfolio{
		store:    s,
		log:      zerolog.Nop(),
		currency: "TWD",
	}
	for _, opt := range opts {
		opt(p)
	}

	p.plan = loadOr(ctx, s, KeyPlan, DefaultPlan(), p.log)
	p.watchlist = dedup(loadOr(ctx, s, KeyWatchlist, []string{}, p.log))
	p.holdings = validHoldings(loadOr(ctx, s, KeyHoldings, map[string]Quantity{}, p.log), p.log)
	if analyses := validAnalyses(loadOr[[]json.RawMessage](ctx, s, KeyAnalyses, nil, p.log), p.log); analyses != nil {
		p.setAnalyses(analyses)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.reconcile(ctx)

	saved := M(p.plan.CurrentSavings, p.currency)
	p.cash = saved.Sub(p.marketValue()).Max(M(0, p.currency))
	return p
}

// Reconcile repairs the watch-list: when it is empty while there are
// holdings, it is rebuilt from the held symbols in lexicographic order and
// persisted. It reports whether a repair happened.
//
// Open already calls it.
func (p *Portfolio) Reconcile(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reconcile(ctx)
}

func (p *Portfolio) reconcile(ctx context.Context) bool {
	if len(p.watchlist) > 0 || len(p.holdings) == 0 {
		return false
	}
	symbols := make([]string, 0, len(p.holdings))
	for s := range p.holdings {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	p.watchlist = symbols
	p.log.Info().Strs("symbols", symbols).Msg("watch-list recovered from holdings")
	p.persist(ctx, KeyWatchlist)
	return true
}

// AddSymbols parses 'raw' (see ParseSymbols) and appends the symbols that
// are not yet watched, in input order. It returns the appended symbols.
//
// An input without any symbol is rejected with ErrInvalidInput.
func (p *Portfolio) AddSymbols(ctx context.Context, raw string) ([]string, error) {
	symbols := ParseSymbols(raw)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbol in %q", ErrInvalidInput, raw)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	added := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if !slices.Contains(p.watchlist, s) {
			added = append(added, s)
		}
	}
	if len(added) == 0 {
		return added, nil
	}
	p.watchlist = append(p.watchlist, added...)
	p.persist(ctx, KeyWatchlist, KeyPlan)
	return added, nil
}

// RemoveSymbol removes 'symbol' from the watch-list and drops its analysis.
// Its holding is kept, so that adding the symbol again restores the quantity.
func (p *Portfolio) RemoveSymbol(ctx context.Context, symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return fmt.Errorf("%w: empty symbol", ErrInvalidInput)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	var changed []string
	if i := slices.Index(p.watchlist, symbol); i >= 0 {
		p.watchlist = slices.Delete(p.watchlist, i, i+1)
		changed = append(changed, KeyWatchlist)
	}
	if i, ok := p.index[symbol]; ok {
		analyses := slices.Delete(slices.Clone(p.analyses), i, i+1)
		p.setAnalyses(analyses)
		changed = append(changed, KeyAnalyses)
	}
	if len(changed) > 0 {
		p.persist(ctx, append(changed, KeyPlan)...)
	}
	return nil
}

// SetQuantity sets the number of shares held for 'symbol'.
func (p *Portfolio) SetQuantity(ctx context.Context, symbol string, qty Quantity) error {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return fmt.Errorf("%w: empty symbol", ErrInvalidInput)
	}
	if qty.IsNegative() {
		return fmt.Errorf("%w: negative quantity %v for %s", ErrInvalidInput, qty, symbol)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.holdings[symbol] = qty
	p.persist(ctx, KeyHoldings, KeyPlan)
	return nil
}

// ReplaceAnalyses replaces all the analyses by 'results'.
//
// If any result is invalid nothing is changed.
func (p *Portfolio) ReplaceAnalyses(ctx context.Context, results []StockAnalysis) error {
	return p.ApplyAnalysis(ctx, p.StartAnalysis(), results)
}

// Ticket orders analysis requests. Tickets are issued in increasing order by
// StartAnalysis.
type Ticket uint64

// StartAnalysis issues the ticket for a new analysis request.
func (p *Portfolio) StartAnalysis() Ticket {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return p.issued
}

// ApplyAnalysis replaces all the analyses with the results of the request
// identified by 't'.
//
// Results of a request started before the last applied one are dropped with
// ErrStaleAnalysis, so that a slow response never overwrites a fresher one.
func (p *Portfolio) ApplyAnalysis(ctx context.Context, t Ticket, results []StockAnalysis) error {
	normalized, err := normalizeAnalyses(results)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.apply(ctx, t, normalized)
}

func (p *Portfolio) apply(ctx context.Context, t Ticket, results []StockAnalysis) error {
	if t <= p.applied {
		p.log.Warn().Uint64("ticket", uint64(t)).Uint64("applied", uint64(p.applied)).Msg("dropping stale analysis")
		return fmt.Errorf("%w: request %d is older than %d", ErrStaleAnalysis, t, p.applied)
	}
	p.applied = t
	p.setAnalyses(results)
	p.persist(ctx, KeyAnalyses, KeyPlan)
	return nil
}

// normalizeAnalyses validates and normalizes the symbols of 'results'. For
// duplicated symbols the last one wins.
func normalizeAnalyses(results []StockAnalysis) ([]StockAnalysis, error) {
	var errs []error
	out := make([]StockAnalysis, 0, len(results))
	pos := make(map[string]int, len(results))
	for _, a := range results {
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		a.Symbol = NormalizeSymbol(a.Symbol)
		if i, ok := pos[a.Symbol]; ok {
			out[i] = a
			continue
		}
		pos[a.Symbol] = len(out)
		out = append(out, a)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Portfolio) setAnalyses(analyses []StockAnalysis) {
	p.analyses = analyses
	p.index = make(map[string]int, len(analyses))
	for i, a := range analyses {
		p.index[NormalizeSymbol(a.Symbol)] = i
	}
}

// Analyzer fetches stock analyses from a remote service.
type Analyzer interface {
	// Analyze returns one analysis per symbol.
	Analyze(ctx context.Context, symbols []string) ([]StockAnalysis, error)
	// Trending returns analyses of a few symbols currently in the news.
	Trending(ctx context.Context) ([]StockAnalysis, error)
}

// Refresh fetches the analyses of the pending symbols, or of the whole
// watch-list if 'all' is true, and returns the requested symbols.
//
// Analyses of watched symbols that were not requested are kept, the others
// are dropped. On any failure the current analyses are left untouched.
func (p *Portfolio) Refresh(ctx context.Context, a Analyzer, all bool) ([]string, error) {
	p.mu.Lock()
	requested := p.pendingSymbols()
	if all {
		requested = slices.Clone(p.watchlist)
	}
	p.issued++
	t := p.issued
	p.mu.Unlock()

	if len(requested) == 0 {
		return requested, nil
	}

	p.log.Debug().Strs("symbols", requested).Uint64("ticket", uint64(t)).Msg("requesting analysis")
	results, err := a.Analyze(ctx, requested)
	if err != nil {
		return requested, fmt.Errorf("cannot analyze %v: %w", requested, err)
	}
	fresh, err := normalizeAnalyses(results)
	if err != nil {
		return requested, fmt.Errorf("invalid analysis: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	got := make(map[string]bool, len(fresh))
	for _, r := range fresh {
		got[r.Symbol] = true
	}
	merged := fresh
	for _, s := range p.watchlist {
		if got[s] || slices.Contains(requested, s) {
			continue
		}
		if i, ok := p.index[s]; ok {
			merged = append(merged, p.analyses[i])
		}
	}
	return requested, p.apply(ctx, t, merged)
}

// PendingSymbols returns the watched symbols without analysis, in watch-list order.
func (p *Portfolio) PendingSymbols() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pendingSymbols()
}

func (p *Portfolio) pendingSymbols() []string {
	pending := make([]string, 0, len(p.watchlist))
	for _, s := range p.watchlist {
		if _, ok := p.index[s]; !ok {
			pending = append(pending, s)
		}
	}
	return pending
}

// MarketValue returns the value of the watched symbols: the sum of their
// current price times the quantity held. Symbols without analysis or without
// holding are worth 0.
func (p *Portfolio) MarketValue() Money {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.marketValue()
}

func (p *Portfolio) marketValue() Money {
	total := M(0, p.currency)
	for _, s := range p.watchlist {
		i, ok := p.index[s]
		if !ok {
			continue
		}
		qty, ok := p.holdings[s]
		if !ok {
			continue
		}
		total = total.Add(M(p.analyses[i].CurrentPrice, p.currency).Mul(qty))
	}
	return total
}

// Cash returns the cash savings.
func (p *Portfolio) Cash() Money {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cash
}

// SetCash sets the cash savings.
func (p *Portfolio) SetCash(ctx context.Context, cash Money) error {
	if cash.IsNegative() {
		return fmt.Errorf("%w: negative cash %v", ErrInvalidInput, cash)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cash = M(cash.value, p.currency)
	p.persist(ctx, KeyPlan)
	return nil
}

// Plan returns the plan. Its CurrentSavings is always the cash savings plus
// the market value.
func (p *Portfolio) Plan() Plan {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentPlan()
}

func (p *Portfolio) currentPlan() Plan {
	plan := p.plan
	plan.CurrentSavings = p.cash.Add(p.marketValue()).Float64()
	return plan
}

// SetPlan replaces the plan. plan.CurrentSavings is ignored, use SetCash to
// change the savings.
func (p *Portfolio) SetPlan(ctx context.Context, plan Plan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plan = plan
	p.persist(ctx, KeyPlan)
	return nil
}

// Project computes the projection of the current plan, see Plan.Project.
func (p *Portfolio) Project(year int) (Projection, bool, error) {
	return p.Plan().Project(year)
}

// Watchlist returns a copy of the watched symbols in display order.
func (p *Portfolio) Watchlist() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.watchlist)
}

// Quantity returns the number of shares held for 'symbol'.
func (p *Portfolio) Quantity(symbol string) (Quantity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q, ok := p.holdings[NormalizeSymbol(symbol)]
	return q, ok
}

// Holdings returns a copy of all the holdings, watched or not.
func (p *Portfolio) Holdings() map[string]Quantity {
	p.mu.Lock()
	defer p.mu.Unlock()
	h := make(map[string]Quantity, len(p.holdings))
	for k, v := range p.holdings {
		h[k] = v
	}
	return h
}

// Analysis returns the last analysis of 'symbol'.
func (p *Portfolio) Analysis(symbol string) (StockAnalysis, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i, ok := p.index[NormalizeSymbol(symbol)]
	if !ok {
		return StockAnalysis{}, false
	}
	return p.analyses[i], true
}

// Analyses returns a copy of all the stored analyses.
func (p *Portfolio) Analyses() []StockAnalysis {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.analyses)
}

// Currency returns the currency of all amounts.
func (p *Portfolio) Currency() string { return p.currency }

// Save writes all the collections and returns the failures.
func (p *Portfolio) Save(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	for _, key := range []string{KeyPlan, KeyWatchlist, KeyHoldings, KeyAnalyses} {
		if err := p.save(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// persist writes 'keys' and logs the failures.
func (p *Portfolio) persist(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := p.save(ctx, key); err != nil {
			p.log.Error().Err(err).Str("key", key).Msg("auto save failed")
		}
	}
}

func (p *Portfolio) save(ctx context.Context, key string) error {
	switch key {
	case KeyPlan:
		return save(ctx, p.store, key, p.currentPlan())
	case KeyWatchlist:
		return save(ctx, p.store, key, p.watchlist)
	case KeyHoldings:
		return save(ctx, p.store, key, p.holdings)
	case KeyAnalyses:
		analyses := p.analyses
		if analyses == nil {
			analyses = []StockAnalysis{}
		}
		return save(ctx, p.store, key, analyses)
	default:
		return fmt.Errorf("unknown key %q", key)
	}
}

// dedup normalizes symbols and removes the duplicates, keeping the first occurrence.
func dedup(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = NormalizeSymbol(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
