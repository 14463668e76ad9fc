package nestegg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/etnz/nestegg/store"
	"github.com/rs/zerolog"
)

// Store is where a portfolio is persisted. Get returns an error wrapping
// store.ErrNotFound for keys never written.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
}

// Persisted keys, each one holds a JSON value.
const (
	KeyPlan      = "financialPlan"
	KeyWatchlist = "watchlist"
	KeyHoldings  = "holdings"
	KeyAnalyses  = "analyses"
)

// load reads and decodes the value at 'key'.
func load[T any](ctx context.Context, s Store, key string) (T, error) {
	var v T
	raw, err := s.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, fmt.Errorf("cannot decode %q: %w", key, err)
	}
	return v, nil
}

// loadOr returns the value at 'key' or 'fallback' if it is absent or cannot
// be decoded. Decoding failures are logged, absence is not.
func loadOr[T any](ctx context.Context, s Store, key string, fallback T, log zerolog.Logger) T {
	v, err := load[T](ctx, s, key)
	if errors.Is(err, store.ErrNotFound) {
		return fallback
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("using default value")
		return fallback
	}
	return v
}

// save encodes and writes 'v' at 'key'.
func save(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cannot encode %q: %w", key, err)
	}
	if err := s.Put(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("cannot save %q: %w", key, err)
	}
	return nil
}

// validHoldings drops the holdings that SetQuantity would have rejected.
func validHoldings(holdings map[string]Quantity, log zerolog.Logger) map[string]Quantity {
	valid := make(map[string]Quantity, len(holdings))
	for s, q := range holdings {
		symbol := NormalizeSymbol(s)
		if symbol == "" || q.IsNegative() {
			log.Warn().Str("symbol", s).Stringer("quantity", q).Msg("dropping invalid holding")
			continue
		}
		valid[symbol] = q
	}
	return valid
}

// validAnalyses decodes the analyses one by one and drops the ones that
// cannot be decoded or are invalid, the others are kept.
func validAnalyses(raw []json.RawMessage, log zerolog.Logger) []StockAnalysis {
	if raw == nil {
		return nil
	}
	analyses := make([]StockAnalysis, 0, len(raw))
	for i, r := range raw {
		var a StockAnalysis
		if err := json.Unmarshal(r, &a); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("dropping undecodable analysis")
			continue
		}
		if err := a.Validate(); err != nil {
			log.Warn().Err(err).Str("symbol", a.Symbol).Msg("dropping invalid analysis")
			continue
		}
		analyses = append(analyses, a)
	}
	// all valid, it cannot fail.
	analyses, _ = normalizeAnalyses(analyses)
	return analyses
}
