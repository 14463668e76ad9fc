package renderer

import (
	"fmt"
	"slices"

	"github.com/etnz/nestegg"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Watchlist is the view of the watched symbols with their holdings and
// last analysis.
type Watchlist struct {
	Rows        []WatchlistRow
	Pending     []string
	MarketValue nestegg.Money
	Cash        nestegg.Money
	Savings     nestegg.Money
	Unwatched   []string // held symbols that are not watched
}

// WatchlistRow is a single watched symbol.
type WatchlistRow struct {
	Symbol         string
	Name           string
	Quantity       string
	Price          float64
	Value          nestegg.Money
	Recommendation nestegg.Recommendation
	BuyPrice       float64
	SellPrice      float64
	Pending        bool
}

// NewWatchlist builds the watch-list view of 'p'.
func NewWatchlist(p *nestegg.Portfolio) *Watchlist {
	w := &Watchlist{
		Pending:     p.PendingSymbols(),
		MarketValue: p.MarketValue(),
		Cash:        p.Cash(),
	}
	w.Savings = w.Cash.Add(w.MarketValue)

	watched := make(map[string]bool)
	for _, s := range p.Watchlist() {
		watched[s] = true
		row := WatchlistRow{Symbol: s, Value: nestegg.M(0, p.Currency())}
		qty, held := p.Quantity(s)
		if held {
			row.Quantity = qty.String()
		}
		if a, ok := p.Analysis(s); ok {
			row.Name = a.Name
			row.Price = a.CurrentPrice
			row.Recommendation = a.Recommendation
			row.BuyPrice = a.SuggestedBuyPrice
			row.SellPrice = a.SuggestedSellPrice
			if held {
				row.Value = nestegg.M(a.CurrentPrice, p.Currency()).Mul(qty)
			}
		} else {
			row.Pending = true
		}
		w.Rows = append(w.Rows, row)
	}
	for s := range p.Holdings() {
		if !watched[s] {
			w.Unwatched = append(w.Unwatched, s)
		}
	}
	slices.Sort(w.Unwatched)
	return w
}

// Table renders the rows as a markdown table.
func (w *Watchlist) Table() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Symbol", "Name", "Quantity", "Price", "Value", "Advice", "Buy", "Sell"})
	for _, r := range w.Rows {
		if r.Pending {
			t.AppendRow(table.Row{r.Symbol, "*pending*", r.Quantity, "", "", "", "", ""})
			continue
		}
		t.AppendRow(table.Row{
			r.Symbol,
			r.Name,
			r.Quantity,
			price(r.Price),
			r.Value.String(),
			string(r.Recommendation),
			price(r.BuyPrice),
			price(r.SellPrice),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})
	return t.RenderMarkdown()
}

func price(p float64) string {
	if p == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", p)
}

// RenderWatchlist renders the watch-list view to markdown.
func RenderWatchlist(w *Watchlist) string {
	partials := map[string]string{
		"watchlist_totals": "watchlist_totals.md",
	}
	return renderTemplate("watchlist", "watchlist.md", partials, w)
}
