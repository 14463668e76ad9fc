package cmd

import (
	"context"
	"strings"

	"github.com/etnz/nestegg/docs"
	"github.com/etnz/nestegg/store"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the subcommands.
func Completion() map[string]*complete.Command {
	symbols := complete.PredictFunc(predictSymbols)
	topics, _ := docs.GetAllTopics()
	return map[string]*complete.Command{
		"add":     {},
		"remove":  {Args: symbols},
		"qty":     {Args: symbols},
		"cash":    {},
		"list":    {},
		"pending": {},
		"plan": {Flags: map[string]complete.Predictor{
			"age":            predict.Something,
			"retire":         predict.Something,
			"monthly":        predict.Something,
			"target":         predict.Something,
			"return":         predict.Something,
			"insurance":      predict.Something,
			"insurance-rate": predict.Something,
			"insurance-year": predict.Something,
		}},
		"project": {Flags: map[string]complete.Predictor{
			"year": predict.Something,
			"step": predict.Something,
		}},
		"analyze":  {Flags: map[string]complete.Predictor{"all": predict.Nothing}},
		"trending": {},
		"advise":   {},
		"assist":   {},
		"save":     {},
		"export":   {Flags: map[string]complete.Predictor{"format": predict.Set{"json", "yaml"}}},
		"topic":    {Args: predict.Set(topics)},
	}
}

// GlobalFlags returns the completion of the flags common to all commands.
func GlobalFlags() map[string]complete.Predictor {
	return map[string]complete.Predictor{
		"data-dir":  predict.Dirs("*"),
		"store":     predict.Set{store.KindDir, store.KindSQLite, store.KindRedis, store.KindMemory},
		"dsn":       predict.Something,
		"api-key":   predict.Something,
		"model":     predict.Something,
		"currency":  predict.Something,
		"log-level": predict.Set{"debug", "info", "warn", "error"},
	}
}

// predictSymbols completes with the watched symbols.
func predictSymbols(prefix string) []string {
	p, _, closer, err := OpenPortfolio(context.Background())
	if err != nil {
		return nil
	}
	defer closer()
	var symbols []string
	for _, s := range p.Watchlist() {
		if strings.HasPrefix(s, strings.ToUpper(prefix)) {
			symbols = append(symbols, s)
		}
	}
	return symbols
}
