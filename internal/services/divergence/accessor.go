package divergence

import (
	"MarketDash/internal/domain/models"
	"MarketDash/pkg/extjson"
)

// Record keys of a detailed_results entry.
const (
	fieldPrice        = "price"
	fieldStochastic   = "stoch_14"
	fieldWarningCount = "warning_count"
	fieldAboveEMA     = "above_ema"
	fieldOverbought   = "overbought"
)

// SymbolFromRecord decodes one raw per-symbol record. Missing fields read as
// zero or false; the function never fails.
func SymbolFromRecord(symbol string, rec map[string]any) models.SymbolSnapshot {
	return models.SymbolSnapshot{
		Symbol:       symbol,
		Price:        extjson.Number(rec[fieldPrice]),
		Stochastic14: extjson.Number(rec[fieldStochastic]),
		WarningCount: extjson.Count(rec[fieldWarningCount]),
		AboveEMA:     extjson.Bool(rec[fieldAboveEMA]),
		Overbought:   extjson.Bool(rec[fieldOverbought]),
	}
}

// SnapshotFromResults builds a MarketSnapshot from the detailed_results map of
// an analysis document. Entries that are null or not objects are treated as
// absent symbols.
func SnapshotFromResults(results map[string]any) models.MarketSnapshot {
	snap := make(models.MarketSnapshot, len(results))
	for symbol, raw := range results {
		rec, ok := raw.(map[string]any)
		if !ok || rec == nil {
			continue
		}
		snap[symbol] = SymbolFromRecord(symbol, rec)
	}
	return snap
}
