package presentation

import (
	"MarketDash/internal/domain/models"
	"MarketDash/internal/services/divergence"
)

type symbolName struct {
	Symbol string
	Name   string
}

var (
	indexSymbols = []symbolName{
		{"SPY", "S&P 500"},
		{"QQQ", "Nasdaq 100"},
		{"DIA", "Dow Jones"},
		{"IWM", "Russell 2000"},
	}
	sectorSymbols = []symbolName{
		{"XLC", "Communication Services"},
		{"XLE", "Energy"},
		{"XLF", "Financials"},
		{"XLI", "Industrials"},
		{"XLK", "Technology"},
		{"XLP", "Consumer Staples"},
		{"XLU", "Utilities"},
		{"XLV", "Healthcare"},
		{"XLY", "Consumer Discretionary"},
	}
	otherSymbols = []symbolName{
		{"^VIX", "Volatility Index"},
		{"HYG", "High Yield Bond"},
		{"TLT", "20+ Year Treasury"},
	}
)

// Card is one symbol tile with its indicator colors.
type Card struct {
	models.SymbolSnapshot
	Name            string `json:"name"`
	WarningColor    string `json:"warning_color"`
	OverboughtColor string `json:"overbought_color"`
	EMAColor        string `json:"ema_color"`
}

// CardGroups splits the dashboard tiles into the three sections.
type CardGroups struct {
	Indexes []Card `json:"indexes"`
	Sectors []Card `json:"sectors"`
	Others  []Card `json:"others"`
}

// SymbolCards builds the tiles for the symbols present in results, in fixed
// section order.
func SymbolCards(results map[string]any) CardGroups {
	snap := divergence.SnapshotFromResults(results)
	return CardGroups{
		Indexes: cardsFor(snap, indexSymbols),
		Sectors: cardsFor(snap, sectorSymbols),
		Others:  cardsFor(snap, otherSymbols),
	}
}

// SymbolName returns the long name of a tracked symbol, or the symbol itself.
func SymbolName(symbol string) string {
	for _, group := range [][]symbolName{indexSymbols, sectorSymbols, otherSymbols} {
		for _, s := range group {
			if s.Symbol == symbol {
				return s.Name
			}
		}
	}
	return symbol
}

func cardsFor(snap models.MarketSnapshot, symbols []symbolName) []Card {
	out := make([]Card, 0, len(symbols))
	for _, s := range symbols {
		sym, ok := snap.Get(s.Symbol)
		if !ok {
			continue
		}
		out = append(out, newCard(sym, s.Name))
	}
	return out
}

func newCard(s models.SymbolSnapshot, name string) Card {
	c := Card{
		SymbolSnapshot:  s,
		Name:            name,
		WarningColor:    "#10b981",
		OverboughtColor: "#64748b",
		EMAColor:        "#ef4444",
	}
	if s.WarningCount > 0 {
		c.WarningColor = "#ef4444"
	}
	if s.Overbought {
		c.OverboughtColor = "#f59e0b"
	}
	if s.AboveEMA {
		c.EMAColor = "#10b981"
	}
	return c
}
