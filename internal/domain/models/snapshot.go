package models

// SymbolSnapshot is the canonical per-symbol indicator set of one analysis run.
type SymbolSnapshot struct {
	Symbol       string  `json:"symbol"`
	Price        float64 `json:"price"`
	Stochastic14 float64 `json:"stoch_14"`
	WarningCount int     `json:"warning_count"`
	AboveEMA     bool    `json:"above_ema"`
	Overbought   bool    `json:"overbought"`
}

// MarketSnapshot maps symbol to its indicators. A symbol missing from the map
// is absent for rule purposes.
type MarketSnapshot map[string]SymbolSnapshot

// Get returns the snapshot for symbol and whether it is present.
func (m MarketSnapshot) Get(symbol string) (SymbolSnapshot, bool) {
	s, ok := m[symbol]
	return s, ok
}

// Has reports whether every symbol is present.
func (m MarketSnapshot) Has(symbols ...string) bool {
	for _, s := range symbols {
		if _, ok := m[s]; !ok {
			return false
		}
	}
	return true
}
