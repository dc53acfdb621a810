package divergence

import (
	"fmt"

	"MarketDash/internal/domain/models"
)

// Symbols referenced by the built-in rules.
const (
	SymVIX = "^VIX"
	SymSPY = "SPY"
	SymGLD = "GLD"
	SymTLT = "TLT"
	SymHYG = "HYG"
	SymXLF = "XLF"
)

var (
	defensiveSectors = []string{"XLP", "XLU", "XLV"}
	cyclicalSectors  = []string{"XLK", "XLY", "XLE"}

	// BreadthSectors are the nine SPDR sector funds counted by the breadth rule.
	BreadthSectors = []string{"XLC", "XLE", "XLF", "XLI", "XLK", "XLP", "XLU", "XLV", "XLY"}
)

// breadthThreshold is the number of warning sectors that trips the breadth rule.
const breadthThreshold = 4

// Rule is one declarative heuristic. Requires lists the symbols that must be
// present for the rule to apply; Match and Describe may then read them freely.
type Rule struct {
	Name     string
	Requires []string
	Kind     models.Kind
	Severity models.Severity
	Icon     string
	Title    string
	Symbol   string
	Pattern  string
	Match    func(models.MarketSnapshot) bool
	Describe func(models.MarketSnapshot) string
}

func (r Rule) applies(snap models.MarketSnapshot) bool {
	return snap.Has(r.Requires...) && r.Match(snap)
}

func (r Rule) warning(snap models.MarketSnapshot) models.Warning {
	return models.Warning{
		Kind:        r.Kind,
		Severity:    r.Severity,
		Icon:        r.Icon,
		Title:       r.Title,
		Description: r.Describe(snap),
		Symbol:      r.Symbol,
		Pattern:     r.Pattern,
	}
}

func fixed(s string) func(models.MarketSnapshot) string {
	return func(models.MarketSnapshot) string { return s }
}

func countAboveEMA(snap models.MarketSnapshot, symbols []string) int {
	n := 0
	for _, s := range symbols {
		if snap[s].AboveEMA {
			n++
		}
	}
	return n
}

func sectorsWithWarnings(snap models.MarketSnapshot) int {
	n := 0
	for _, s := range BreadthSectors {
		if sym, ok := snap[s]; ok && sym.WarningCount > 0 {
			n++
		}
	}
	return n
}

// DefaultRules returns the built-in rule battery in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "vix_fear_vs_strength",
			Requires: []string{SymVIX, SymSPY},
			Kind:     models.KindDivergence,
			Severity: models.SeverityHigh,
			Icon:     "⚠️",
			Title:    "Fear Rising Despite Market Strength",
			Symbol:   SymVIX,
			Pattern:  models.Pattern1929,
			Match: func(s models.MarketSnapshot) bool {
				return s[SymVIX].Price > 20 && s[SymSPY].AboveEMA
			},
			Describe: func(s models.MarketSnapshot) string {
				return "VIX at " + toFixed(s[SymVIX].Price, 1) + " while SPY above trend - institutional hedging detected"
			},
		},
		{
			Name:     "vix_elevated_with_warnings",
			Requires: []string{SymVIX, SymSPY},
			Kind:     models.KindDivergence,
			Severity: models.SeverityMedium,
			Icon:     "📊",
			Title:    "Volatility Elevated with Market Warnings",
			Symbol:   SymVIX,
			Pattern:  models.Pattern1929,
			Match: func(s models.MarketSnapshot) bool {
				return s[SymVIX].Price > 18 && s[SymSPY].WarningCount > 0
			},
			Describe: func(s models.MarketSnapshot) string {
				return fmt.Sprintf("VIX at %s with %d SPY warning(s) - increased caution", toFixed(s[SymVIX].Price, 1), s[SymSPY].WarningCount)
			},
		},
		{
			Name:     "gold_stock_divergence",
			Requires: []string{SymGLD, SymSPY},
			Kind:     models.KindDivergence,
			Severity: models.SeverityHigh,
			Icon:     "🥇",
			Title:    "Gold-Stock Divergence: 1929 Pattern",
			Symbol:   SymGLD,
			Pattern:  models.Pattern1929,
			Match: func(s models.MarketSnapshot) bool {
				return s[SymGLD].AboveEMA && s[SymSPY].AboveEMA
			},
			Describe: func(s models.MarketSnapshot) string {
				return "Gold (" + toFixed(s[SymGLD].Price, 2) + ") and stocks both rising - smart money accumulating safe havens"
			},
		},
		{
			Name:     "gold_flight_to_safety",
			Requires: []string{SymGLD, SymSPY},
			Kind:     models.KindDivergence,
			Severity: models.SeverityMedium,
			Icon:     "🏆",
			Title:    "Gold Strength During Market Stress",
			Symbol:   SymGLD,
			Pattern:  models.Pattern1929,
			Match: func(s models.MarketSnapshot) bool {
				return s[SymGLD].AboveEMA && s[SymSPY].WarningCount > 0 && s[SymGLD].WarningCount == 0
			},
			Describe: func(s models.MarketSnapshot) string {
				return fmt.Sprintf("Gold above trend with no warnings while SPY shows %d warning(s) - flight to safety", s[SymSPY].WarningCount)
			},
		},
		{
			Name:     "bond_stock_divergence",
			Requires: []string{SymTLT, SymSPY},
			Kind:     models.KindDivergence,
			Severity: models.SeverityHigh,
			Icon:     "🏛️",
			Title:    "Bond-Stock Divergence Detected",
			Symbol:   SymTLT,
			Pattern:  models.Pattern1929,
			Match: func(s models.MarketSnapshot) bool {
				return s[SymTLT].AboveEMA && s[SymSPY].AboveEMA
			},
			Describe: fixed("Both treasuries and stocks rising - smart money seeking safety during rally"),
		},
		{
			Name:     "high_yield_credit_stress",
			Requires: []string{SymHYG, SymSPY},
			Kind:     models.KindCredit,
			Severity: models.SeverityHigh,
			Icon:     "💳",
			Title:    "High Yield Credit Stress",
			Symbol:   SymHYG,
			Pattern:  models.Pattern1929,
			Match: func(s models.MarketSnapshot) bool {
				return !s[SymHYG].AboveEMA && s[SymSPY].AboveEMA
			},
			Describe: fixed("Junk bonds weakening while stocks rise - credit market deterioration"),
		},
		{
			Name:     "credit_warning_signals",
			Requires: []string{SymHYG, SymSPY},
			Kind:     models.KindCredit,
			Severity: models.SeverityMedium,
			Icon:     "⚠️",
			Title:    "Credit Market Warning Signals",
			Symbol:   SymHYG,
			Pattern:  models.Pattern1929,
			Match: func(s models.MarketSnapshot) bool {
				return s[SymHYG].WarningCount > 0 && s[SymSPY].WarningCount == 0
			},
			Describe: func(s models.MarketSnapshot) string {
				return fmt.Sprintf("High yield bonds showing %d warning(s) - early stress indicator", s[SymHYG].WarningCount)
			},
		},
		{
			Name:     "banking_leading_decline",
			Requires: []string{SymXLF, SymSPY},
			Kind:     models.KindSector,
			Severity: models.SeverityHigh,
			Icon:     "🏦",
			Title:    "Banking Sector Leading Decline",
			Symbol:   SymXLF,
			Pattern:  models.Pattern1929,
			Match: func(s models.MarketSnapshot) bool {
				return !s[SymXLF].AboveEMA && s[SymSPY].AboveEMA
			},
			Describe: fixed("Financials weakening while market rises - classic 1929 pattern"),
		},
		{
			Name:     "financial_sector_stress",
			Requires: []string{SymXLF, SymSPY},
			Kind:     models.KindSector,
			Severity: models.SeverityMedium,
			Icon:     "📉",
			Title:    "Financial Sector Stress",
			Symbol:   SymXLF,
			Pattern:  models.Pattern1929,
			Match: func(s models.MarketSnapshot) bool {
				xlf := s[SymXLF].WarningCount
				return xlf > s[SymSPY].WarningCount && xlf > 0
			},
			Describe: func(s models.MarketSnapshot) string {
				return fmt.Sprintf("Financials showing %d warning(s) vs %d for market - sector weakness", s[SymXLF].WarningCount, s[SymSPY].WarningCount)
			},
		},
		{
			Name:     "defensive_rotation",
			Requires: append(append([]string{}, defensiveSectors...), cyclicalSectors...),
			Kind:     models.KindRotation,
			Severity: models.SeverityMedium,
			Icon:     "🛡️",
			Title:    "Defensive Sector Rotation",
			Symbol:   "Sectors",
			Pattern:  models.Pattern1929,
			Match: func(s models.MarketSnapshot) bool {
				return countAboveEMA(s, defensiveSectors) >= 2 && countAboveEMA(s, cyclicalSectors) <= 1
			},
			Describe: func(s models.MarketSnapshot) string {
				return fmt.Sprintf("%d/3 defensive sectors strong vs %d/3 cyclicals - risk-off positioning",
					countAboveEMA(s, defensiveSectors), countAboveEMA(s, cyclicalSectors))
			},
		},
		{
			Name:     "overbought_with_warnings",
			Requires: []string{SymSPY},
			Kind:     models.KindTechnical,
			Severity: models.SeverityMedium,
			Icon:     "📈",
			Title:    "Overbought Market with Warning Signals",
			Symbol:   SymSPY,
			Pattern:  models.PatternTechnical,
			Match: func(s models.MarketSnapshot) bool {
				return s[SymSPY].Overbought && s[SymSPY].WarningCount > 0
			},
			Describe: func(s models.MarketSnapshot) string {
				spy := s[SymSPY]
				return fmt.Sprintf("SPY overbought (Stoch: %s) with %d warning(s) - potential reversal", toFixed(spy.Stochastic14, 1), spy.WarningCount)
			},
		},
		{
			Name:     "broad_market_deterioration",
			Kind:     models.KindBreadth,
			Severity: models.SeverityHigh,
			Icon:     "🌐",
			Title:    "Broad Market Deterioration",
			Symbol:   "Market",
			Pattern:  models.Pattern1929,
			Match: func(s models.MarketSnapshot) bool {
				return sectorsWithWarnings(s) >= breadthThreshold
			},
			Describe: func(s models.MarketSnapshot) string {
				return fmt.Sprintf("%d/%d sectors showing warnings - market breadth weakening", sectorsWithWarnings(s), len(BreadthSectors))
			},
		},
	}
}
