package presentation

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"MarketDash/internal/domain/models"
	"MarketDash/pkg/extjson"
	"MarketDash/pkg/util"
)

const defaultPortfolio = "Other"

// Holding is one position with its money figures resolved.
type Holding struct {
	ID            string   `json:"id"`
	Ticker        string   `json:"ticker"`
	Name          string   `json:"name"`
	Shares        float64  `json:"shares"`
	BuyPrice      float64  `json:"buy_price"`
	CurrentPrice  float64  `json:"current_price"`
	TotalInvested float64  `json:"total_invested"`
	CurrentValue  float64  `json:"current_value"`
	ProfitLoss    float64  `json:"profit_loss"`
	PercentChange float64  `json:"percent_change"`
	StopLoss      *float64 `json:"stop_loss,omitempty"`
	StopWin       *float64 `json:"stop_win,omitempty"`
	StopStatus    string   `json:"stop_status,omitempty"`
	AnalysisNote  string   `json:"analysis_note,omitempty"`
	SubFormulas   []any    `json:"sub_formulas"`
}

// PortfolioGroup is a portfolio section with its positions and totals.
type PortfolioGroup struct {
	Summary  models.PortfolioSummary `json:"summary"`
	Holdings []Holding               `json:"holdings"`
}

// NewHolding resolves stored figures, computing any that are missing or zero
// from shares and prices.
func NewHolding(p models.Position) Holding {
	f := p.Fields
	shares := decimal.NewFromFloat(f.Shares)
	buy := decimal.NewFromFloat(f.Price)

	current := extjson.Decimal(f.CurrentPrice)
	if current.IsZero() {
		current = buy
	}
	invested := orElse(extjson.Decimal(f.TotalInvested), shares.Mul(buy))
	value := orElse(extjson.Decimal(f.CurrentValue), shares.Mul(current))
	pl := orElse(extjson.Decimal(f.ProfitLoss), value.Sub(invested))

	pct := extjson.Decimal(f.PercentChange)
	if pct.IsZero() && !buy.IsZero() {
		pct = current.Sub(buy).Div(buy).Mul(decimal.NewFromInt(100))
	}

	status := f.StopStatus
	if status == "" {
		status = f.Status
	}

	return Holding{
		ID:            p.ID,
		Ticker:        f.Ticker,
		Name:          f.Name,
		Shares:        f.Shares,
		BuyPrice:      f.Price,
		CurrentPrice:  current.InexactFloat64(),
		TotalInvested: invested.InexactFloat64(),
		CurrentValue:  value.InexactFloat64(),
		ProfitLoss:    pl.InexactFloat64(),
		PercentChange: pct.Round(2).InexactFloat64(),
		StopLoss:      stopLevel(f.StopLoss),
		StopWin:       stopLevel(f.StopWin),
		StopStatus:    status,
		AnalysisNote:  f.AnalysisNote,
		SubFormulas:   SubFormulas(f.SubFormula),
	}
}

// GroupPortfolios groups positions by portfolio ("Other" when blank) and
// totals each group. Groups are ordered by name.
func GroupPortfolios(positions []models.Position) []PortfolioGroup {
	byName := make(map[string]*PortfolioGroup)
	totals := make(map[string][2]decimal.Decimal)
	for _, p := range positions {
		name := strings.TrimSpace(p.Fields.Portfolio)
		if name == "" {
			name = defaultPortfolio
		}
		g, ok := byName[name]
		if !ok {
			g = &PortfolioGroup{Summary: models.PortfolioSummary{Portfolio: name}}
			byName[name] = g
		}
		h := NewHolding(p)
		g.Holdings = append(g.Holdings, h)
		t := totals[name]
		t[0] = t[0].Add(decimal.NewFromFloat(h.TotalInvested))
		t[1] = t[1].Add(decimal.NewFromFloat(h.CurrentValue))
		totals[name] = t
	}

	out := make([]PortfolioGroup, 0, len(byName))
	for name, g := range byName {
		invested, value := totals[name][0], totals[name][1]
		g.Summary.Positions = len(g.Holdings)
		g.Summary.TotalInvested = invested.Round(2).InexactFloat64()
		g.Summary.CurrentValue = value.Round(2).InexactFloat64()
		g.Summary.ProfitLoss = value.Sub(invested).Round(2).InexactFloat64()
		if !invested.IsZero() {
			g.Summary.PercentChange = value.Sub(invested).Div(invested).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Summary.Portfolio < out[j].Summary.Portfolio })
	return out
}

// SubFormulas accepts a JSON-encoded array or an array value. Anything else,
// including malformed JSON, yields an empty list.
func SubFormulas(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case string:
		var out []any
		if err := json.Unmarshal([]byte(s), &out); err == nil && out != nil {
			return out
		}
	}
	return []any{}
}

func orElse(v, fallback decimal.Decimal) decimal.Decimal {
	if v.IsZero() {
		return fallback
	}
	return v
}

func stopLevel(v any) *float64 {
	switch s := v.(type) {
	case nil:
		return nil
	case string:
		f, ok := util.ParseDecimalComma(s)
		if !ok || f == 0 {
			return nil
		}
		return &f
	default:
		f := extjson.Number(v)
		if f == 0 {
			return nil
		}
		return &f
	}
}
