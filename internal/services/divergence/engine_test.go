package divergence

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"MarketDash/internal/domain/models"
)

func sym(name string, price float64, above bool, warnings int) models.SymbolSnapshot {
	return models.SymbolSnapshot{Symbol: name, Price: price, AboveEMA: above, WarningCount: warnings}
}

func titles(ws []models.Warning) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Title
	}
	return out
}

func TestEvaluateIdempotent(t *testing.T) {
	snap := models.MarketSnapshot{
		"SPY":  sym("SPY", 450, true, 2),
		"^VIX": sym("^VIX", 21, false, 0),
		"GLD":  sym("GLD", 190, true, 0),
		"HYG":  sym("HYG", 75, false, 1),
	}
	first := Evaluate(snap)
	second := Evaluate(snap)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("evaluation not idempotent:\n%v\n%v", first, second)
	}
	if len(first) == 0 {
		t.Fatalf("expected warnings")
	}
}

func TestEvaluateEmptySnapshot(t *testing.T) {
	if got := Evaluate(models.MarketSnapshot{}); len(got) != 0 {
		t.Fatalf("expected no warnings, got %v", titles(got))
	}
	if got := Evaluate(nil); len(got) != 0 {
		t.Fatalf("expected no warnings for nil snapshot, got %v", titles(got))
	}
}

func TestRuleIndependence(t *testing.T) {
	snap := models.MarketSnapshot{
		"SPY":  sym("SPY", 450, true, 0),
		"^VIX": sym("^VIX", 25, false, 0),
	}
	got := Evaluate(snap)
	if len(got) != 1 {
		t.Fatalf("expected exactly one warning, got %v", titles(got))
	}
	if got[0].Severity != models.SeverityHigh || got[0].Symbol != "^VIX" {
		t.Fatalf("unexpected warning %+v", got[0])
	}
}

func TestSeverityOrdering(t *testing.T) {
	// VIX medium fires before the TLT high in rule order.
	snap := models.MarketSnapshot{
		"SPY":  sym("SPY", 450, true, 1),
		"^VIX": sym("^VIX", 19, false, 0),
		"TLT":  sym("TLT", 95, true, 0),
	}
	raw := NewEngine().Apply(snap)
	if len(raw) != 2 || raw[0].Severity != models.SeverityMedium || raw[1].Severity != models.SeverityHigh {
		t.Fatalf("unexpected rule order output %v", titles(raw))
	}
	got := Evaluate(snap)
	if got[0].Severity != models.SeverityHigh || got[0].Symbol != "TLT" {
		t.Fatalf("expected high TLT warning first, got %+v", got[0])
	}
	if got[1].Severity != models.SeverityMedium {
		t.Fatalf("expected medium second, got %+v", got[1])
	}
}

func TestVIXThresholdIsStrict(t *testing.T) {
	at := Evaluate(models.MarketSnapshot{
		"SPY":  sym("SPY", 450, true, 0),
		"^VIX": sym("^VIX", 20.0, false, 0),
	})
	for _, w := range at {
		if w.Title == "Fear Rising Despite Market Strength" {
			t.Fatalf("VIX exactly 20 must not fire")
		}
	}
	above := Evaluate(models.MarketSnapshot{
		"SPY":  sym("SPY", 450, true, 0),
		"^VIX": sym("^VIX", 20.01, false, 0),
	})
	if len(above) != 1 || above[0].Title != "Fear Rising Despite Market Strength" {
		t.Fatalf("VIX 20.01 should fire, got %v", titles(above))
	}
}

func TestBreadthThreshold(t *testing.T) {
	snap := models.MarketSnapshot{
		"XLC": sym("XLC", 1, true, 1),
		"XLI": sym("XLI", 1, true, 2),
		"XLE": sym("XLE", 1, true, 1),
		"XLK": sym("XLK", 1, true, 0),
	}
	if got := Evaluate(snap); len(got) != 0 {
		t.Fatalf("3 sectors must not fire breadth, got %v", titles(got))
	}

	snap["XLK"] = sym("XLK", 1, true, 3)
	got := Evaluate(snap)
	if len(got) != 1 {
		t.Fatalf("expected breadth warning only, got %v", titles(got))
	}
	if got[0].Severity != models.SeverityHigh || got[0].Kind != models.KindBreadth {
		t.Fatalf("unexpected warning %+v", got[0])
	}
	if !strings.HasPrefix(got[0].Description, "4/9 sectors showing warnings") {
		t.Fatalf("unexpected description %q", got[0].Description)
	}
}

func TestScenarioFearDespiteStrength(t *testing.T) {
	snap := models.MarketSnapshot{
		"SPY":  {Symbol: "SPY", Price: 450, AboveEMA: true},
		"^VIX": {Symbol: "^VIX", Price: 22.3},
	}
	got := Evaluate(snap)
	if len(got) != 1 {
		t.Fatalf("expected one warning, got %v", titles(got))
	}
	w := got[0]
	if w.Severity != models.SeverityHigh || w.Title != "Fear Rising Despite Market Strength" {
		t.Fatalf("unexpected warning %+v", w)
	}
	if !strings.Contains(w.Description, "22.3") {
		t.Fatalf("description should embed VIX price: %q", w.Description)
	}
}

func TestScenarioGoldBothConditions(t *testing.T) {
	snap := models.MarketSnapshot{
		"GLD": {Symbol: "GLD", AboveEMA: true},
		"SPY": {Symbol: "SPY", AboveEMA: true, WarningCount: 3},
	}
	got := Evaluate(snap)
	want := []string{"Gold-Stock Divergence: 1929 Pattern", "Gold Strength During Market Stress"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("got %v want %v", titles(got), want)
	}
	if got[0].Severity != models.SeverityHigh || got[1].Severity != models.SeverityMedium {
		t.Fatalf("unexpected severities %s %s", got[0].Severity, got[1].Severity)
	}
	if got[1].Description != "Gold above trend with no warnings while SPY shows 3 warning(s) - flight to safety" {
		t.Fatalf("unexpected description %q", got[1].Description)
	}
}

func TestNumericEncodingEquivalence(t *testing.T) {
	bare := `{
		"SPY": {"price": 450, "above_ema": true, "warning_count": 2, "overbought": true, "stoch_14": 85.5},
		"^VIX": {"price": 20.5, "above_ema": false, "warning_count": 0}
	}`
	boxed := `{
		"SPY": {"price": {"$numberInt": "450"}, "above_ema": true, "warning_count": {"$numberInt": "2"}, "overbought": true, "stoch_14": {"$numberDouble": "85.5"}},
		"^VIX": {"price": {"$numberDouble": "20.5"}, "above_ema": false, "warning_count": {"$numberInt": "0"}}
	}`
	var a, b map[string]any
	if err := json.Unmarshal([]byte(bare), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(boxed), &b); err != nil {
		t.Fatal(err)
	}
	wa := EvaluateResults(a)
	wb := EvaluateResults(b)
	if !reflect.DeepEqual(wa, wb) {
		t.Fatalf("encodings diverge:\n%v\n%v", wa, wb)
	}
	if len(wa) != 3 {
		t.Fatalf("expected three warnings, got %v", titles(wa))
	}
}

func TestDefensiveRotationNeedsAllSix(t *testing.T) {
	snap := models.MarketSnapshot{
		"XLP": sym("XLP", 1, true, 0),
		"XLU": sym("XLU", 1, true, 0),
		"XLV": sym("XLV", 1, false, 0),
		"XLK": sym("XLK", 1, false, 0),
		"XLY": sym("XLY", 1, true, 0),
		"XLE": sym("XLE", 1, false, 0),
	}
	got := Evaluate(snap)
	if len(got) != 1 || got[0].Kind != models.KindRotation {
		t.Fatalf("expected rotation warning, got %v", titles(got))
	}
	if got[0].Description != "2/3 defensive sectors strong vs 1/3 cyclicals - risk-off positioning" {
		t.Fatalf("unexpected description %q", got[0].Description)
	}

	delete(snap, "XLE")
	if got := Evaluate(snap); len(got) != 0 {
		t.Fatalf("rotation must be skipped when a sector is missing, got %v", titles(got))
	}
}

func TestOverboughtDescription(t *testing.T) {
	snap := models.MarketSnapshot{
		"SPY": {Symbol: "SPY", Overbought: true, Stochastic14: 91.26, WarningCount: 1},
	}
	got := Evaluate(snap)
	if len(got) != 1 {
		t.Fatalf("expected one warning, got %v", titles(got))
	}
	if got[0].Description != "SPY overbought (Stoch: 91.3) with 1 warning(s) - potential reversal" {
		t.Fatalf("unexpected description %q", got[0].Description)
	}
	if got[0].Pattern != models.PatternTechnical {
		t.Fatalf("unexpected pattern %q", got[0].Pattern)
	}
}

func TestCreditAndFinancialRules(t *testing.T) {
	snap := models.MarketSnapshot{
		"SPY": sym("SPY", 450, true, 0),
		"HYG": sym("HYG", 75, false, 2),
		"XLF": sym("XLF", 40, false, 1),
	}
	got := Evaluate(snap)
	want := []string{
		"High Yield Credit Stress",
		"Banking Sector Leading Decline",
		"Credit Market Warning Signals",
		"Financial Sector Stress",
	}
	if !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("got %v want %v", titles(got), want)
	}
	if got[3].Description != "Financials showing 1 warning(s) vs 0 for market - sector weakness" {
		t.Fatalf("unexpected description %q", got[3].Description)
	}
}

func TestCustomRuleSet(t *testing.T) {
	rules := DefaultRules()[:1]
	e := NewEngine(rules...)
	if names := e.RuleNames(); len(names) != 1 || names[0] != "vix_fear_vs_strength" {
		t.Fatalf("unexpected rules %v", names)
	}
	snap := models.MarketSnapshot{
		"SPY":  sym("SPY", 450, true, 5),
		"^VIX": sym("^VIX", 30, false, 0),
	}
	if got := e.Evaluate(snap); len(got) != 1 {
		t.Fatalf("expected only the first rule to fire, got %v", titles(got))
	}
}
