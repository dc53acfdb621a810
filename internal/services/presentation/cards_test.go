package presentation

import "testing"

func TestSymbolCardsGroupsPresentSymbols(t *testing.T) {
	groups := SymbolCards(map[string]any{
		"SPY":  map[string]any{"price": 450.0, "above_ema": true, "warning_count": map[string]any{"$numberInt": "2"}},
		"XLF":  map[string]any{"price": 40.0, "overbought": true},
		"^VIX": map[string]any{"price": 18.0},
		"AAPL": map[string]any{"price": 190.0},
	})
	if len(groups.Indexes) != 1 || len(groups.Sectors) != 1 || len(groups.Others) != 1 {
		t.Fatalf("unexpected grouping %+v", groups)
	}
	spy := groups.Indexes[0]
	if spy.Name != "S&P 500" || spy.WarningColor != "#ef4444" || spy.EMAColor != "#10b981" {
		t.Fatalf("unexpected SPY card %+v", spy)
	}
	xlf := groups.Sectors[0]
	if xlf.OverboughtColor != "#f59e0b" || xlf.WarningColor != "#10b981" || xlf.EMAColor != "#ef4444" {
		t.Fatalf("unexpected XLF card %+v", xlf)
	}
	if groups.Others[0].Name != "Volatility Index" {
		t.Fatalf("unexpected other card %+v", groups.Others[0])
	}
}

func TestSymbolName(t *testing.T) {
	if SymbolName("TLT") != "20+ Year Treasury" {
		t.Fatalf("unexpected name")
	}
	if SymbolName("AAPL") != "AAPL" {
		t.Fatalf("unknown symbols pass through")
	}
}
