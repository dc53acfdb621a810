package divergence

import "testing"

func TestSnapshotFromResultsSkipsNullSymbols(t *testing.T) {
	snap := SnapshotFromResults(map[string]any{
		"SPY": map[string]any{"price": 450.0},
		"QQQ": nil,
		"DIA": "bogus",
	})
	if len(snap) != 1 {
		t.Fatalf("expected only SPY, got %v", snap)
	}
	if _, ok := snap.Get("QQQ"); ok {
		t.Fatalf("null record must be absent")
	}
}

func TestSymbolFromRecordDefaults(t *testing.T) {
	s := SymbolFromRecord("XLF", map[string]any{})
	if s.Symbol != "XLF" || s.Price != 0 || s.WarningCount != 0 || s.AboveEMA || s.Overbought {
		t.Fatalf("unexpected defaults %+v", s)
	}
}

func TestSymbolFromRecordWrapped(t *testing.T) {
	s := SymbolFromRecord("SPY", map[string]any{
		"price":         map[string]any{"$numberDouble": "451.25"},
		"stoch_14":      map[string]any{"$numberInt": "82"},
		"warning_count": map[string]any{"$numberInt": "2"},
		"above_ema":     true,
		"overbought":    false,
	})
	if s.Price != 451.25 || s.Stochastic14 != 82 || s.WarningCount != 2 || !s.AboveEMA || s.Overbought {
		t.Fatalf("unexpected snapshot %+v", s)
	}
}
