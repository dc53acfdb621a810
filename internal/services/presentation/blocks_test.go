package presentation

import (
	"testing"

	"MarketDash/internal/domain/models"
)

func TestBlocksEmptyRendersNothing(t *testing.T) {
	if got := Blocks(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := Blocks([]models.Warning{}); got != nil {
		t.Fatalf("expected nil for empty slice, got %v", got)
	}
}

func TestBlocksColors(t *testing.T) {
	ws := []models.Warning{
		{Severity: models.SeverityHigh, Icon: "⚠️", Title: "A", Symbol: "^VIX"},
		{Severity: models.SeverityMedium, Title: "B"},
		{Severity: models.SeverityLow, Title: "C"},
	}
	got := Blocks(ws)
	want := []Colors{
		{"rgba(239, 68, 68, 0.1)", "#ef4444", "#ef4444"},
		{"rgba(245, 158, 11, 0.1)", "#f59e0b", "#f59e0b"},
		{"rgba(59, 130, 246, 0.1)", "#3b82f6", "#3b82f6"},
	}
	for i, b := range got {
		if b.Colors != want[i] {
			t.Fatalf("block %d colors %+v", i, b.Colors)
		}
	}
	if got[0].Title != "⚠️ A" || got[0].SeverityLabel != "HIGH" || got[0].Symbol != "^VIX" {
		t.Fatalf("unexpected first block %+v", got[0])
	}
	if got[1].Title != "B" {
		t.Fatalf("title without icon should be unchanged, got %q", got[1].Title)
	}
}

func TestDivergencePanel(t *testing.T) {
	if p := DivergencePanel(map[string]any{}); p != nil {
		t.Fatalf("expected nil panel")
	}
	p := DivergencePanel(map[string]any{
		"SPY":  map[string]any{"above_ema": true},
		"^VIX": map[string]any{"price": map[string]any{"$numberDouble": "22.3"}},
	})
	if p == nil || len(p.Blocks) != 1 {
		t.Fatalf("expected one block, got %+v", p)
	}
	if p.Blocks[0].Title != "⚠️ Fear Rising Despite Market Strength" {
		t.Fatalf("unexpected title %q", p.Blocks[0].Title)
	}
}

func TestLevelColorsFallback(t *testing.T) {
	if LevelColors("UNKNOWN") != LevelColors(models.LevelModerate) {
		t.Fatalf("unknown level should use MODERATE palette")
	}
	if LevelColors(models.LevelDanger).Border != "#f87171" {
		t.Fatalf("unexpected DANGER border")
	}
	box := NewHealthBox(models.Analysis{WarningLevel: models.LevelHealthy, MarketHealthScore: 82})
	if box.Signals == nil || box.Style.Border != "#34d399" {
		t.Fatalf("unexpected health box %+v", box)
	}
}
