package presentation

import (
	"testing"
	"time"

	"MarketDash/internal/domain/models"
)

func TestSignalBadge(t *testing.T) {
	b := SignalBadge("golden_cross")
	if b.Name != "✨ Golden Cross" || b.Color != "#fbbf24" || b.Type != "golden_cross" {
		t.Fatalf("unexpected badge %+v", b)
	}
	u := SignalBadge("cup_handle")
	if u.Name != "📊 cup_handle" || u.Color != "#64748b" {
		t.Fatalf("unexpected fallback badge %+v", u)
	}
}

func TestSignalCards(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cards := SignalCards([]models.TradingSignal{
		{Symbol: "AAPL", Signals: []string{"breakout", "support"}, Timestamp: now.Add(-2 * time.Hour)},
	}, now)
	if len(cards) != 1 || cards[0].TimeAgo != "2 hours ago" || len(cards[0].Badges) != 2 {
		t.Fatalf("unexpected cards %+v", cards)
	}
	if cards[0].Badges[0].Name != "🚀 Breakout" {
		t.Fatalf("unexpected badge %+v", cards[0].Badges[0])
	}
}
