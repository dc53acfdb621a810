package presentation

import (
	"time"

	"MarketDash/internal/domain/models"
)

// Badge is the label of one detected chart pattern.
type Badge struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

var signalBadges = map[string]Badge{
	"bull_flag":    {Name: "🚩 Bull Flag", Color: "#10b981"},
	"bear_flag":    {Name: "🚩 Bear Flag", Color: "#ef4444"},
	"golden_cross": {Name: "✨ Golden Cross", Color: "#fbbf24"},
	"death_cross":  {Name: "💀 Death Cross", Color: "#991b1b"},
	"breakout":     {Name: "🚀 Breakout", Color: "#3b82f6"},
	"breakdown":    {Name: "📉 Breakdown", Color: "#dc2626"},
	"reversal":     {Name: "🔄 Reversal", Color: "#8b5cf6"},
	"support":      {Name: "🛡️ Support", Color: "#059669"},
	"resistance":   {Name: "⛔ Resistance", Color: "#ea580c"},
}

// SignalBadge labels a signal type; unknown types pass through with a neutral color.
func SignalBadge(signalType string) Badge {
	b, ok := signalBadges[signalType]
	if !ok {
		b = Badge{Name: "📊 " + signalType, Color: "#64748b"}
	}
	b.Type = signalType
	return b
}

// SignalCard is a trading signal ready for display.
type SignalCard struct {
	models.TradingSignal
	TimeAgo string  `json:"time_ago"`
	Badges  []Badge `json:"badges"`
}

// SignalCards decorates signals with badges and relative times measured from now.
func SignalCards(signals []models.TradingSignal, now time.Time) []SignalCard {
	out := make([]SignalCard, 0, len(signals))
	for _, s := range signals {
		badges := make([]Badge, 0, len(s.Signals))
		for _, typ := range s.Signals {
			badges = append(badges, SignalBadge(typ))
		}
		out = append(out, SignalCard{TradingSignal: s, TimeAgo: TimeAgo(s.Timestamp, now), Badges: badges})
	}
	return out
}
