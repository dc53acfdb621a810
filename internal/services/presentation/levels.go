package presentation

import "MarketDash/internal/domain/models"

// LevelStyle is the palette of the market health box.
type LevelStyle struct {
	Background string `json:"bg"`
	Border     string `json:"border"`
	Shadow     string `json:"shadow"`
}

var levelStyles = map[string]LevelStyle{
	models.LevelHealthy: {
		Background: "linear-gradient(135deg, #10b981 0%, #059669 100%)",
		Border:     "#34d399",
		Shadow:     "0 8px 32px rgba(16, 185, 129, 0.3)",
	},
	models.LevelModerate: {
		Background: "linear-gradient(135deg, #f59e0b 0%, #d97706 100%)",
		Border:     "#fbbf24",
		Shadow:     "0 8px 32px rgba(245, 158, 11, 0.3)",
	},
	models.LevelDanger: {
		Background: "linear-gradient(135deg, #ef4444 0%, #dc2626 100%)",
		Border:     "#f87171",
		Shadow:     "0 8px 32px rgba(239, 68, 68, 0.3)",
	},
}

// LevelColors returns the palette for a warning level. Unknown levels render as MODERATE.
func LevelColors(level string) LevelStyle {
	if s, ok := levelStyles[level]; ok {
		return s
	}
	return levelStyles[models.LevelModerate]
}

// HealthBox is the summary box at the top of the dashboard.
type HealthBox struct {
	Level          string     `json:"level"`
	Score          float64    `json:"score"`
	Emoji          string     `json:"emoji"`
	IndexWarnings  int        `json:"index_warnings"`
	SectorWarnings int        `json:"sector_warnings"`
	Signals        []string   `json:"signals"`
	Style          LevelStyle `json:"style"`
}

// NewHealthBox renders the analysis summary.
func NewHealthBox(a models.Analysis) HealthBox {
	signals := a.WarningSignals
	if signals == nil {
		signals = []string{}
	}
	return HealthBox{
		Level:          a.WarningLevel,
		Score:          a.MarketHealthScore,
		Emoji:          a.Emoji,
		IndexWarnings:  a.IndexWarnings,
		SectorWarnings: a.SectorWarnings,
		Signals:        signals,
		Style:          LevelColors(a.WarningLevel),
	}
}
