package models

import "time"

// Warning levels written by the analysis workflow.
const (
	LevelHealthy  = "HEALTHY"
	LevelModerate = "MODERATE"
	LevelDanger   = "DANGER"
)

// MarketDataEntry is one stored analysis run.
type MarketDataEntry struct {
	ID        string    `json:"_id"`
	Timestamp time.Time `json:"timestamp"`
	Analysis  Analysis  `json:"analysis"`
}

// Analysis holds the aggregate figures of a run. DetailedResults keeps the raw
// per-symbol records so they can be re-read with the indicator accessor.
type Analysis struct {
	WarningLevel      string         `json:"warning_level"`
	MarketHealthScore float64        `json:"market_health_score"`
	Emoji             string         `json:"emoji"`
	IndexWarnings     int            `json:"index_warnings"`
	SectorWarnings    int            `json:"sector_warnings"`
	WarningSignals    []string       `json:"warning_signals"`
	Timestamp         string         `json:"timestamp,omitempty"`
	DetailedResults   map[string]any `json:"detailed_results"`
}

// HealthPoint is one row of the market health history.
type HealthPoint struct {
	Timestamp        time.Time `json:"timestamp"`
	AnalysisID       string    `json:"analysis_id"`
	Score            float64   `json:"score"`
	IndexWarnings    int       `json:"index_warnings"`
	SectorWarnings   int       `json:"sector_warnings"`
	WarningLevel     string    `json:"warning_level"`
	DivergenceHigh   int       `json:"divergence_high"`
	DivergenceMedium int       `json:"divergence_medium"`
}

// SymbolPoint is one symbol's indicators at a point in time.
type SymbolPoint struct {
	Timestamp time.Time `json:"timestamp"`
	SymbolSnapshot
}

// Alert is emitted whenever a new analysis run has been evaluated.
type Alert struct {
	ID           string    `json:"id"`
	AnalysisID   string    `json:"analysis_id"`
	Timestamp    time.Time `json:"timestamp"`
	WarningLevel string    `json:"warning_level"`
	HealthScore  float64   `json:"market_health_score"`
	Warnings     []Warning `json:"warnings"`
}
