// Package presentation turns evaluated market data into display-ready values:
// warning blocks, symbol cards, signal badges, relative times and charts.
package presentation

import (
	"strings"

	"MarketDash/internal/domain/models"
	"MarketDash/internal/services/divergence"
)

// Colors is the color triple of a warning block.
type Colors struct {
	Background string `json:"bg"`
	Border     string `json:"border"`
	Text       string `json:"text"`
}

// Block is one rendered divergence warning.
type Block struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	SeverityLabel string          `json:"severity_label"`
	Severity      models.Severity `json:"severity"`
	Symbol        string          `json:"symbol"`
	Pattern       string          `json:"pattern"`
	Colors        Colors          `json:"colors"`
}

var severityColors = map[models.Severity]Colors{
	models.SeverityHigh:   {Background: "rgba(239, 68, 68, 0.1)", Border: "#ef4444", Text: "#ef4444"},
	models.SeverityMedium: {Background: "rgba(245, 158, 11, 0.1)", Border: "#f59e0b", Text: "#f59e0b"},
	models.SeverityLow:    {Background: "rgba(59, 130, 246, 0.1)", Border: "#3b82f6", Text: "#3b82f6"},
}

// SeverityColors returns the palette for s; unknown severities use the low palette.
func SeverityColors(s models.Severity) Colors {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return severityColors[models.SeverityLow]
}

// Blocks renders ranked warnings in order. An empty input renders nothing (nil).
func Blocks(warnings []models.Warning) []Block {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]Block, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, Block{
			Title:         Title(w),
			Description:   w.Description,
			SeverityLabel: strings.ToUpper(string(w.Severity)),
			Severity:      w.Severity,
			Symbol:        w.Symbol,
			Pattern:       w.Pattern,
			Colors:        SeverityColors(w.Severity),
		})
	}
	return out
}

// Title joins the icon and title of w.
func Title(w models.Warning) string {
	if w.Icon == "" {
		return w.Title
	}
	return w.Icon + " " + w.Title
}

// Panel is the divergence section of the dashboard.
type Panel struct {
	Heading  string           `json:"heading"`
	Summary  string           `json:"summary"`
	Warnings []models.Warning `json:"warnings"`
	Blocks   []Block          `json:"blocks"`
}

// DivergencePanel evaluates results and wraps the ranked warnings for display.
// It returns nil when nothing fires.
func DivergencePanel(results map[string]any) *Panel {
	ws := divergence.EvaluateResults(results)
	if len(ws) == 0 {
		return nil
	}
	return &Panel{
		Heading:  "🔍 1929-Style Divergence Analysis",
		Summary:  "Detecting smart money positioning and market divergences similar to pre-1929 crash patterns",
		Warnings: ws,
		Blocks:   Blocks(ws),
	}
}
