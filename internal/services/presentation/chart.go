package presentation

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"MarketDash/internal/domain/models"
)

// HealthSeries is the market health history laid out for charting.
type HealthSeries struct {
	Labels         []string  `json:"labels"`
	Score          []float64 `json:"score"`
	IndexWarnings  []int     `json:"index_warnings"`
	SectorWarnings []int     `json:"sector_warnings"`
}

// NewHealthSeries maps entries, which must be in chronological order.
func NewHealthSeries(entries []models.MarketDataEntry) HealthSeries {
	s := HealthSeries{
		Labels:         make([]string, 0, len(entries)),
		Score:          make([]float64, 0, len(entries)),
		IndexWarnings:  make([]int, 0, len(entries)),
		SectorWarnings: make([]int, 0, len(entries)),
	}
	for _, e := range entries {
		s.Labels = append(s.Labels, e.Timestamp.Format("Jan 2 15:04"))
		s.Score = append(s.Score, e.Analysis.MarketHealthScore)
		s.IndexWarnings = append(s.IndexWarnings, e.Analysis.IndexWarnings)
		s.SectorWarnings = append(s.SectorWarnings, e.Analysis.SectorWarnings)
	}
	return s
}

// HealthChart builds the line chart of score and warning counts.
func HealthChart(s HealthSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Market Health", BackgroundColor: "#0f172a"}),
		charts.WithTitleOpts(opts.Title{
			Title:      "Market Health Score Over Time",
			TitleStyle: &opts.TextStyle{Color: "#e2e8f0"},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30", TextStyle: &opts.TextStyle{Color: "#94a3b8"}}),
	)
	line.SetXAxis(s.Labels).
		AddSeries("Health Score", floatItems(s.Score), seriesColor("#10b981")...).
		AddSeries("Index Warnings", intItems(s.IndexWarnings), seriesColor("#f59e0b")...).
		AddSeries("Sector Warnings", intItems(s.SectorWarnings), seriesColor("#ef4444")...)
	return line
}

// RenderHealthChart writes the chart page as HTML.
func RenderHealthChart(w io.Writer, entries []models.MarketDataEntry) error {
	return HealthChart(NewHealthSeries(entries)).Render(w)
}

func seriesColor(c string) []charts.SeriesOpts {
	return []charts.SeriesOpts{
		charts.WithLineStyleOpts(opts.LineStyle{Color: c, Width: 2}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: c}),
	}
}

func floatItems(v []float64) []opts.LineData {
	out := make([]opts.LineData, len(v))
	for i, f := range v {
		out[i] = opts.LineData{Value: f}
	}
	return out
}

func intItems(v []int) []opts.LineData {
	out := make([]opts.LineData, len(v))
	for i, n := range v {
		out[i] = opts.LineData{Value: n}
	}
	return out
}
