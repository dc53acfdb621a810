package presentation

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"MarketDash/internal/domain/models"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e2e8f0")).
			MarginBottom(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748b"))
)

func severityStyle(s models.Severity) lipgloss.Style {
	c := SeverityColors(s)
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(c.Border)).
		Padding(0, 1).
		Width(80)
}

func badgeStyle(s models.Severity) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(SeverityColors(s).Border)).
		Padding(0, 1)
}

// TerminalBlocks renders warnings as bordered boxes for a terminal. An empty
// list renders a single muted line.
func TerminalBlocks(warnings []models.Warning) string {
	blocks := Blocks(warnings)
	if len(blocks) == 0 {
		return mutedStyle.Render("No divergence warnings")
	}
	var b strings.Builder
	b.WriteString(headingStyle.Render("🔍 1929-Style Divergence Analysis"))
	b.WriteString("\n")
	for i, blk := range blocks {
		title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(blk.Colors.Text)).Render(blk.Title)
		header := fmt.Sprintf("%s  %s %s", title, badgeStyle(blk.Severity).Render(blk.SeverityLabel), mutedStyle.Render(blk.Symbol))
		b.WriteString(severityStyle(blk.Severity).Render(header + "\n" + blk.Description))
		if i < len(blocks)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// WarningTable renders warnings as a plain table.
func WarningTable(warnings []models.Warning) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Severity", "Title", "Symbol", "Description"})
	for i, w := range warnings {
		t.AppendRow(table.Row{i + 1, strings.ToUpper(string(w.Severity)), Title(w), w.Symbol, w.Description})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(warnings)})
	return t.Render()
}

// CardTable renders the symbol tiles of one section.
func CardTable(title string, cards []Card) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Symbol", "Name", "Price", "Stoch 14", "Warnings", "Above EMA", "Overbought"})
	for _, c := range cards {
		t.AppendRow(table.Row{
			c.Symbol,
			c.Name,
			fmt.Sprintf("$%.2f", c.Price),
			fmt.Sprintf("%.1f", c.Stochastic14),
			c.WarningCount,
			check(c.AboveEMA, "✓", "✗"),
			check(c.Overbought, "⚠", "✓"),
		})
	}
	return t.Render()
}

func check(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}
