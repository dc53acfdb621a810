package divergence

import (
	"sort"

	"MarketDash/internal/domain/models"
)

// SeverityRank orders severities for display; unknown values sort last.
func SeverityRank(s models.Severity) int {
	switch s {
	case models.SeverityHigh:
		return 0
	case models.SeverityMedium:
		return 1
	case models.SeverityLow:
		return 2
	default:
		return 3
	}
}

// Rank returns a copy of warnings stably sorted by severity. Ties keep their
// evaluation order.
func Rank(warnings []models.Warning) []models.Warning {
	out := make([]models.Warning, len(warnings))
	copy(out, warnings)
	sort.SliceStable(out, func(i, j int) bool {
		return SeverityRank(out[i].Severity) < SeverityRank(out[j].Severity)
	})
	return out
}
