// Package divergence evaluates cross-asset divergence heuristics over one
// market snapshot. Evaluation is pure: the same snapshot always yields the
// same ordered warnings and nothing is retained between calls.
package divergence

import "MarketDash/internal/domain/models"

// Engine runs an ordered rule battery.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine over rules, or over DefaultRules when none are given.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Apply returns the warnings of every matching rule in rule order.
// Rules whose required symbols are absent are skipped.
func (e *Engine) Apply(snap models.MarketSnapshot) []models.Warning {
	out := make([]models.Warning, 0, 4)
	for _, r := range e.rules {
		if r.applies(snap) {
			out = append(out, r.warning(snap))
		}
	}
	return out
}

// Evaluate is Apply followed by Rank.
func (e *Engine) Evaluate(snap models.MarketSnapshot) []models.Warning {
	return Rank(e.Apply(snap))
}

// RuleNames lists the configured rules in evaluation order.
func (e *Engine) RuleNames() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

var defaultEngine = NewEngine()

// Evaluate runs the built-in rules over snap and ranks the result.
func Evaluate(snap models.MarketSnapshot) []models.Warning {
	return defaultEngine.Evaluate(snap)
}

// EvaluateResults decodes a raw detailed_results map and evaluates it.
func EvaluateResults(results map[string]any) []models.Warning {
	return Evaluate(SnapshotFromResults(results))
}
