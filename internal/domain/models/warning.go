package models

// Severity of a divergence warning.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Kind groups warnings by the market relationship they watch.
type Kind string

const (
	KindDivergence Kind = "divergence"
	KindCredit     Kind = "credit"
	KindSector     Kind = "sector"
	KindRotation   Kind = "rotation"
	KindTechnical  Kind = "technical"
	KindBreadth    Kind = "breadth"
)

// Pattern tags.
const (
	Pattern1929      = "1929"
	PatternTechnical = "technical"
)

// Warning is produced fresh on every evaluation and never mutated afterwards.
type Warning struct {
	Kind        Kind     `json:"type"`
	Severity    Severity `json:"severity"`
	Icon        string   `json:"icon"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Symbol      string   `json:"symbol"`
	Pattern     string   `json:"pattern"`
}
