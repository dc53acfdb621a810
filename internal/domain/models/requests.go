package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HistoryRequest leaves Limit at 0 when absent so the configured history
// length applies.
type HistoryRequest struct {
	Limit int `query:"limit" json:"limit" validate:"gte=0,lte=500"`
}

type SignalsRequest struct {
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}

// SymbolHistoryRequest.Symbol becomes part of a document path, so "." and
// "$" are rejected.
type SymbolHistoryRequest struct {
	Symbol string `param:"symbol" validate:"required,excludesall=.$"`
	Limit  int    `query:"limit" validate:"gte=0,lte=500"`
}

type EvaluateRequest struct {
	DetailedResults map[string]any `json:"detailed_results" validate:"required"`
}

type LynchRequest struct {
	Ticker string `json:"ticker" validate:"required"`
}

type HealthHistoryRequest struct {
	Limit int `query:"limit" json:"limit" default:"200" validate:"gte=1,lte=5000"`
}
