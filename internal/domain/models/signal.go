package models

import "time"

// TradingSignal is a chart pattern detection stored by the analysis workflow.
type TradingSignal struct {
	ID        string    `json:"_id"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Signals   []string  `json:"signals"`
	Timestamp time.Time `json:"timestamp"`
}
