package models

// Position is one holdings record. Fields mirrors the stored document keys,
// including the ones with spaces, so the dashboard can consume it unchanged.
type Position struct {
	ID     string         `json:"id"`
	Fields PositionFields `json:"fields"`
}

type PositionFields struct {
	Ticker           string  `json:"Ticker"`
	Name             string  `json:"Name"`
	Portfolio        string  `json:"Portfolio"`
	CronWork         string  `json:"CronWork"`
	Shares           float64 `json:"Shares"`
	Price            float64 `json:"Price"`
	BuyDate          any     `json:"BuyDate"`
	Currency         string  `json:"Currency"`
	StopLoss         any     `json:"STOP LOSS"`
	StopWin          any     `json:"STOP WIN"`
	Status           string  `json:"Status"`
	Note             string  `json:"Note"`
	Formula          string  `json:"Formula"`
	LastModifiedTime any     `json:"Last modified time"`
	CurrentPrice     any     `json:"current_price"`
	TotalInvested    any     `json:"total_invested"`
	CurrentValue     any     `json:"current_value"`
	ProfitLoss       any     `json:"profit_loss"`
	PercentChange    any     `json:"percent_change"`
	StopStatus       string  `json:"stop_status"`
	AnalysisNote     string  `json:"analysis_note"`
	SubFormula       any     `json:"Sub Formula"`
}

// PortfolioSummary aggregates the positions of one portfolio.
type PortfolioSummary struct {
	Portfolio     string  `json:"portfolio"`
	Positions     int     `json:"positions"`
	TotalInvested float64 `json:"total_invested"`
	CurrentValue  float64 `json:"current_value"`
	ProfitLoss    float64 `json:"profit_loss"`
	PercentChange float64 `json:"percent_change"`
}
