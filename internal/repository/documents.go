package repository

import (
	"MarketDash/internal/domain/models"
	"MarketDash/pkg/extjson"
	pkgmongo "MarketDash/pkg/mongo"
)

// Stored documents are decoded as loose maps because the workflow engine
// writes numbers in several encodings and adds fields over time.

func decodeMarketData(raw map[string]any) models.MarketDataEntry {
	doc := pkgmongo.PlainMap(raw)
	e := models.MarketDataEntry{
		ID:        pkgmongo.IDString(doc["_id"]),
		Timestamp: pkgmongo.Time(doc["timestamp"]),
	}

	a, _ := doc["analysis"].(map[string]any)
	e.Analysis = models.Analysis{
		WarningLevel:      extjson.String(a["warning_level"]),
		MarketHealthScore: extjson.Number(a["market_health_score"]),
		Emoji:             extjson.String(a["emoji"]),
		IndexWarnings:     extjson.Count(a["index_warnings"]),
		SectorWarnings:    extjson.Count(a["sector_warnings"]),
		WarningSignals:    stringSlice(a["warning_signals"]),
		Timestamp:         extjson.String(a["timestamp"]),
	}
	if results, ok := a["detailed_results"].(map[string]any); ok {
		e.Analysis.DetailedResults = results
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = pkgmongo.Time(a["timestamp"])
	}
	return e
}

func decodeSignal(raw map[string]any) models.TradingSignal {
	doc := pkgmongo.PlainMap(raw)
	return models.TradingSignal{
		ID:        pkgmongo.IDString(doc["_id"]),
		Symbol:    extjson.String(doc["symbol"]),
		Price:     extjson.Number(doc["price"]),
		Signals:   stringSlice(doc["signals"]),
		Timestamp: pkgmongo.Time(doc["timestamp"]),
	}
}

func decodePosition(raw map[string]any) models.Position {
	doc := pkgmongo.PlainMap(raw)
	return models.Position{
		ID: pkgmongo.IDString(doc["_id"]),
		Fields: models.PositionFields{
			Ticker:           extjson.String(doc["Ticker"]),
			Name:             extjson.String(doc["Name"]),
			Portfolio:        extjson.String(doc["Portfolio"]),
			CronWork:         extjson.String(doc["CronWork"]),
			Shares:           extjson.Number(doc["Shares"]),
			Price:            extjson.Number(doc["Price"]),
			BuyDate:          doc["BuyDate"],
			Currency:         extjson.String(doc["Currency"]),
			StopLoss:         doc["STOP LOSS"],
			StopWin:          doc["STOP WIN"],
			Status:           extjson.String(doc["Status"]),
			Note:             extjson.String(doc["Note"]),
			Formula:          extjson.String(doc["Formula"]),
			LastModifiedTime: doc["Last modified time"],
			CurrentPrice:     doc["current_price"],
			TotalInvested:    doc["total_invested"],
			CurrentValue:     doc["current_value"],
			ProfitLoss:       doc["profit_loss"],
			PercentChange:    doc["percent_change"],
			StopStatus:       extjson.String(doc["stop_status"]),
			AnalysisNote:     extjson.String(doc["analysis_note"]),
			SubFormula:       doc["Sub Formula"],
		},
	}
}

func decodeCredentials(raw map[string]any) models.Credentials {
	doc := pkgmongo.PlainMap(raw)
	clientID := doc["clientId"]
	if m, ok := clientID.(map[string]any); ok {
		clientID = m["$oid"]
	}
	return models.Credentials{
		User: models.User{
			Email:    extjson.String(doc["email"]),
			Role:     extjson.String(doc["role"]),
			ClientID: pkgmongo.IDString(clientID),
		},
		Password: extjson.String(doc["password"]),
	}
}

func stringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, s := range arr {
		out = append(out, extjson.String(s))
	}
	return out
}
