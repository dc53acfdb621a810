package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecodeMarketData(t *testing.T) {
	oid := primitive.NewObjectID()
	when := time.Date(2025, 5, 2, 14, 0, 0, 0, time.UTC)
	doc := bson.M{
		"_id":       oid,
		"timestamp": primitive.NewDateTimeFromTime(when),
		"analysis": bson.M{
			"warning_level":       "DANGER",
			"market_health_score": bson.M{"$numberDouble": "38.5"},
			"emoji":               "🔴",
			"index_warnings":      int32(3),
			"sector_warnings":     bson.M{"$numberInt": "5"},
			"warning_signals":     bson.A{"SPY below EMA", "VIX rising"},
			"detailed_results": bson.M{
				"^VIX": bson.M{"price": 24.1},
			},
		},
	}

	e := decodeMarketData(doc)
	if e.ID != oid.Hex() || !e.Timestamp.Equal(when) {
		t.Fatalf("id/timestamp not decoded: %+v", e)
	}
	a := e.Analysis
	if a.WarningLevel != "DANGER" || a.MarketHealthScore != 38.5 || a.IndexWarnings != 3 || a.SectorWarnings != 5 {
		t.Fatalf("analysis not decoded: %+v", a)
	}
	if len(a.WarningSignals) != 2 || a.WarningSignals[1] != "VIX rising" {
		t.Fatalf("warning signals: %v", a.WarningSignals)
	}
	if _, ok := a.DetailedResults["^VIX"].(map[string]any); !ok {
		t.Fatalf("detailed results should hold plain maps: %T", a.DetailedResults["^VIX"])
	}
}

func TestDecodeMarketDataMissingAnalysis(t *testing.T) {
	e := decodeMarketData(bson.M{"_id": "x", "timestamp": "2025-01-01T00:00:00Z"})
	if e.ID != "x" || e.Timestamp.IsZero() {
		t.Fatalf("unexpected entry %+v", e)
	}
	if e.Analysis.DetailedResults != nil || len(e.Analysis.WarningSignals) != 0 {
		t.Fatalf("empty analysis expected: %+v", e.Analysis)
	}
}

func TestDecodePositionUnboxesNumbers(t *testing.T) {
	p := decodePosition(bson.M{
		"_id":       "rec1",
		"Ticker":    "AAPL",
		"Portfolio": "Growth",
		"CronWork":  "On",
		"Shares":    bson.M{"$numberInt": "10"},
		"Price":     bson.M{"$numberDouble": "150.5"},
		"STOP LOSS": "140,5",
	})
	if p.ID != "rec1" || p.Fields.Shares != 10 || p.Fields.Price != 150.5 {
		t.Fatalf("numbers not unboxed: %+v", p)
	}
	if p.Fields.StopLoss != "140,5" {
		t.Fatalf("stop loss should pass through: %v", p.Fields.StopLoss)
	}
}

func TestDecodeCredentialsClientID(t *testing.T) {
	oid := primitive.NewObjectID()
	c := decodeCredentials(bson.M{"email": "a@b.c", "password": "pw", "role": "admin", "clientId": oid})
	if c.ClientID != oid.Hex() || c.Password != "pw" || c.Role != "admin" {
		t.Fatalf("unexpected credentials %+v", c)
	}

	c = decodeCredentials(bson.M{"email": "a@b.c", "clientId": bson.M{"$oid": "65f0"}})
	if c.ClientID != "65f0" {
		t.Fatalf("extended json $oid not unwrapped: %q", c.ClientID)
	}
}

func TestDecodeSignal(t *testing.T) {
	s := decodeSignal(bson.M{
		"symbol":    "NVDA",
		"price":     bson.M{"$numberDouble": "812.3"},
		"signals":   bson.A{"golden_cross", "breakout"},
		"timestamp": "2025-02-01T10:00:00Z",
	})
	if s.Symbol != "NVDA" || s.Price != 812.3 || len(s.Signals) != 2 || s.Timestamp.IsZero() {
		t.Fatalf("unexpected signal %+v", s)
	}
}
