package usecase

import (
	"context"
	"sync"
	"time"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
)

type fakeMarketRepo struct {
	mu      sync.Mutex
	entries []models.MarketDataEntry // chronological
	err     error
	calls   int
}

func (f *fakeMarketRepo) Recent(_ context.Context, limit int) ([]models.MarketDataEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.entries) <= limit {
		return append([]models.MarketDataEntry(nil), f.entries...), nil
	}
	return append([]models.MarketDataEntry(nil), f.entries[len(f.entries)-limit:]...), nil
}

func (f *fakeMarketRepo) Latest(context.Context) (*models.MarketDataEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.entries) == 0 {
		return nil, domrepo.ErrNotFound
	}
	e := f.entries[len(f.entries)-1]
	return &e, nil
}

func (f *fakeMarketRepo) SymbolHistory(_ context.Context, symbol string, limit int) ([]models.SymbolPoint, error) {
	return []models.SymbolPoint{{SymbolSnapshot: models.SymbolSnapshot{Symbol: symbol}}}, nil
}

func (f *fakeMarketRepo) push(e models.MarketDataEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
}

type fakeMetrics struct {
	mu          sync.Mutex
	evaluations map[string]int
	webhooks    map[string]int
	errors      map[string]int
	score       float64
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{evaluations: map[string]int{}, webhooks: map[string]int{}, errors: map[string]int{}}
}

func (m *fakeMetrics) RecordEvaluation(source string, _ time.Duration, _ map[string]int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluations[source]++
}

func (m *fakeMetrics) SetHealthScore(score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.score = score
}

func (m *fakeMetrics) RecordWebhook(action string, _ time.Duration, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.webhooks[action]++
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

// stressedResults fires high_yield_credit_stress (high) and
// overbought_with_warnings (medium).
func stressedResults() map[string]any {
	return map[string]any{
		"SPY": map[string]any{"price": 500.0, "stoch_14": 85.0, "above_ema": true, "overbought": true, "warning_count": 1},
		"HYG": map[string]any{"price": 75.0, "above_ema": false},
	}
}

func entry(id string, ts time.Time, results map[string]any) models.MarketDataEntry {
	return models.MarketDataEntry{
		ID:        id,
		Timestamp: ts,
		Analysis: models.Analysis{
			WarningLevel:      models.LevelModerate,
			MarketHealthScore: 62,
			IndexWarnings:     1,
			SectorWarnings:    3,
			DetailedResults:   results,
		},
	}
}
