package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
	"MarketDash/internal/services/divergence"
	"MarketDash/internal/services/presentation"
	"MarketDash/pkg/cache"
)

const (
	marketDataCachePrefix = "market-data"
	healthHistoryWindow   = 30 * 24 * time.Hour
)

// LatestView is the newest analysis run decorated for the dashboard.
type LatestView struct {
	Entry    *models.MarketDataEntry `json:"entry"`
	Health   presentation.HealthBox  `json:"health"`
	Cards    presentation.CardGroups `json:"cards"`
	Warnings []models.Warning        `json:"warnings"`
	Blocks   []presentation.Block    `json:"blocks"`
}

// DivergenceResult is one evaluation of a snapshot. Blocks is nil when no
// warning fired.
type DivergenceResult struct {
	AnalysisID string               `json:"analysis_id,omitempty"`
	Timestamp  *time.Time           `json:"timestamp,omitempty"`
	Warnings   []models.Warning     `json:"warnings"`
	Blocks     []presentation.Block `json:"blocks"`
	Counts     map[string]int       `json:"counts"`
}

type MarketDataOption func(*MarketData)

func WithMarketDataCache(c cache.Service, ttl time.Duration) MarketDataOption {
	return func(m *MarketData) {
		m.cache = c
		m.ttl = ttl
	}
}

func WithHealthHistory(store domrepo.HealthHistoryStore) MarketDataOption {
	return func(m *MarketData) { m.history = store }
}

func WithHistoryLimit(n int) MarketDataOption {
	return func(m *MarketData) {
		if n > 0 {
			m.historyLimit = n
		}
	}
}

type MarketData struct {
	repo         domrepo.MarketDataRepository
	engine       *divergence.Engine
	metrics      domrepo.Metrics
	cache        cache.Service
	ttl          time.Duration
	history      domrepo.HealthHistoryStore
	historyLimit int
	now          func() time.Time
}

func NewMarketData(repo domrepo.MarketDataRepository, engine *divergence.Engine, metrics domrepo.Metrics, opts ...MarketDataOption) *MarketData {
	if engine == nil {
		engine = divergence.NewEngine()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	m := &MarketData{
		repo:         repo,
		engine:       engine,
		metrics:      metrics,
		ttl:          30 * time.Second,
		historyLimit: 30,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// History returns the newest limit runs in chronological order. A non-positive
// limit uses the configured history length.
func (m *MarketData) History(ctx context.Context, limit int) ([]models.MarketDataEntry, error) {
	if limit <= 0 {
		limit = m.historyLimit
	}
	key := cache.Key(marketDataCachePrefix, "history", limit)
	entries, err := cache.Fetch(ctx, m.cache, key, m.ttl, func(ctx context.Context) ([]models.MarketDataEntry, error) {
		return m.repo.Recent(ctx, limit)
	})
	if err != nil {
		m.metrics.RecordError("market_data_history")
		return nil, fmt.Errorf("recent market data: %w", err)
	}
	if entries == nil {
		entries = []models.MarketDataEntry{}
	}
	return entries, nil
}

func (m *MarketData) latestEntry(ctx context.Context) (*models.MarketDataEntry, error) {
	key := cache.Key(marketDataCachePrefix, "latest")
	entry, err := cache.Fetch(ctx, m.cache, key, m.ttl, m.repo.Latest)
	if err != nil {
		if !errors.Is(err, domrepo.ErrNotFound) {
			m.metrics.RecordError("market_data_latest")
		}
		return nil, err
	}
	return entry, nil
}

// Latest returns the newest run with its cards, health box and warnings.
// It returns domrepo.ErrNotFound when nothing has been stored yet.
func (m *MarketData) Latest(ctx context.Context) (*LatestView, error) {
	entry, err := m.latestEntry(ctx)
	if err != nil {
		return nil, err
	}
	res := m.evaluate("latest", entry.Analysis.DetailedResults)
	return &LatestView{
		Entry:    entry,
		Health:   presentation.NewHealthBox(entry.Analysis),
		Cards:    presentation.SymbolCards(entry.Analysis.DetailedResults),
		Warnings: res.Warnings,
		Blocks:   res.Blocks,
	}, nil
}

// Divergence evaluates the newest stored run.
func (m *MarketData) Divergence(ctx context.Context) (*DivergenceResult, error) {
	entry, err := m.latestEntry(ctx)
	if err != nil {
		return nil, err
	}
	res := m.evaluate("stored", entry.Analysis.DetailedResults)
	res.AnalysisID = entry.ID
	ts := entry.Timestamp
	res.Timestamp = &ts
	return &res, nil
}

// Evaluate runs the rule battery over posted per-symbol results.
func (m *MarketData) Evaluate(results map[string]any) DivergenceResult {
	return m.evaluate("api", results)
}

func (m *MarketData) evaluate(source string, results map[string]any) DivergenceResult {
	start := m.now()
	warnings := m.engine.Evaluate(divergence.SnapshotFromResults(results))
	counts := severityCounts(warnings)
	m.metrics.RecordEvaluation(source, m.now().Sub(start), counts)

	if warnings == nil {
		warnings = []models.Warning{}
	}
	return DivergenceResult{
		Warnings: warnings,
		Blocks:   presentation.Blocks(warnings),
		Counts:   counts,
	}
}

// SymbolHistory returns one symbol's indicators across the newest limit runs.
func (m *MarketData) SymbolHistory(ctx context.Context, symbol string, limit int) ([]models.SymbolPoint, error) {
	if limit <= 0 {
		limit = m.historyLimit
	}
	key := cache.Key(marketDataCachePrefix, "symbol", symbol, limit)
	points, err := cache.Fetch(ctx, m.cache, key, m.ttl, func(ctx context.Context) ([]models.SymbolPoint, error) {
		return m.repo.SymbolHistory(ctx, symbol, limit)
	})
	if err != nil {
		m.metrics.RecordError("symbol_history")
		return nil, fmt.Errorf("symbol history %s: %w", symbol, err)
	}
	if points == nil {
		points = []models.SymbolPoint{}
	}
	return points, nil
}

// HealthHistory returns stored health points of the last 30 days, oldest
// first. It returns ErrNotConfigured when no history store is wired.
func (m *MarketData) HealthHistory(ctx context.Context, limit int) ([]models.HealthPoint, error) {
	if m.history == nil {
		return nil, ErrNotConfigured
	}
	points, err := m.history.Recent(ctx, m.now().Add(-healthHistoryWindow), limit)
	if err != nil {
		m.metrics.RecordError("health_history")
		return nil, fmt.Errorf("health history: %w", err)
	}
	if points == nil {
		points = []models.HealthPoint{}
	}
	return points, nil
}

// RenderChart writes the market health chart over the configured history.
func (m *MarketData) RenderChart(ctx context.Context, w io.Writer) error {
	entries, err := m.History(ctx, m.historyLimit)
	if err != nil {
		return err
	}
	return presentation.RenderHealthChart(w, entries)
}

// Invalidate drops cached market data after a new run was seen.
func (m *MarketData) Invalidate(ctx context.Context) error {
	if m.cache == nil {
		return nil
	}
	return m.cache.DeleteByPattern(ctx, cache.Pattern(marketDataCachePrefix))
}

func severityCounts(ws []models.Warning) map[string]int {
	counts := map[string]int{
		string(models.SeverityHigh):   0,
		string(models.SeverityMedium): 0,
		string(models.SeverityLow):    0,
	}
	for _, w := range ws {
		counts[string(w.Severity)]++
	}
	return counts
}

type nopMetrics struct{}

func (nopMetrics) RecordEvaluation(string, time.Duration, map[string]int) {}
func (nopMetrics) SetHealthScore(float64) {}
func (nopMetrics) RecordWebhook(string, time.Duration, error) {}
func (nopMetrics) RecordError(string) {}
