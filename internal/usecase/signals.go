package usecase

import (
	"context"
	"fmt"
	"time"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
	"MarketDash/internal/services/presentation"
	"MarketDash/pkg/cache"
)

const signalsCachePrefix = "trading-signals"

type Signals struct {
	repo    domrepo.SignalRepository
	cache   cache.Service
	ttl     time.Duration
	limit   int
	metrics domrepo.Metrics
	now     func() time.Time
}

func NewSignals(repo domrepo.SignalRepository, c cache.Service, ttl time.Duration, limit int, metrics domrepo.Metrics) *Signals {
	if limit <= 0 {
		limit = 50
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Signals{repo: repo, cache: c, ttl: ttl, limit: limit, metrics: metrics, now: time.Now}
}

// Recent returns the newest signals, newest first, with badges and relative
// times computed at call time so cached rows never carry stale labels.
func (s *Signals) Recent(ctx context.Context, limit int) ([]presentation.SignalCard, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = s.limit
	}
	key := cache.Key(signalsCachePrefix, limit)
	rows, err := cache.Fetch(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]models.TradingSignal, error) {
		return s.repo.Recent(ctx, limit)
	})
	if err != nil {
		s.metrics.RecordError("trading_signals")
		return nil, fmt.Errorf("recent signals: %w", err)
	}
	return presentation.SignalCards(rows, s.now()), nil
}
