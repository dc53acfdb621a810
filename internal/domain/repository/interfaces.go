package repository

import (
	"context"
	"errors"
	"time"

	"MarketDash/internal/domain/models"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("not found")

// MarketDataRepository reads analysis runs written by the workflow engine.
type MarketDataRepository interface {
	// Recent returns the newest limit entries in chronological order.
	Recent(ctx context.Context, limit int) ([]models.MarketDataEntry, error)
	Latest(ctx context.Context) (*models.MarketDataEntry, error)
	// SymbolHistory returns one symbol's indicators over the newest limit runs,
	// oldest first.
	SymbolHistory(ctx context.Context, symbol string, limit int) ([]models.SymbolPoint, error)
}

type SignalRepository interface {
	// Recent returns the newest limit signals, newest first.
	Recent(ctx context.Context, limit int) ([]models.TradingSignal, error)
}

type HoldingsRepository interface {
	All(ctx context.Context) ([]models.Position, error)
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Credentials, error)
}

// AlertPublisher fans divergence alerts out to downstream consumers.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert models.Alert) error
	Close() error
}

// HealthHistoryStore keeps one row per evaluated analysis run.
type HealthHistoryStore interface {
	Init(ctx context.Context) error
	Insert(ctx context.Context, p models.HealthPoint) error
	Recent(ctx context.Context, since time.Time, limit int) ([]models.HealthPoint, error)
	Close() error
}

type Metrics interface {
	RecordEvaluation(source string, d time.Duration, bySeverity map[string]int)
	SetHealthScore(score float64)
	RecordWebhook(action string, d time.Duration, err error)
	RecordError(kind string)
}

// Broadcaster pushes monitor updates to connected live clients.
type Broadcaster interface {
	Broadcast(v any)
}
