package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
	"MarketDash/internal/services/divergence"
	"MarketDash/internal/services/presentation"
	applogger "MarketDash/pkg/logger"
)

// MonitorUpdate is the evaluation of one analysis run, as pushed to live
// clients.
type MonitorUpdate struct {
	AnalysisID   string               `json:"analysis_id"`
	Timestamp    time.Time            `json:"timestamp"`
	WarningLevel string               `json:"warning_level"`
	HealthScore  float64              `json:"market_health_score"`
	Emoji        string               `json:"emoji,omitempty"`
	Warnings     []models.Warning     `json:"warnings"`
	Blocks       []presentation.Block `json:"blocks"`
	Counts       map[string]int       `json:"counts"`
	EvaluatedAt  time.Time            `json:"evaluated_at"`
}

// LiveMessage wraps a MonitorUpdate for the websocket stream.
type LiveMessage struct {
	Type string         `json:"type"`
	Data *MonitorUpdate `json:"data"`
}

type MonitorOption func(*DivergenceMonitor)

func WithMonitorInterval(d time.Duration) MonitorOption {
	return func(m *DivergenceMonitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

func WithAlertPublisher(p domrepo.AlertPublisher) MonitorOption {
	return func(m *DivergenceMonitor) { m.publisher = p }
}

func WithHistoryStore(s domrepo.HealthHistoryStore) MonitorOption {
	return func(m *DivergenceMonitor) { m.history = s }
}

func WithBroadcaster(b domrepo.Broadcaster) MonitorOption {
	return func(m *DivergenceMonitor) { m.hub = b }
}

// WithOnChange registers a hook run when a new analysis run is seen, before
// it is evaluated.
func WithOnChange(fn func(context.Context) error) MonitorOption {
	return func(m *DivergenceMonitor) { m.onChange = fn }
}

// DivergenceMonitor polls the newest analysis run and evaluates it once per
// run. Concurrent refreshes are coalesced.
type DivergenceMonitor struct {
	repo      domrepo.MarketDataRepository
	engine    *divergence.Engine
	metrics   domrepo.Metrics
	log       *applogger.Logger
	publisher domrepo.AlertPublisher
	history   domrepo.HealthHistoryStore
	hub       domrepo.Broadcaster
	onChange  func(context.Context) error
	interval  time.Duration
	now       func() time.Time

	mu     sync.Mutex
	lastID string
	last   *MonitorUpdate

	busy     chan struct{}
	notify   chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewDivergenceMonitor(repo domrepo.MarketDataRepository, engine *divergence.Engine, metrics domrepo.Metrics, log *applogger.Logger, opts ...MonitorOption) *DivergenceMonitor {
	if engine == nil {
		engine = divergence.NewEngine()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = applogger.Nop()
	}
	m := &DivergenceMonitor{
		repo:     repo,
		engine:   engine,
		metrics:  metrics,
		log:      log,
		interval: time.Minute,
		now:      time.Now,
		busy:     make(chan struct{}, 1),
		notify:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start runs a first refresh and then polls every interval until Stop or ctx
// is done.
func (m *DivergenceMonitor) Start(ctx context.Context) error {
	ctx, m.cancel = context.WithCancel(ctx)

	if _, _, err := m.Refresh(ctx); err != nil {
		m.log.Warn("initial divergence refresh failed", applogger.Error(err))
	}

	m.wg.Add(1)
	go m.loop(ctx)
	m.log.Info("divergence monitor started", applogger.Duration("interval", m.interval))
	return nil
}

func (m *DivergenceMonitor) loop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-m.notify:
		}
		if _, _, err := m.Refresh(ctx); err != nil && ctx.Err() == nil {
			m.log.Error("divergence refresh failed", applogger.Error(err))
		}
	}
}

// Notify schedules a refresh without waiting for it.
func (m *DivergenceMonitor) Notify() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Refresh reads the newest run and evaluates it when it has not been seen yet.
// It reports whether a new evaluation happened. A refresh that overlaps one
// in flight returns the last update unchanged and schedules another pass.
func (m *DivergenceMonitor) Refresh(ctx context.Context) (*MonitorUpdate, bool, error) {
	select {
	case m.busy <- struct{}{}:
		defer func() { <-m.busy }()
	default:
		m.Notify()
		return m.Last(), false, nil
	}

	entry, err := m.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return nil, false, nil
		}
		m.metrics.RecordError("monitor_latest")
		return nil, false, fmt.Errorf("latest analysis: %w", err)
	}

	id := runKey(entry)
	m.mu.Lock()
	if id == m.lastID {
		last := m.last
		m.mu.Unlock()
		return last, false, nil
	}
	m.mu.Unlock()

	if m.onChange != nil {
		if err := m.onChange(ctx); err != nil {
			m.log.Warn("divergence change hook failed", applogger.Error(err))
		}
	}

	update := m.evaluate(entry)

	m.mu.Lock()
	m.lastID = id
	m.last = update
	m.mu.Unlock()

	m.fanOut(ctx, entry, update)
	return update, true, nil
}

// Last returns the most recent evaluation, or nil before the first one.
func (m *DivergenceMonitor) Last() *MonitorUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *DivergenceMonitor) evaluate(entry *models.MarketDataEntry) *MonitorUpdate {
	start := m.now()
	warnings := m.engine.Evaluate(divergence.SnapshotFromResults(entry.Analysis.DetailedResults))
	counts := severityCounts(warnings)
	m.metrics.RecordEvaluation("monitor", m.now().Sub(start), counts)
	m.metrics.SetHealthScore(entry.Analysis.MarketHealthScore)

	if warnings == nil {
		warnings = []models.Warning{}
	}
	return &MonitorUpdate{
		AnalysisID:   entry.ID,
		Timestamp:    entry.Timestamp,
		WarningLevel: entry.Analysis.WarningLevel,
		HealthScore:  entry.Analysis.MarketHealthScore,
		Emoji:        entry.Analysis.Emoji,
		Warnings:     warnings,
		Blocks:       presentation.Blocks(warnings),
		Counts:       counts,
		EvaluatedAt:  m.now(),
	}
}

func (m *DivergenceMonitor) fanOut(ctx context.Context, entry *models.MarketDataEntry, u *MonitorUpdate) {
	m.log.Info("analysis run evaluated",
		applogger.String("analysis_id", u.AnalysisID),
		applogger.String("level", u.WarningLevel),
		applogger.Int("warnings", len(u.Warnings)),
	)

	if m.hub != nil {
		m.hub.Broadcast(LiveMessage{Type: "divergence", Data: u})
	}

	if m.history != nil {
		err := m.history.Insert(ctx, models.HealthPoint{
			Timestamp:        entry.Timestamp,
			AnalysisID:       entry.ID,
			Score:            entry.Analysis.MarketHealthScore,
			IndexWarnings:    entry.Analysis.IndexWarnings,
			SectorWarnings:   entry.Analysis.SectorWarnings,
			WarningLevel:     entry.Analysis.WarningLevel,
			DivergenceHigh:   u.Counts[string(models.SeverityHigh)],
			DivergenceMedium: u.Counts[string(models.SeverityMedium)],
		})
		if err != nil {
			m.metrics.RecordError("health_history_insert")
			m.log.Error("health history insert failed", applogger.String("analysis_id", entry.ID), applogger.Error(err))
		}
	}

	if m.publisher != nil && len(u.Warnings) > 0 {
		err := m.publisher.PublishAlert(ctx, models.Alert{
			ID:           uuid.NewString(),
			AnalysisID:   entry.ID,
			Timestamp:    u.EvaluatedAt,
			WarningLevel: u.WarningLevel,
			HealthScore:  u.HealthScore,
			Warnings:     u.Warnings,
		})
		if err != nil {
			m.metrics.RecordError("alert_publish")
			m.log.Error("alert publish failed", applogger.String("analysis_id", entry.ID), applogger.Error(err))
		}
	}
}

// Stop ends polling and waits for the loop to exit.
func (m *DivergenceMonitor) Stop(ctx context.Context) error {
	var err error
	m.stopOnce.Do(func() {
		if m.cancel != nil {
			m.cancel()
		}
		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			err = fmt.Errorf("timeout waiting for divergence monitor: %w", ctx.Err())
		}
	})
	return err
}

// runKey identifies a run by id, falling back to its timestamp.
func runKey(e *models.MarketDataEntry) string {
	if e.ID != "" {
		return e.ID
	}
	return e.Timestamp.UTC().Format(time.RFC3339Nano)
}
