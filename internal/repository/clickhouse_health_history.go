package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
	pkgch "MarketDash/pkg/clickhouse"
	applogger "MarketDash/pkg/logger"
)

const healthTable = "market_health_history"

// HealthHistorySchema is the DDL for the health history table.
var HealthHistorySchema = []string{
	`CREATE TABLE IF NOT EXISTS ` + healthTable + ` (
		ts                DateTime64(3, 'UTC'),
		analysis_id       String,
		score             Float64,
		index_warnings    UInt16,
		sector_warnings   UInt16,
		warning_level     LowCardinality(String),
		divergence_high   UInt16,
		divergence_medium UInt16
	) ENGINE = ReplacingMergeTree
	ORDER BY (ts, analysis_id)
	TTL toDateTime(ts) + INTERVAL 1 YEAR`,
}

// CHHealthHistory implements HealthHistoryStore backed by ClickHouse.
type CHHealthHistory struct {
	db *sql.DB
	l  *applogger.Logger
}

var _ domrepo.HealthHistoryStore = (*CHHealthHistory)(nil)

func NewCHHealthHistory(ch *pkgch.Client, l *applogger.Logger) *CHHealthHistory {
	return &CHHealthHistory{db: ch.DB(), l: l}
}

func (s *CHHealthHistory) Init(ctx context.Context) error {
	for _, stmt := range HealthHistorySchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init %s: %w", healthTable, err)
		}
	}
	return nil
}

func (s *CHHealthHistory) Insert(ctx context.Context, p models.HealthPoint) error {
	q := `INSERT INTO ` + healthTable + ` (ts, analysis_id, score, index_warnings, sector_warnings, warning_level, divergence_high, divergence_medium) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		p.Timestamp.UTC(),
		p.AnalysisID,
		p.Score,
		uint16(p.IndexWarnings),
		uint16(p.SectorWarnings),
		p.WarningLevel,
		uint16(p.DivergenceHigh),
		uint16(p.DivergenceMedium),
	)
	if err != nil {
		return fmt.Errorf("insert health point: %w", err)
	}
	return nil
}

// Recent returns points newer than since, oldest first.
func (s *CHHealthHistory) Recent(ctx context.Context, since time.Time, limit int) ([]models.HealthPoint, error) {
	start := time.Now()
	const q = `
		SELECT ts, analysis_id, score, index_warnings, sector_warnings, warning_level, divergence_high, divergence_medium
		FROM (
			SELECT * FROM ` + healthTable + ` FINAL
			WHERE ts >= ?
			ORDER BY ts DESC
			LIMIT ?
		)
		ORDER BY ts ASC
	`
	rows, err := s.db.QueryContext(ctx, q, since.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("query health history: %w", err)
	}
	defer rows.Close()

	out := make([]models.HealthPoint, 0, limit)
	for rows.Next() {
		var (
			p                 models.HealthPoint
			idx, sec, hi, med uint16
		)
		if err := rows.Scan(&p.Timestamp, &p.AnalysisID, &p.Score, &idx, &sec, &p.WarningLevel, &hi, &med); err != nil {
			return nil, fmt.Errorf("scan health point: %w", err)
		}
		p.IndexWarnings, p.SectorWarnings = int(idx), int(sec)
		p.DivergenceHigh, p.DivergenceMedium = int(hi), int(med)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if s.l != nil {
		s.l.Debug("clickhouse health history",
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// Close is a no-op; the client owns the pool.
func (s *CHHealthHistory) Close() error { return nil }
