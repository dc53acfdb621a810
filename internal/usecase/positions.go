package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
	"MarketDash/internal/services/presentation"
)

const activeCronWork = "On"

// PositionsDebug mirrors the counters the dashboard shows under the table.
type PositionsDebug struct {
	TotalRecords  int    `json:"totalRecords"`
	FilteredCount int    `json:"filteredCount"`
	Timestamp     string `json:"timestamp"`
}

type PositionsResult struct {
	Positions  []models.Position             `json:"data"`
	Portfolios []presentation.PortfolioGroup `json:"summary"`
	Debug      PositionsDebug                `json:"debug"`
}

type Positions struct {
	repo    domrepo.HoldingsRepository
	metrics domrepo.Metrics
	now     func() time.Time
}

// NewPositions accepts a nil repo when the holdings collection is not
// configured; Active then returns ErrNotConfigured.
func NewPositions(repo domrepo.HoldingsRepository, metrics domrepo.Metrics) *Positions {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Positions{repo: repo, metrics: metrics, now: time.Now}
}

// Active returns the holdings whose CronWork is exactly "On", ordered by
// portfolio then ticker, with per-portfolio totals.
func (p *Positions) Active(ctx context.Context) (*PositionsResult, error) {
	if p.repo == nil {
		return nil, ErrNotConfigured
	}

	all, err := p.repo.All(ctx)
	if err != nil {
		p.metrics.RecordError("positions")
		return nil, fmt.Errorf("load holdings: %w", err)
	}

	active := FilterActive(all)
	return &PositionsResult{
		Positions:  active,
		Portfolios: presentation.GroupPortfolios(active),
		Debug: PositionsDebug{
			TotalRecords:  len(all),
			FilteredCount: len(active),
			Timestamp:     p.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		},
	}, nil
}

// FilterActive keeps CronWork == "On" records sorted by portfolio then ticker,
// in English collation order, so "dividend" sorts before "Growth".
func FilterActive(all []models.Position) []models.Position {
	out := make([]models.Position, 0, len(all))
	for _, pos := range all {
		if pos.Fields.CronWork == activeCronWork {
			out = append(out, pos)
		}
	}
	col := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Fields, out[j].Fields
		if c := col.CompareString(a.Portfolio, b.Portfolio); c != 0 {
			return c < 0
		}
		return col.CompareString(a.Ticker, b.Ticker) < 0
	})
	return out
}
