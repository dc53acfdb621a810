package usecase

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	domrepo "MarketDash/internal/domain/repository"
	"MarketDash/internal/services/presentation"
)

// DashboardView aggregates everything the main page renders. Latest is nil
// before the first analysis run; Positions is nil when holdings are not
// configured.
type DashboardView struct {
	Latest    *LatestView                `json:"latest"`
	Signals   []presentation.SignalCard  `json:"signals"`
	Positions *PositionsResult           `json:"positions"`
	Chart     *presentation.HealthSeries `json:"chart,omitempty"`
}

type Dashboard struct {
	market    *MarketData
	signals   *Signals
	positions *Positions
}

func NewDashboard(market *MarketData, signals *Signals, positions *Positions) *Dashboard {
	return &Dashboard{market: market, signals: signals, positions: positions}
}

// Load fetches the latest run, signals, positions and the health history
// concurrently. The first hard failure cancels the rest.
func (d *Dashboard) Load(ctx context.Context) (*DashboardView, error) {
	var view DashboardView
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		latest, err := d.market.Latest(ctx)
		if errors.Is(err, domrepo.ErrNotFound) {
			return nil
		}
		view.Latest = latest
		return err
	})
	g.Go(func() error {
		entries, err := d.market.History(ctx, 0)
		if err != nil {
			return err
		}
		series := presentation.NewHealthSeries(entries)
		view.Chart = &series
		return nil
	})
	g.Go(func() error {
		cards, err := d.signals.Recent(ctx, 0)
		if errors.Is(err, ErrNotConfigured) {
			return nil
		}
		view.Signals = cards
		return err
	})
	g.Go(func() error {
		res, err := d.positions.Active(ctx)
		if errors.Is(err, ErrNotConfigured) {
			return nil
		}
		view.Positions = res
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &view, nil
}
