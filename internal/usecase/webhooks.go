package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	domrepo "MarketDash/internal/domain/repository"
	domsvc "MarketDash/internal/domain/service"
	"MarketDash/internal/service/ratelimit"
	"MarketDash/internal/services/webhook"
	applogger "MarketDash/pkg/logger"
)

// WebhookURLs are the workflow engine endpoints. Empty URLs are unconfigured.
type WebhookURLs struct {
	MarketConditions string
	StockAnalysis    string
	LiveHoldings     string
	Lynch            string
	LynchToken       string
}

// RateLimit bounds how often one client may fire a trigger.
type RateLimit struct {
	Capacity     float64
	RefillPerSec float64
}

type Webhooks struct {
	client  domsvc.WebhookClient
	urls    WebhookURLs
	limiter *ratelimit.Limiter
	limit   RateLimit
	refresh domsvc.Refresher
	metrics domrepo.Metrics
	log     *applogger.Logger
}

func NewWebhooks(client domsvc.WebhookClient, urls WebhookURLs, limiter *ratelimit.Limiter, limit RateLimit, refresh domsvc.Refresher, metrics domrepo.Metrics, log *applogger.Logger) *Webhooks {
	if limiter == nil {
		limiter = ratelimit.New()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = applogger.Nop()
	}
	return &Webhooks{client: client, urls: urls, limiter: limiter, limit: limit, refresh: refresh, metrics: metrics, log: log}
}

// CheckMarket asks the workflow engine to re-run the market analysis and
// schedules a monitor refresh on success.
func (w *Webhooks) CheckMarket(ctx context.Context, caller string) (any, error) {
	out, err := w.trigger(ctx, caller, w.urls.MarketConditions, webhook.ActionCheckMarket)
	if err == nil && w.refresh != nil {
		w.refresh.Notify()
	}
	return out, err
}

// AnalyzeStocks asks the workflow engine to run the stock analysis.
func (w *Webhooks) AnalyzeStocks(ctx context.Context, caller string) (any, error) {
	return w.trigger(ctx, caller, w.urls.StockAnalysis, webhook.ActionAnalyzeStocks)
}

// SyncHoldings asks the workflow engine to refresh the live holdings.
func (w *Webhooks) SyncHoldings(ctx context.Context, caller string) (any, error) {
	const action = "sync_holdings"
	if w.urls.LiveHoldings == "" {
		return nil, ErrNotConfigured
	}
	if !w.allow(action, caller) {
		return nil, ErrRateLimited
	}
	return w.call(action, func() (any, error) {
		return w.client.Sync(ctx, w.urls.LiveHoldings)
	})
}

// LynchScore requests the Peter Lynch score of ticker.
func (w *Webhooks) LynchScore(ctx context.Context, ticker string) (any, error) {
	const action = "lynch_score"
	if strings.TrimSpace(ticker) == "" {
		return nil, ErrTickerRequired
	}
	if w.urls.Lynch == "" {
		return nil, ErrNotConfigured
	}
	return w.call(action, func() (any, error) {
		return w.client.Lynch(ctx, w.urls.Lynch, w.urls.LynchToken, ticker)
	})
}

func (w *Webhooks) trigger(ctx context.Context, caller, url, action string) (any, error) {
	if url == "" {
		return nil, ErrNotConfigured
	}
	if !w.allow(action, caller) {
		return nil, ErrRateLimited
	}
	return w.call(action, func() (any, error) {
		return w.client.Trigger(ctx, url, action)
	})
}

func (w *Webhooks) allow(action, caller string) bool {
	return w.limiter.Allow(action+":"+caller, w.limit.Capacity, w.limit.RefillPerSec)
}

func (w *Webhooks) call(action string, fn func() (any, error)) (any, error) {
	start := time.Now()
	out, err := fn()
	w.metrics.RecordWebhook(action, time.Since(start), err)
	if err != nil {
		w.log.Error("webhook failed", applogger.String("action", action), applogger.Error(err))
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	w.log.Info("webhook called", applogger.String("action", action), applogger.Duration("took", time.Since(start)))
	return out, nil
}
