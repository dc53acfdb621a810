package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
)

// AlertPipeline sits between the divergence monitor and the alert broker.
// It validates and de-duplicates alerts, and buffers them while the broker
// is unavailable.
type AlertPipeline struct {
	next     domrepo.AlertPublisher
	metrics  domrepo.Metrics
	bufSize  int
	bufCh    chan models.Alert
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	seen     map[string]time.Time // analysis id -> first publish
	dedupTTL time.Duration
	now      func() time.Time
}

type PipelineOption func(*AlertPipeline)

// WithBufferSize sets how many alerts are kept while the broker is down.
func WithBufferSize(n int) PipelineOption {
	return func(p *AlertPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithDedupWindow sets how long an analysis id is remembered.
func WithDedupWindow(d time.Duration) PipelineOption {
	return func(p *AlertPipeline) {
		if d > 0 {
			p.dedupTTL = d
		}
	}
}

func NewAlertPipeline(next domrepo.AlertPublisher, metrics domrepo.Metrics, opts ...PipelineOption) *AlertPipeline {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	p := &AlertPipeline{
		next:     next,
		metrics:  metrics,
		bufSize:  256,
		seen:     make(map[string]time.Time),
		dedupTTL: 24 * time.Hour,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan models.Alert, p.bufSize)
	return p
}

var _ domrepo.AlertPublisher = (*AlertPipeline)(nil)

// Start launches background flushing of buffered alerts.
func (p *AlertPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	stop := make(chan struct{})
	p.stopCh = stop
	p.mu.Unlock()

	go func() {
		backoff := 100 * time.Millisecond
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case a := <-p.bufCh:
				if err := p.next.PublishAlert(ctx, a); err != nil {
					if backoff < 5*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("alert_flush")
					time.Sleep(backoff)
					select {
					case p.bufCh <- a:
					default:
						p.forget(a.AnalysisID)
						p.metrics.RecordError("alert_buffer_drop")
					}
				} else {
					backoff = 100 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing. The pipeline can be started again.
func (p *AlertPipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.started = false
	close(p.stopCh)
}

// PublishAlert forwards a to the broker. Alerts for an analysis id already
// published are dropped; a failed publish is buffered for retry and reported.
func (p *AlertPipeline) PublishAlert(ctx context.Context, a models.Alert) error {
	if err := validateAlert(a); err != nil {
		p.metrics.RecordError("alert_validate")
		return err
	}
	if !p.firstSeen(a.AnalysisID) {
		return nil
	}

	if err := p.next.PublishAlert(ctx, a); err != nil {
		select {
		case p.bufCh <- a:
		default:
			p.forget(a.AnalysisID)
			p.metrics.RecordError("alert_buffer_full")
		}
		return fmt.Errorf("alert downstream: %w", err)
	}
	return nil
}

// Buffered returns the number of alerts waiting for the broker.
func (p *AlertPipeline) Buffered() int { return len(p.bufCh) }

// Close stops flushing and closes the broker publisher.
func (p *AlertPipeline) Close() error {
	p.Stop()
	return p.next.Close()
}

func (p *AlertPipeline) firstSeen(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for k, t := range p.seen {
		if now.Sub(t) > p.dedupTTL {
			delete(p.seen, k)
		}
	}
	if _, ok := p.seen[id]; ok {
		return false
	}
	p.seen[id] = now
	return true
}

// forget lets a dropped alert's analysis id be published again.
func (p *AlertPipeline) forget(id string) {
	p.mu.Lock()
	delete(p.seen, id)
	p.mu.Unlock()
}

func validateAlert(a models.Alert) error {
	if a.AnalysisID == "" {
		return fmt.Errorf("alert analysis id empty")
	}
	if len(a.Warnings) == 0 {
		return fmt.Errorf("alert without warnings")
	}
	return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordEvaluation(string, time.Duration, map[string]int) {}
func (nopMetrics) SetHealthScore(float64) {}
func (nopMetrics) RecordWebhook(string, time.Duration, error) {}
func (nopMetrics) RecordError(string) {}
