package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"MarketDash/internal/domain/models"
)

type fakePublisher struct {
	mu     sync.Mutex
	fail   bool
	alerts []models.Alert
	closed bool
}

func (f *fakePublisher) PublishAlert(_ context.Context, a models.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broker down")
	}
	f.alerts = append(f.alerts, a)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

type countingMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func (m *countingMetrics) RecordEvaluation(string, time.Duration, map[string]int) {}
func (m *countingMetrics) SetHealthScore(float64) {}
func (m *countingMetrics) RecordWebhook(string, time.Duration, error) {}
func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errors == nil {
		m.errors = map[string]int{}
	}
	m.errors[kind]++
}

func alert(id string) models.Alert {
	return models.Alert{
		ID:         "a-" + id,
		AnalysisID: id,
		Warnings:   []models.Warning{{Kind: models.KindCredit, Severity: models.SeverityHigh}},
	}
}

func TestAlertPipelineDeduplicates(t *testing.T) {
	pub := &fakePublisher{}
	p := NewAlertPipeline(pub, &countingMetrics{})

	for i := 0; i < 3; i++ {
		if err := p.PublishAlert(context.Background(), alert("run-1")); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	if err := p.PublishAlert(context.Background(), alert("run-2")); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if pub.count() != 2 {
		t.Fatalf("expected 2 forwarded alerts, got %d", pub.count())
	}
}

func TestAlertPipelineValidates(t *testing.T) {
	m := &countingMetrics{}
	p := NewAlertPipeline(&fakePublisher{}, m)
	if err := p.PublishAlert(context.Background(), models.Alert{AnalysisID: "x"}); err == nil {
		t.Fatalf("alert without warnings must be rejected")
	}
	if err := p.PublishAlert(context.Background(), models.Alert{Warnings: alert("x").Warnings}); err == nil {
		t.Fatalf("alert without analysis id must be rejected")
	}
	if m.errors["alert_validate"] != 2 {
		t.Fatalf("validation errors not recorded: %v", m.errors)
	}
}

func TestAlertPipelineBuffersAndFlushes(t *testing.T) {
	pub := &fakePublisher{fail: true}
	p := NewAlertPipeline(pub, &countingMetrics{}, WithBufferSize(4))

	if err := p.PublishAlert(context.Background(), alert("run-1")); err == nil {
		t.Fatalf("expected downstream error")
	}
	if p.Buffered() != 1 {
		t.Fatalf("expected 1 buffered alert, got %d", p.Buffered())
	}

	pub.mu.Lock()
	pub.fail = false
	pub.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for pub.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if pub.count() != 1 {
		t.Fatalf("buffered alert not flushed")
	}
}

func TestAlertPipelineClose(t *testing.T) {
	pub := &fakePublisher{}
	p := NewAlertPipeline(pub, &countingMetrics{})
	p.Start(context.Background())
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !pub.closed {
		t.Fatalf("downstream not closed")
	}
}

func TestAlertPipelineForgetsDroppedAlert(t *testing.T) {
	pub := &fakePublisher{fail: true}
	m := &countingMetrics{}
	p := NewAlertPipeline(pub, m, WithBufferSize(1))

	_ = p.PublishAlert(context.Background(), alert("run-1"))
	_ = p.PublishAlert(context.Background(), alert("run-2"))
	if p.Buffered() != 1 || m.errors["alert_buffer_full"] != 1 {
		t.Fatalf("expected run-2 dropped on a full buffer, buffered=%d errors=%v", p.Buffered(), m.errors)
	}

	pub.mu.Lock()
	pub.fail = false
	pub.mu.Unlock()

	if err := p.PublishAlert(context.Background(), alert("run-2")); err != nil {
		t.Fatalf("republish: %v", err)
	}
	if pub.count() != 1 {
		t.Fatalf("dropped run must be publishable again, got %d alerts", pub.count())
	}
}

func TestAlertPipelineRestart(t *testing.T) {
	p := NewAlertPipeline(&fakePublisher{}, nil)
	ctx := context.Background()

	p.Start(ctx)
	p.Stop()
	p.Start(ctx)
	p.Stop()
	p.Stop()
}
