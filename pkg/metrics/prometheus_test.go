package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			if g := m.GetGauge(); g != nil {
				return g.GetValue()
			}
			if h := m.GetHistogram(); h != nil {
				return float64(h.GetSampleCount())
			}
		}
	}
	return -1
}

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordEvaluation("monitor", time.Millisecond, map[string]int{"high": 2, "medium": 1})
	r.RecordEvaluation("api", time.Millisecond, map[string]int{"high": 1})
	r.SetHealthScore(42.5)
	r.RecordWebhook("check_market_conditions", time.Second, errors.New("down"))
	r.RecordError("mongo")

	if v := counterValue(t, reg, "marketdash_divergence_warnings_total", map[string]string{"severity": "high"}); v != 3 {
		t.Fatalf("high warnings = %v", v)
	}
	if v := counterValue(t, reg, "marketdash_market_health_score", nil); v != 42.5 {
		t.Fatalf("health score = %v", v)
	}
	if v := counterValue(t, reg, "marketdash_webhook_duration_seconds", map[string]string{"result": "error"}); v != 1 {
		t.Fatalf("webhook samples = %v", v)
	}
	if v := counterValue(t, reg, "marketdash_errors_total", map[string]string{"type": "mongo"}); v != 1 {
		t.Fatalf("errors = %v", v)
	}
}
