package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics using Prometheus.
type Recorder struct {
	evaluations *prometheus.HistogramVec
	warnings    *prometheus.CounterVec
	healthScore prometheus.Gauge
	webhooks    *prometheus.HistogramVec
	errorsTotal *prometheus.CounterVec
}

// New creates a recorder registered on reg, or on the default registry when
// reg is nil.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		evaluations: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketdash_divergence_evaluation_seconds",
				Help:    "Duration of divergence rule evaluations",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
			[]string{"source"},
		),
		warnings: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketdash_divergence_warnings_total",
				Help: "Divergence warnings produced, by severity",
			},
			[]string{"severity"},
		),
		healthScore: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "marketdash_market_health_score",
				Help: "Market health score of the latest analysis run",
			},
		),
		webhooks: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketdash_webhook_duration_seconds",
				Help:    "Duration of outbound workflow webhook calls",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"action", "result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketdash_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordEvaluation records one engine pass and the warnings it produced.
func (r *Recorder) RecordEvaluation(source string, d time.Duration, bySeverity map[string]int) {
	r.evaluations.WithLabelValues(source).Observe(d.Seconds())
	for sev, n := range bySeverity {
		r.warnings.WithLabelValues(sev).Add(float64(n))
	}
}

// SetHealthScore records the latest market health score.
func (r *Recorder) SetHealthScore(score float64) {
	r.healthScore.Set(score)
}

// RecordWebhook records a webhook call outcome.
func (r *Recorder) RecordWebhook(action string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.webhooks.WithLabelValues(action, result).Observe(d.Seconds())
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
