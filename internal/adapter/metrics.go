package adapter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

// Generation request kinds and results used as metric labels.
const (
	KindDeclaration = "declaration"
	KindMutation    = "mutation"
	ResultOK        = "ok"
	ResultError     = "error"
)

// Metrics records what a run did.
type Metrics interface {
	GenerationRequest(kind, result string)
	Measurement(snapshot m.CoverageSnapshot)
	ImpactedDeclarations(count int)
	RunFinished(status m.Status, elapsed time.Duration)
	// WriteTextfile dumps the collected metrics in Prometheus text format.
	WriteTextfile(path string) error
}

// PrometheusMetrics keeps its collectors on a private registry so that
// several runs in one process do not share counters.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	generations  *prometheus.CounterVec
	measurements *prometheus.CounterVec
	coverage     prometheus.Gauge
	impacted     prometheus.Gauge
	runs         *prometheus.CounterVec
	duration     prometheus.Histogram
}

// NewPrometheusMetrics registers the suitesync collectors on a new registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		registry: reg,
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suitesync",
			Name:      "generation_requests_total",
			Help:      "Test generation requests by kind and result.",
		}, []string{"kind", "result"}),
		measurements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suitesync",
			Name:      "coverage_measurements_total",
			Help:      "Coverage measurements by whether a report was produced.",
		}, []string{"success"}),
		coverage: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "suitesync",
			Name:      "coverage_percent",
			Help:      "Line coverage of the latest measurement.",
		}),
		impacted: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "suitesync",
			Name:      "impacted_declarations",
			Help:      "Declarations impacted in the latest run.",
		}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suitesync",
			Name:      "runs_total",
			Help:      "Completed runs by terminal status.",
		}, []string{"status"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "suitesync",
			Name:      "run_duration_seconds",
			Help:      "Wall time of completed runs.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}

// Registry exposes the underlying registry.
func (p *PrometheusMetrics) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusMetrics) GenerationRequest(kind, result string) {
	p.generations.WithLabelValues(kind, result).Inc()
}

func (p *PrometheusMetrics) Measurement(snapshot m.CoverageSnapshot) {
	success := "false"
	if snapshot.Success {
		success = "true"
	}

	p.measurements.WithLabelValues(success).Inc()
	p.coverage.Set(snapshot.Percent)
}

func (p *PrometheusMetrics) ImpactedDeclarations(count int) {
	p.impacted.Set(float64(count))
}

func (p *PrometheusMetrics) RunFinished(status m.Status, elapsed time.Duration) {
	p.runs.WithLabelValues(string(status)).Inc()
	p.duration.Observe(elapsed.Seconds())
}

func (p *PrometheusMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}
