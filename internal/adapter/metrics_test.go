package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

func TestPrometheusMetrics(t *testing.T) {
	metrics := NewPrometheusMetrics()

	metrics.GenerationRequest(KindDeclaration, ResultOK)
	metrics.GenerationRequest(KindDeclaration, ResultOK)
	metrics.GenerationRequest(KindMutation, ResultError)
	metrics.Measurement(m.CoverageSnapshot{Success: true, Percent: 72.5})
	metrics.Measurement(m.CoverageSnapshot{})
	metrics.ImpactedDeclarations(3)
	metrics.RunFinished(m.StatusCoverageNotMet, 2*time.Second)

	assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.generations.WithLabelValues(KindDeclaration, ResultOK)), 0.001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.generations.WithLabelValues(KindMutation, ResultError)), 0.001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.measurements.WithLabelValues("true")), 0.001)
	assert.InDelta(t, 0.0, testutil.ToFloat64(metrics.coverage), 0.001)
	assert.InDelta(t, 3.0, testutil.ToFloat64(metrics.impacted), 0.001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues("coverage_not_met")), 0.001)

	path := filepath.Join(t.TempDir(), "suitesync.prom")
	require.NoError(t, metrics.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "suitesync_generation_requests_total")
	assert.Contains(t, string(data), "suitesync_run_duration_seconds_bucket")
}

func TestPrometheusMetrics_Isolated(t *testing.T) {
	first := NewPrometheusMetrics()
	second := NewPrometheusMetrics()

	first.ImpactedDeclarations(5)

	assert.InDelta(t, 0.0, testutil.ToFloat64(second.impacted), 0.001)
	assert.NotSame(t, first.Registry(), second.Registry())
}
