package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) *AppMetrics {
	t.Helper()
	c, err := NewCollector(CollectorConfig{Namespace: "supplyrisk"}, nil)
	require.NoError(t, err)
	return NewAppMetrics(c)
}

func TestNewAppMetrics_RegistersAllFamilies(t *testing.T) {
	m := newTestAppMetrics(t)

	// Spot-check families across layers; registration failures would have
	// returned noop vectors, which are not the prom-backed types.
	_, ok := m.AssessmentsTotal.(*promCounterVec)
	assert.True(t, ok, "assessments counter not registered")
	_, ok = m.PredictionDuration.(*promHistogramVec)
	assert.True(t, ok, "prediction histogram not registered")
	_, ok = m.HealthCheckStatus.(*promGaugeVec)
	assert.True(t, ok, "health gauge not registered")
}

func TestRecorder_CounterRouting(t *testing.T) {
	m := newTestAppMetrics(t)
	r := NewRecorder(m)

	r.IncCounter("risk_assessments_total", map[string]string{"outcome": "computed"})
	r.IncCounter("risk_assessments_total", map[string]string{"outcome": "computed"})
	r.IncCounter("prediction_requests_total", map[string]string{"source": "fallback"})
	r.IncCounter("prediction_external_failures_total", nil)
	r.IncCounter("risk_recommendation_requests_total", nil)

	vec := m.AssessmentsTotal.(*promCounterVec)
	assert.Equal(t, float64(2), testutil.ToFloat64(vec.vec.WithLabelValues("computed")))

	failures := m.PredictionExternalFailuresTotal.(*promCounterVec)
	assert.Equal(t, float64(1), testutil.ToFloat64(failures.vec.WithLabelValues()))
}

func TestRecorder_HistogramRouting(t *testing.T) {
	m := newTestAppMetrics(t)
	r := NewRecorder(m)

	r.ObserveHistogram("risk_assessment_duration_seconds", 0.02, nil)
	r.ObserveHistogram("risk_prediction_duration_seconds", 0.5, map[string]string{"source": "external"})
	r.ObserveHistogram("risk_batch_size", 40, nil)

	dur := m.AssessmentDuration.(*promHistogramVec)
	assert.Equal(t, 1, testutil.CollectAndCount(dur.vec))
}

func TestRecorder_UnknownNamesDropped(t *testing.T) {
	r := NewRecorder(newTestAppMetrics(t))

	assert.NotPanics(t, func() {
		r.IncCounter("never_registered_total", nil)
		r.ObserveHistogram("never_registered_seconds", 1, nil)
	})
}
