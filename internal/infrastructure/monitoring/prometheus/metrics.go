package prometheus

// AppMetrics holds the metric families exposed by the platform.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Risk assessment
	AssessmentsTotal   CounterVec
	AssessmentDuration HistogramVec
	BatchSize          HistogramVec
	CacheHitsTotal     CounterVec
	CacheMissesTotal   CounterVec

	// Prediction
	PredictionRequestsTotal         CounterVec
	PredictionExternalFailuresTotal CounterVec
	PredictionDuration              HistogramVec

	// Recommendation
	RecommendationRequestsTotal CounterVec
	RecommendationCandidates    HistogramVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultBatchSizeBuckets     = []float64{1, 5, 10, 25, 50, 100, 250, 500}
	DefaultCandidateSizeBuckets = []float64{1, 5, 10, 25, 50, 100}
)

// NewAppMetrics registers every metric family on the collector.
func NewAppMetrics(c Collector) *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:   c.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code"),
		HTTPRequestDuration: c.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path"),
		HTTPActiveRequests:  c.RegisterGauge("http_active_requests", "Active HTTP requests", "method"),

		AssessmentsTotal:   c.RegisterCounter("risk_assessments_total", "Risk assessments by outcome", "outcome"),
		AssessmentDuration: c.RegisterHistogram("risk_assessment_duration_seconds", "Risk assessment duration", DefaultHTTPDurationBuckets),
		BatchSize:          c.RegisterHistogram("risk_batch_size", "Batch assessment sizes", DefaultBatchSizeBuckets),
		CacheHitsTotal:     c.RegisterCounter("cache_hits_total", "Cache hits", "cache"),
		CacheMissesTotal:   c.RegisterCounter("cache_misses_total", "Cache misses", "cache"),

		PredictionRequestsTotal:         c.RegisterCounter("prediction_requests_total", "Prediction requests by source", "source"),
		PredictionExternalFailuresTotal: c.RegisterCounter("prediction_external_failures_total", "External prediction failures"),
		PredictionDuration:              c.RegisterHistogram("risk_prediction_duration_seconds", "Prediction duration", DefaultHTTPDurationBuckets, "source"),

		RecommendationRequestsTotal: c.RegisterCounter("risk_recommendation_requests_total", "Recommendation requests"),
		RecommendationCandidates:    c.RegisterHistogram("risk_recommendation_candidates", "Candidate pool sizes", DefaultCandidateSizeBuckets),

		HealthCheckStatus: c.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component"),
		ErrorsTotal:       c.RegisterCounter("errors_total", "Total errors", "component", "code"),
	}
}

// Recorder bridges the application layer's name-based metrics port onto the
// registered metric families.  Unknown names are dropped silently so the
// application layer never has to know which families exist.
type Recorder struct {
	counters   map[string]CounterVec
	histograms map[string]HistogramVec
}

// NewRecorder builds a Recorder over the application-facing subset of
// AppMetrics.
func NewRecorder(m *AppMetrics) *Recorder {
	return &Recorder{
		counters: map[string]CounterVec{
			"risk_assessments_total":             m.AssessmentsTotal,
			"prediction_requests_total":          m.PredictionRequestsTotal,
			"prediction_external_failures_total": m.PredictionExternalFailuresTotal,
			"risk_recommendation_requests_total": m.RecommendationRequestsTotal,
		},
		histograms: map[string]HistogramVec{
			"risk_assessment_duration_seconds": m.AssessmentDuration,
			"risk_prediction_duration_seconds": m.PredictionDuration,
			"risk_batch_size":                  m.BatchSize,
			"risk_recommendation_candidates":   m.RecommendationCandidates,
		},
	}
}

func (r *Recorder) IncCounter(name string, labels map[string]string) {
	vec, ok := r.counters[name]
	if !ok {
		return
	}
	if labels == nil {
		labels = map[string]string{}
	}
	vec.With(labels).Inc()
}

func (r *Recorder) ObserveHistogram(name string, value float64, labels map[string]string) {
	vec, ok := r.histograms[name]
	if !ok {
		return
	}
	if labels == nil {
		labels = map[string]string{}
	}
	vec.With(labels).Observe(value)
}
