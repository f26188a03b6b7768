package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/interfaces/http/handlers"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()

	collector, err := prometheus.NewCollector(prometheus.CollectorConfig{Namespace: "supplyrisk"}, nil)
	require.NoError(t, err)
	metrics := prometheus.NewAppMetrics(collector)

	return NewRouter(RouterConfig{
		HealthHandler:  handlers.NewHealthHandler("test", nil),
		AppMetrics:     metrics,
		MetricsHandler: collector.Handler(),
		Mode:           gin.TestMode,
	})
}

func TestRouter_HealthAndMetricsEndpoints(t *testing.T) {
	r := testRouter(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	r := testRouter(t)

	t.Run("generated when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("echoed when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	})
}

func TestRouter_RequestMetricsRecorded(t *testing.T) {
	r := testRouter(t)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "supplyrisk_http_requests_total")
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
