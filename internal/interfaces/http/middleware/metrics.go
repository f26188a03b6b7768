package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
)

// Metrics records per-request counters and latency histograms.  Routes are
// labelled with the matched template, not the raw path, to keep cardinality
// bounded.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		active := m.HTTPActiveRequests.WithLabelValues(method)
		active.Inc()
		defer active.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
