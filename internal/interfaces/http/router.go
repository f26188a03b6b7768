// Package http assembles the gin route tree and HTTP server lifecycle.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/interfaces/http/handlers"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates handler and middleware dependencies for the route
// tree.
type RouterConfig struct {
	RiskHandler   *handlers.RiskHandler
	HealthHandler *handlers.HealthHandler

	Logger     logging.Logger
	AppMetrics *prometheus.AppMetrics

	// MetricsHandler serves the scrape endpoint; nil disables /metrics.
	MetricsHandler http.Handler

	// Mode selects the gin mode (debug, release, test).
	Mode string
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Metrics(cfg.AppMetrics))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	v1 := r.Group("/api/v1")
	if cfg.RiskHandler != nil {
		cfg.RiskHandler.RegisterRoutes(v1)
	}

	return r
}
