package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

// HealthChecker is implemented by dependencies that can report their health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckerFunc adapts a named function to HealthChecker.
type CheckerFunc struct {
	CheckerName string
	Fn          func(ctx context.Context) error
}

func (c CheckerFunc) Name() string                    { return c.CheckerName }
func (c CheckerFunc) Check(ctx context.Context) error { return c.Fn(ctx) }

const checkTimeout = 3 * time.Second

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checkers []HealthChecker
	logger   logging.Logger
	started  time.Time
	version  string
}

// NewHealthHandler creates a HealthHandler over the given dependency checkers.
func NewHealthHandler(version string, logger logging.Logger, checkers ...HealthChecker) *HealthHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &HealthHandler{
		checkers: checkers,
		logger:   logger,
		started:  time.Now(),
		version:  version,
	}
}

// RegisterRoutes mounts the probe endpoints on the engine root.
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

type componentStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	UptimeSecs int64             `json:"uptime_seconds"`
	Components []componentStatus `json:"components,omitempty"`
}

// Liveness reports that the process is up.  It never consults dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:     "ok",
		Version:    h.version,
		UptimeSecs: int64(time.Since(h.started).Seconds()),
	})
}

// Readiness runs every dependency check concurrently and reports 503 when
// any fails.
func (h *HealthHandler) Readiness(c *gin.Context) {
	components := h.checkAll(c.Request.Context())

	status := "ok"
	code := http.StatusOK
	for _, comp := range components {
		if comp.Status != "ok" {
			status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, healthResponse{
		Status:     status,
		Version:    h.version,
		UptimeSecs: int64(time.Since(h.started).Seconds()),
		Components: components,
	})
}

func (h *HealthHandler) checkAll(ctx context.Context) []componentStatus {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	results := make([]componentStatus, len(h.checkers))
	var wg sync.WaitGroup
	for i, checker := range h.checkers {
		wg.Add(1)
		go func(i int, checker HealthChecker) {
			defer wg.Done()
			status := componentStatus{Name: checker.Name(), Status: "ok"}
			if err := checker.Check(ctx); err != nil {
				status.Status = "down"
				status.Error = err.Error()
				h.logger.Warn("health check failed",
					logging.String("component", checker.Name()), logging.Err(err))
			}
			results[i] = status
		}(i, checker)
	}
	wg.Wait()
	return results
}
