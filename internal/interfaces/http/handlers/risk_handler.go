package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/application/risk"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/domain/supplier"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/chainscope/SupplyRisk-Intelligence/pkg/errors"
)

// RiskHandler serves the risk assessment API.
type RiskHandler struct {
	svc    risk.Service
	logger logging.Logger
}

// NewRiskHandler creates a RiskHandler.
func NewRiskHandler(svc risk.Service, logger logging.Logger) *RiskHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RiskHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the risk endpoints under the given group.
func (h *RiskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/risk/score", h.Score)
	rg.POST("/risk/score/batch", h.ScoreBatch)
	rg.POST("/risk/predict", h.Predict)
	rg.POST("/risk/recommendations", h.Recommend)
}

type ScoreRequest struct {
	Supplier *supplier.Snapshot `json:"supplier" binding:"required"`
}

// Score assesses one supplier snapshot.
func (h *RiskHandler) Score(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	assessment, err := h.svc.AssessSupplier(c.Request.Context(), req.Supplier)
	if err != nil {
		h.logger.Error("assessment failed", logging.Err(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

type ScoreBatchRequest struct {
	Suppliers []*supplier.Snapshot `json:"suppliers" binding:"required"`
}

type ScoreBatchResponse struct {
	Assessments []*risk.Assessment `json:"assessments"`
	Failed      int                `json:"failed"`
}

// ScoreBatch assesses a batch of snapshots.  Partial failures still return
// the successful assessments alongside a failure count.
func (h *RiskHandler) ScoreBatch(c *gin.Context) {
	var req ScoreBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	assessments, err := h.svc.AssessBatch(c.Request.Context(), req.Suppliers)
	if err != nil && !errors.IsCode(err, errors.ErrCodeBatchPartiallyFailed) {
		respondError(c, err)
		return
	}

	resp := ScoreBatchResponse{
		Assessments: assessments,
		Failed:      len(req.Suppliers) - len(assessments),
	}
	status := http.StatusOK
	if resp.Failed > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, resp)
}

type PredictRequest struct {
	Supplier    *supplier.Snapshot `json:"supplier" binding:"required"`
	HorizonDays int                `json:"horizon_days"`
}

// Predict produces a forward-looking risk estimate.
func (h *RiskHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	pred, err := h.svc.PredictSupplierRisk(c.Request.Context(), req.Supplier, req.HorizonDays)
	if err != nil {
		h.logger.Error("prediction failed", logging.Err(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pred)
}

type RecommendRequest struct {
	Candidates []*supplier.Snapshot `json:"candidates" binding:"required"`
	Baseline   *supplier.Snapshot   `json:"baseline,omitempty"`
	Criteria   *risk.Criteria       `json:"criteria,omitempty"`
}

type RecommendResponse struct {
	Recommendations []*risk.Recommendation `json:"recommendations"`
}

// Recommend ranks alternative suppliers.
func (h *RiskHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	recs, err := h.svc.RecommendAlternatives(c.Request.Context(), req.Candidates, req.Baseline, req.Criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecommendResponse{Recommendations: recs})
}
