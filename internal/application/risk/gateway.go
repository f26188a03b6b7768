package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/config"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/domain/supplier"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/chainscope/SupplyRisk-Intelligence/pkg/errors"
)

// ---------------------------------------------------------------------------
// External predictor port
// ---------------------------------------------------------------------------

// ExternalPredictionRequest is the input to the external prediction service.
type ExternalPredictionRequest struct {
	SupplierID  string             `json:"supplier_id"`
	Snapshot    *supplier.Snapshot `json:"supplier_profile"`
	HorizonDays int                `json:"horizon_days"`
}

// ExternalPredictionResult is the parsed response from the external
// prediction service.
type ExternalPredictionResult struct {
	Scores      ScoreSet `json:"risk_scores"`
	RiskFactors []string `json:"risk_factors"`
	RiskTrend   string   `json:"risk_trend"`
	Alerts      []string `json:"alerts"`
	Confidence  float64  `json:"confidence"`
}

// ExternalPredictor is the port for the remote ML prediction service.  A
// transport timeout is reported as an ordinary error; the gateway does not
// distinguish timeout from any other transport failure.
type ExternalPredictor interface {
	PredictRisk(ctx context.Context, req ExternalPredictionRequest) (*ExternalPredictionResult, error)
	Healthy(ctx context.Context) error
}

// ---------------------------------------------------------------------------
// Gateway
// ---------------------------------------------------------------------------

// GatewayConfig holds prediction gateway behaviour parameters, typically
// derived from config.PredictionConfig.
type GatewayConfig struct {
	Mode               string
	AllowFallback      bool
	DefaultHorizonDays int
	MaxHorizonDays     int
}

// GatewayConfigFrom maps the platform configuration section onto the gateway.
func GatewayConfigFrom(cfg config.PredictionConfig) GatewayConfig {
	return GatewayConfig{
		Mode:               cfg.Mode,
		AllowFallback:      cfg.AllowFallback,
		DefaultHorizonDays: cfg.DefaultHorizonDays,
		MaxHorizonDays:     cfg.MaxHorizonDays,
	}
}

// PredictionGateway routes prediction requests either to the external service
// or to the in-process trend predictor, tagging every result with its source.
type PredictionGateway struct {
	external ExternalPredictor
	fallback *TrendPredictor
	scorer   *Scorer
	cfg      GatewayConfig
	logger   logging.Logger
	metrics  MetricsCollector
	now      func() time.Time
}

// NewPredictionGateway constructs a gateway.  external may be nil, in which
// case every request is served by the fallback predictor regardless of mode.
func NewPredictionGateway(
	external ExternalPredictor,
	fallback *TrendPredictor,
	scorer *Scorer,
	cfg GatewayConfig,
	logger logging.Logger,
	metrics MetricsCollector,
) *PredictionGateway {
	if fallback == nil {
		fallback = NewTrendPredictor(scorer, nil)
	}
	if scorer == nil {
		scorer = NewScorer()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if cfg.DefaultHorizonDays <= 0 {
		cfg.DefaultHorizonDays = config.DefaultHorizonDays
	}
	if cfg.MaxHorizonDays < cfg.DefaultHorizonDays {
		cfg.MaxHorizonDays = config.DefaultMaxHorizonDays
	}
	return &PredictionGateway{
		external: external,
		fallback: fallback,
		scorer:   scorer,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Predict produces a risk prediction for the snapshot over horizonDays.
// A non-positive horizon uses the configured default; a horizon beyond the
// configured maximum is rejected before any remote call.
func (g *PredictionGateway) Predict(ctx context.Context, snap *supplier.Snapshot, horizonDays int) (*Prediction, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	if horizonDays <= 0 {
		horizonDays = g.cfg.DefaultHorizonDays
	}
	if horizonDays > g.cfg.MaxHorizonDays {
		return nil, errors.Newf(errors.ErrCodeHorizonInvalid,
			"horizon %d days exceeds maximum %d", horizonDays, g.cfg.MaxHorizonDays)
	}

	if g.cfg.Mode != config.PredictionModeExternal || g.external == nil {
		return g.predictFallback(snap, horizonDays), nil
	}

	result, err := g.external.PredictRisk(ctx, ExternalPredictionRequest{
		SupplierID:  snap.ID,
		Snapshot:    snap,
		HorizonDays: horizonDays,
	})
	if err != nil {
		g.metrics.IncCounter("prediction_external_failures_total", nil)
		if !g.cfg.AllowFallback {
			g.logger.Error("external prediction failed and fallback is disabled",
				logging.String("supplier_id", snap.ID), logging.Err(err))
			return nil, errors.Wrap(err, errors.ErrCodePredictionUnavailable,
				fmt.Sprintf("prediction service call failed for supplier %s", snap.ID))
		}
		g.logger.Warn("external prediction failed, serving fallback",
			logging.String("supplier_id", snap.ID), logging.Err(err))
		return g.predictFallback(snap, horizonDays), nil
	}

	g.metrics.IncCounter("prediction_requests_total", map[string]string{"source": SourceExternal})
	return g.fromExternal(snap, horizonDays, result), nil
}

// predictFallback serves a prediction from the in-process trend predictor.
func (g *PredictionGateway) predictFallback(snap *supplier.Snapshot, horizonDays int) *Prediction {
	g.metrics.IncCounter("prediction_requests_total", map[string]string{"source": SourceFallback})
	return g.fallback.Predict(snap, horizonDays)
}

// fromExternal merges an external result with locally computed current scores.
func (g *PredictionGateway) fromExternal(snap *supplier.Snapshot, horizonDays int, result *ExternalPredictionResult) *Prediction {
	current := g.scorer.Score(snap)

	predicted := ScoreSet{
		Financial:   clampScore(result.Scores.Financial),
		Operational: clampScore(result.Scores.Operational),
		Compliance:  clampScore(result.Scores.Compliance),
		Geographic:  clampScore(result.Scores.Geographic),
		Overall:     clampScore(result.Scores.Overall),
	}
	overallTrend := predicted.Overall - current.Overall

	trend := result.RiskTrend
	if trend == "" {
		trend = classifyTrend(overallTrend)
	}
	factors := result.RiskFactors
	if len(factors) == 0 {
		factors = FactorSummaries(predicted)
	}
	alerts := result.Alerts
	if alerts == nil {
		alerts = predictionAlerts(predicted, overallTrend)
	}
	confidence := result.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > confidenceCap {
		confidence = confidenceCap
	}

	return &Prediction{
		SupplierID:      snap.ID,
		HorizonDays:     horizonDays,
		CurrentScores:   current,
		PredictedScores: predicted,
		PredictedLevel:  predicted.Level(),
		OverallTrend:    overallTrend,
		RiskTrend:       trend,
		RiskFactors:     factors,
		Alerts:          alerts,
		Confidence:      confidence,
		Source:          SourceExternal,
		GeneratedAt:     g.now(),
	}
}
