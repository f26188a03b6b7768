package risk

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/domain/supplier"
)

// ---------------------------------------------------------------------------
// Prediction result
// ---------------------------------------------------------------------------

// Prediction sources.
const (
	SourceExternal = "external"
	SourceFallback = "fallback"
)

// Risk trend classifications.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Prediction alert messages.
const (
	AlertHighRisk        = "High risk prediction"
	AlertTrendIncreasing = "Risk trend increasing"
)

// Prediction is a forward-looking risk estimate for one supplier over a
// horizon of days.
type Prediction struct {
	SupplierID      string    `json:"supplier_id"`
	HorizonDays     int       `json:"horizon_days"`
	CurrentScores   ScoreSet  `json:"current_scores"`
	PredictedScores ScoreSet  `json:"predicted_scores"`
	PredictedLevel  RiskLevel `json:"predicted_level"`

	// OverallTrend is predicted overall minus current overall; positive means
	// risk is expected to rise.
	OverallTrend int `json:"overall_trend"`

	// RiskTrend classifies OverallTrend as increasing, decreasing, or stable.
	RiskTrend string `json:"risk_trend"`

	RiskFactors []string `json:"risk_factors"`
	Alerts      []string `json:"alerts"`

	// Confidence is in [0,100] and scales with how complete the supplier's
	// snapshot is.
	Confidence  float64   `json:"confidence"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ---------------------------------------------------------------------------
// Trend predictor (internal heuristic)
// ---------------------------------------------------------------------------

// trendDriftBound is the maximum symmetric relative drift applied to current
// scores when projecting forward.
const trendDriftBound = 0.10

// Trend classification band: overall movements within ±stableTrendBand points
// are reported as stable.
const stableTrendBand = 5

// Confidence parameters: a base plus a fixed increment per populated key
// snapshot field, capped at 100.
const (
	confidenceBase        = 50.0
	confidencePerKeyField = 10.0
	confidenceCap         = 100.0
)

// TrendSource produces one relative drift draw in [-trendDriftBound,
// +trendDriftBound].  Injecting the source keeps predictions reproducible in
// tests and under seeded simulation runs.
type TrendSource func() float64

// NewSeededTrendSource returns a TrendSource backed by a deterministic PRNG.
func NewSeededTrendSource(seed int64) TrendSource {
	rng := rand.New(rand.NewSource(seed))
	var mu sync.Mutex
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return (rng.Float64()*2 - 1) * trendDriftBound
	}
}

// TrendPredictor projects current risk scores over a horizon using a bounded
// random drift.  It is the in-process fallback for the external prediction
// service and carries no model state.
type TrendPredictor struct {
	scorer *Scorer
	source TrendSource
	now    func() time.Time
}

// NewTrendPredictor constructs a TrendPredictor.  A nil source gets an
// entropy-seeded default; a nil scorer gets a fresh one.
func NewTrendPredictor(scorer *Scorer, source TrendSource) *TrendPredictor {
	if scorer == nil {
		scorer = NewScorer()
	}
	if source == nil {
		source = NewSeededTrendSource(time.Now().UnixNano())
	}
	return &TrendPredictor{scorer: scorer, source: source, now: time.Now}
}

// Predict produces a heuristic prediction for the snapshot.  One drift draw
// is applied uniformly to every category and the overall score, each clamped
// back to [0,100].
func (p *TrendPredictor) Predict(snap *supplier.Snapshot, horizonDays int) *Prediction {
	current := p.scorer.Score(snap)

	drift := p.source()
	if drift > trendDriftBound {
		drift = trendDriftBound
	}
	if drift < -trendDriftBound {
		drift = -trendDriftBound
	}
	multiplier := 1 + drift

	predicted := ScoreSet{
		Financial:   driftScore(current.Financial, multiplier),
		Operational: driftScore(current.Operational, multiplier),
		Compliance:  driftScore(current.Compliance, multiplier),
		Geographic:  driftScore(current.Geographic, multiplier),
		Overall:     driftScore(current.Overall, multiplier),
	}

	overallTrend := predicted.Overall - current.Overall

	pred := &Prediction{
		SupplierID:      snap.ID,
		HorizonDays:     horizonDays,
		CurrentScores:   current,
		PredictedScores: predicted,
		PredictedLevel:  predicted.Level(),
		OverallTrend:    overallTrend,
		RiskTrend:       classifyTrend(overallTrend),
		RiskFactors:     FactorSummaries(predicted),
		Alerts:          predictionAlerts(predicted, overallTrend),
		Confidence:      predictionConfidence(snap),
		Source:          SourceFallback,
		GeneratedAt:     p.now(),
	}
	return pred
}

// driftScore applies the drift multiplier to one score and clamps the result.
func driftScore(score int, multiplier float64) int {
	return clampScore(int(math.Round(float64(score) * multiplier)))
}

// classifyTrend buckets an overall score movement.
func classifyTrend(overallTrend int) string {
	switch {
	case overallTrend > stableTrendBand:
		return TrendIncreasing
	case overallTrend < -stableTrendBand:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// predictionAlerts derives the alert list from a predicted score set.
func predictionAlerts(predicted ScoreSet, overallTrend int) []string {
	var alerts []string
	if predicted.Overall > 70 {
		alerts = append(alerts, AlertHighRisk)
	}
	if overallTrend > 10 {
		alerts = append(alerts, AlertTrendIncreasing)
	}
	return alerts
}

// predictionConfidence scales with snapshot completeness: a base of 50 plus
// 10 per populated key field, capped at 100.
func predictionConfidence(snap *supplier.Snapshot) float64 {
	c := confidenceBase + confidencePerKeyField*float64(snap.KeyFieldCount())
	if c > confidenceCap {
		c = confidenceCap
	}
	return c
}
