package risk

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/config"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/domain/supplier"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/chainscope/SupplyRisk-Intelligence/pkg/errors"
)

// ---------------------------------------------------------------------------
// Criteria
// ---------------------------------------------------------------------------

// weightSumTolerance is the allowed deviation of the weight sum from 1.0.
const weightSumTolerance = 1e-6

// CriteriaWeights distributes the total recommendation score across the four
// component scores.  The weights must sum to 1.0 within tolerance.
type CriteriaWeights struct {
	Quality  float64 `json:"quality"`
	Cost     float64 `json:"cost"`
	Risk     float64 `json:"risk"`
	Delivery float64 `json:"delivery"`
}

// Sum returns the total of all weights.
func (w CriteriaWeights) Sum() float64 {
	return w.Quality + w.Cost + w.Risk + w.Delivery
}

// Criteria controls candidate filtering and scoring.
type Criteria struct {
	Weights CriteriaWeights `json:"weights"`

	// MaxRiskThreshold excludes candidates whose overall risk score exceeds
	// the threshold.  Nil disables the filter.
	MaxRiskThreshold *int `json:"max_risk_threshold,omitempty"`

	// MinQualityRating excludes candidates whose quality rating is below the
	// threshold.  Candidates without a quality rating fail this filter.
	MinQualityRating *float64 `json:"min_quality_rating,omitempty"`

	// ExcludedCountries removes candidates from the named countries,
	// matched case-insensitively.
	ExcludedCountries []string `json:"excluded_countries,omitempty"`

	// RequiredCertifications keeps only candidates holding every named
	// certification (ISO or compliance), matched case-insensitively.
	RequiredCertifications []string `json:"required_certifications,omitempty"`

	// MaxRecommendations caps the ranked list; zero uses the ranker default.
	MaxRecommendations int `json:"max_recommendations,omitempty"`
}

// DefaultCriteria returns the standard scoring criteria: quality and risk
// weighted heaviest, no filters.
func DefaultCriteria() *Criteria {
	return &Criteria{
		Weights: CriteriaWeights{Quality: 0.30, Cost: 0.20, Risk: 0.30, Delivery: 0.20},
	}
}

// Validate checks the criteria before any scoring runs.  An invalid weight
// configuration fails the whole request rather than producing a silently
// misweighted ranking.
func (c *Criteria) Validate() error {
	if c.Weights.Quality < 0 || c.Weights.Cost < 0 || c.Weights.Risk < 0 || c.Weights.Delivery < 0 {
		return errors.InvalidCriteria("ranking weights cannot be negative")
	}
	if diff := math.Abs(c.Weights.Sum() - 1.0); diff > weightSumTolerance {
		return errors.InvalidCriteria("ranking weights must sum to 1.0").
			WithDetail(fmt.Sprintf("got %.4f", c.Weights.Sum()))
	}
	if c.MaxRiskThreshold != nil && (*c.MaxRiskThreshold < 0 || *c.MaxRiskThreshold > 100) {
		return errors.InvalidCriteria("max_risk_threshold must be within [0, 100]")
	}
	if c.MinQualityRating != nil && (*c.MinQualityRating < 0 || *c.MinQualityRating > 10) {
		return errors.InvalidCriteria("min_quality_rating must be within [0, 10]")
	}
	if c.MaxRecommendations < 0 {
		return errors.InvalidCriteria("max_recommendations cannot be negative")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Recommendation result
// ---------------------------------------------------------------------------

// RecommendationType classifies how a recommended supplier should be engaged.
type RecommendationType string

const (
	TypeStrategicPartner RecommendationType = "STRATEGIC_PARTNER"
	TypeAlternative      RecommendationType = "ALTERNATIVE"
	TypeBackup           RecommendationType = "BACKUP"
)

// typeFromScore maps a total score to an engagement type.
func typeFromScore(total float64) RecommendationType {
	switch {
	case total >= 80:
		return TypeStrategicPartner
	case total >= 60:
		return TypeAlternative
	default:
		return TypeBackup
	}
}

// priorityFromScore maps a total score to a 1 (highest) .. 4 (lowest) band.
func priorityFromScore(total float64) int {
	switch {
	case total >= 80:
		return 1
	case total >= 70:
		return 2
	case total >= 60:
		return 3
	default:
		return 4
	}
}

// ComponentScores holds the four weighted scoring inputs, each in [0,100].
type ComponentScores struct {
	Quality  float64 `json:"quality"`
	Cost     float64 `json:"cost"`
	Risk     float64 `json:"risk"`
	Delivery float64 `json:"delivery"`
}

// Recommendation is one ranked alternative supplier.
type Recommendation struct {
	SupplierID   string             `json:"supplier_id"`
	SupplierName string             `json:"supplier_name,omitempty"`
	Country      string             `json:"country,omitempty"`
	TotalScore   float64            `json:"total_score"`
	Components   ComponentScores    `json:"component_scores"`
	Type         RecommendationType `json:"type"`
	Priority     int                `json:"priority"`

	// Confidence reflects data completeness of the candidate record, as a
	// percentage rounded to two decimals.
	Confidence float64 `json:"confidence"`

	Advantages []string `json:"advantages,omitempty"`
	Risks      []string `json:"risks,omitempty"`
	RiskScores ScoreSet `json:"risk_scores"`
}

// ---------------------------------------------------------------------------
// Ranker
// ---------------------------------------------------------------------------

// Ranker scores and orders candidate suppliers against configurable criteria.
type Ranker struct {
	scorer     *Scorer
	logger     logging.Logger
	defaultMax int
}

// NewRanker constructs a Ranker.  defaultMax bounds the result list when the
// criteria carry no explicit limit; zero falls back to the platform default.
func NewRanker(scorer *Scorer, logger logging.Logger, defaultMax int) *Ranker {
	if scorer == nil {
		scorer = NewScorer()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if defaultMax <= 0 {
		defaultMax = config.DefaultMaxRecommendations
	}
	return &Ranker{scorer: scorer, logger: logger, defaultMax: defaultMax}
}

// Rank filters, scores, and orders the candidates.  The baseline supplier (if
// given) is excluded from the results and used as the cost comparison anchor.
// Malformed candidates are skipped and logged, never fatal.
func (r *Ranker) Rank(candidates []*supplier.Snapshot, baseline *supplier.Snapshot, criteria *Criteria) ([]*Recommendation, error) {
	if criteria == nil {
		criteria = DefaultCriteria()
	}
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	baselineID := ""
	baselineCost := 0.0
	hasBaseline := baseline != nil
	if hasBaseline {
		baselineID = baseline.ID
		baselineCost = costScoreOf(baseline)
	}

	excluded := normalizedSet(criteria.ExcludedCountries)

	recs := make([]*Recommendation, 0, len(candidates))
	for _, cand := range candidates {
		if cand == nil {
			r.logger.Warn("skipping nil candidate in recommendation request")
			continue
		}
		if err := cand.Validate(); err != nil {
			r.logger.Warn("skipping malformed candidate",
				logging.String("supplier_id", cand.ID), logging.Err(err))
			continue
		}
		if cand.ID == baselineID && hasBaseline {
			continue
		}
		if !cand.Active {
			continue
		}
		if _, banned := excluded[strings.ToLower(strings.TrimSpace(cand.Country))]; banned {
			continue
		}
		if !holdsCertifications(cand, criteria.RequiredCertifications) {
			continue
		}
		if criteria.MinQualityRating != nil {
			if cand.QualityRating == nil ||
				cand.QualityRating.LessThan(decimal.NewFromFloat(*criteria.MinQualityRating)) {
				continue
			}
		}

		riskScores := r.scorer.Score(cand)
		if criteria.MaxRiskThreshold != nil && riskScores.Overall > *criteria.MaxRiskThreshold {
			continue
		}

		recs = append(recs, r.scoreCandidate(cand, riskScores, criteria.Weights, hasBaseline, baselineCost))
	}

	// Deterministic order: best score first, ties broken by ascending ID.
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].TotalScore != recs[j].TotalScore {
			return recs[i].TotalScore > recs[j].TotalScore
		}
		return recs[i].SupplierID < recs[j].SupplierID
	})

	limit := criteria.MaxRecommendations
	if limit <= 0 {
		limit = r.defaultMax
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// scoreCandidate computes one candidate's component scores and assembles the
// recommendation.
func (r *Ranker) scoreCandidate(
	cand *supplier.Snapshot,
	riskScores ScoreSet,
	weights CriteriaWeights,
	hasBaseline bool,
	baselineCost float64,
) *Recommendation {
	quality := qualityScoreOf(cand)

	cost := costScoreOf(cand)
	if hasBaseline {
		switch {
		case cost > baselineCost:
			cost += 10
		case cost < baselineCost:
			cost -= 10
		}
		cost = clampFloat(cost, 0, 100)
	}

	riskComponent := float64(100 - riskScores.Overall)
	delivery := deliveryScoreOf(cand)

	total := weights.Quality*quality +
		weights.Cost*cost +
		weights.Risk*riskComponent +
		weights.Delivery*delivery
	total = round2(total)

	return &Recommendation{
		SupplierID:   cand.ID,
		SupplierName: cand.Name,
		Country:      cand.Country,
		TotalScore:   total,
		Components: ComponentScores{
			Quality:  round2(quality),
			Cost:     round2(cost),
			Risk:     riskComponent,
			Delivery: round2(delivery),
		},
		Type:       typeFromScore(total),
		Priority:   priorityFromScore(total),
		Confidence: candidateConfidence(cand),
		Advantages: candidateAdvantages(cand),
		Risks:      candidateRisks(riskScores),
		RiskScores: riskScores,
	}
}

// ---------------------------------------------------------------------------
// Component scoring
// ---------------------------------------------------------------------------

// neutralComponentScore is assumed for attributes the record does not carry.
const neutralComponentScore = 50.0

// certificationBonusCap bounds the certification contribution to the quality
// score; each certification is worth 5 points.
const (
	certificationBonusCap  = 20.0
	certificationBonusUnit = 5.0
)

func qualityScoreOf(cand *supplier.Snapshot) float64 {
	score := neutralComponentScore
	if cand.QualityRating != nil {
		score, _ = cand.QualityRating.Mul(decimal.NewFromInt(10)).Float64()
	}
	certs := len(cand.ISOCertifications) + len(cand.ComplianceCertifications)
	bonus := certificationBonusUnit * float64(certs)
	if bonus > certificationBonusCap {
		bonus = certificationBonusCap
	}
	return clampFloat(score+bonus, 0, 100)
}

func costScoreOf(cand *supplier.Snapshot) float64 {
	if cand.CostCompetitivenessScore != nil {
		f, _ := cand.CostCompetitivenessScore.Float64()
		return clampFloat(f, 0, 100)
	}
	return neutralComponentScore
}

func deliveryScoreOf(cand *supplier.Snapshot) float64 {
	if cand.OnTimeDeliveryRate != nil {
		f, _ := cand.OnTimeDeliveryRate.Float64()
		return clampFloat(f, 0, 100)
	}
	if cand.ResponsivenessScore != nil {
		f, _ := cand.ResponsivenessScore.Float64()
		return clampFloat(f, 0, 100)
	}
	return neutralComponentScore
}

// confidenceKeyFields is the number of candidate attributes counted toward
// recommendation confidence.
const confidenceKeyFields = 6

// candidateConfidence is the fraction of the six key candidate fields that
// are populated, as a percentage rounded to two decimals.
func candidateConfidence(cand *supplier.Snapshot) float64 {
	n := cand.KeyFieldCount()
	if cand.CostCompetitivenessScore != nil {
		n++
	}
	return round2(float64(n) / confidenceKeyFields * 100)
}

// ---------------------------------------------------------------------------
// Narrative generation
// ---------------------------------------------------------------------------

func candidateAdvantages(cand *supplier.Snapshot) []string {
	var advantages []string
	if cand.QualityRating != nil && cand.QualityRating.GreaterThanOrEqual(decimal.NewFromInt(8)) {
		advantages = append(advantages,
			fmt.Sprintf("High quality rating (%s/10)", cand.QualityRating.String()))
	}
	if cand.OnTimeDeliveryRate != nil && cand.OnTimeDeliveryRate.GreaterThanOrEqual(decimal.NewFromInt(90)) {
		advantages = append(advantages,
			fmt.Sprintf("Excellent delivery performance (%s%%)", cand.OnTimeDeliveryRate.String()))
	}
	if len(cand.ISOCertifications) > 0 {
		advantages = append(advantages,
			fmt.Sprintf("ISO certified (%s)", strings.Join(cand.ISOCertifications, ", ")))
	}
	return advantages
}

func candidateRisks(scores ScoreSet) []string {
	var risks []string
	if scores.Overall > 70 {
		risks = append(risks, fmt.Sprintf("High overall risk score (%d/100)", scores.Overall))
	}
	if scores.Financial > 60 {
		risks = append(risks, "Elevated financial risk")
	}
	if scores.Geographic > 60 {
		risks = append(risks, "Geographic concentration risk")
	}
	return risks
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func holdsCertifications(cand *supplier.Snapshot, required []string) bool {
	if len(required) == 0 {
		return true
	}
	held := make(map[string]struct{}, len(cand.ISOCertifications)+len(cand.ComplianceCertifications))
	for _, c := range cand.ISOCertifications {
		held[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	for _, c := range cand.ComplianceCertifications {
		held[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	for _, req := range required {
		if _, ok := held[strings.ToLower(strings.TrimSpace(req))]; !ok {
			return false
		}
	}
	return true
}

func normalizedSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
