// Package risk implements supplier risk assessment: deterministic multi-factor
// scoring, trend prediction with an external-service gateway, and alternative
// supplier recommendation.
package risk

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/domain/supplier"
)

// ---------------------------------------------------------------------------
// Risk levels
// ---------------------------------------------------------------------------

// RiskLevel classifies an overall risk score [0,100].
type RiskLevel string

const (
	LevelVeryLow  RiskLevel = "VERY_LOW"
	LevelLow      RiskLevel = "LOW"
	LevelMedium   RiskLevel = "MEDIUM"
	LevelHigh     RiskLevel = "HIGH"
	LevelVeryHigh RiskLevel = "VERY_HIGH"
)

// LevelFromScore maps a numeric overall score to a RiskLevel.
// Boundaries are inclusive on the upper edge: 40 is LOW, 41 is MEDIUM.
func LevelFromScore(score int) RiskLevel {
	switch {
	case score <= 20:
		return LevelVeryLow
	case score <= 40:
		return LevelLow
	case score <= 60:
		return LevelMedium
	case score <= 80:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// Description returns a human-readable description for the level.
func (l RiskLevel) Description() string {
	switch l {
	case LevelVeryLow:
		return "Very Low Risk"
	case LevelLow:
		return "Low Risk"
	case LevelMedium:
		return "Medium Risk"
	case LevelHigh:
		return "High Risk"
	case LevelVeryHigh:
		return "Very High Risk"
	default:
		return "Unknown"
	}
}

// Color returns the UI hex colour associated with the level.
func (l RiskLevel) Color() string {
	switch l {
	case LevelVeryLow:
		return "#22C55E"
	case LevelLow:
		return "#84CC16"
	case LevelMedium:
		return "#F59E0B"
	case LevelHigh:
		return "#F97316"
	case LevelVeryHigh:
		return "#EF4444"
	default:
		return "#6B7280"
	}
}

// ---------------------------------------------------------------------------
// Score set
// ---------------------------------------------------------------------------

// ScoreSet holds the four category scores and the weighted overall score.
// All values are in [0,100]; higher means riskier.
type ScoreSet struct {
	Financial   int `json:"financial"`
	Operational int `json:"operational"`
	Compliance  int `json:"compliance"`
	Geographic  int `json:"geographic"`
	Overall     int `json:"overall"`
}

// Level returns the risk level for the overall score.
func (s ScoreSet) Level() RiskLevel { return LevelFromScore(s.Overall) }

// categoryWeights define each category's share of the overall score.
var categoryWeights = struct {
	Financial   float64
	Operational float64
	Compliance  float64
	Geographic  float64
}{
	Financial:   0.25,
	Operational: 0.30,
	Compliance:  0.25,
	Geographic:  0.20,
}

// ---------------------------------------------------------------------------
// Penalty tables
//
// Each category score is the sum of independent penalty contributions, one per
// attribute, clamped to [0,100].  A missing attribute contributes its own
// conservative default so that sparse records score as uncertain rather than
// safe.  All defaults live here; nothing else in the package decides what a
// missing field is worth.
// ---------------------------------------------------------------------------

const (
	missingCreditPenalty    = 50
	missingRevenuePenalty   = 30
	missingYearsPenalty     = 25
	missingDeliveryPenalty  = 40
	missingQualityPenalty   = 30
	missingEmployeesPenalty = 25
	missingLastAuditPenalty = 40
	missingNextAuditPenalty = 20
	unknownCountryPenalty   = 50
)

// creditPenalty maps a credit rating to its penalty contribution.  Modifier
// forms ("AA+", "BBB-") score with their rating family.
func creditPenalty(rating *string) int {
	if rating == nil || *rating == "" {
		return missingCreditPenalty
	}
	switch strings.ToUpper(strings.TrimSpace(*rating)) {
	case "AAA", "AA+", "AA", "AA-":
		return 5
	case "A+", "A", "A-":
		return 15
	case "BBB+", "BBB", "BBB-":
		return 25
	case "BB+", "BB", "BB-":
		return 40
	case "B+", "B", "B-":
		return 60
	default:
		return 80
	}
}

func revenuePenalty(revenue *decimal.Decimal) int {
	if revenue == nil {
		return missingRevenuePenalty
	}
	switch {
	case revenue.GreaterThanOrEqual(decimal.NewFromInt(1_000_000_000)):
		return 5
	case revenue.GreaterThanOrEqual(decimal.NewFromInt(100_000_000)):
		return 10
	case revenue.GreaterThanOrEqual(decimal.NewFromInt(10_000_000)):
		return 20
	case revenue.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return 30
	default:
		return 40
	}
}

func yearsPenalty(years *int) int {
	if years == nil {
		return missingYearsPenalty
	}
	switch {
	case *years >= 20:
		return 5
	case *years >= 10:
		return 10
	case *years >= 5:
		return 20
	case *years >= 2:
		return 30
	default:
		return 40
	}
}

func deliveryPenalty(rate *decimal.Decimal) int {
	if rate == nil {
		return missingDeliveryPenalty
	}
	switch {
	case rate.GreaterThanOrEqual(decimal.NewFromInt(95)):
		return 5
	case rate.GreaterThanOrEqual(decimal.NewFromInt(90)):
		return 15
	case rate.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return 30
	case rate.GreaterThanOrEqual(decimal.NewFromInt(70)):
		return 50
	default:
		return 70
	}
}

func qualityPenalty(rating *decimal.Decimal) int {
	if rating == nil {
		return missingQualityPenalty
	}
	switch {
	case rating.GreaterThanOrEqual(decimal.NewFromInt(9)):
		return 5
	case rating.GreaterThanOrEqual(decimal.NewFromInt(8)):
		return 15
	case rating.GreaterThanOrEqual(decimal.NewFromInt(7)):
		return 25
	case rating.GreaterThanOrEqual(decimal.NewFromInt(6)):
		return 40
	default:
		return 60
	}
}

func employeePenalty(count *int) int {
	if count == nil {
		return missingEmployeesPenalty
	}
	switch {
	case *count >= 1000:
		return 5
	case *count >= 100:
		return 10
	case *count >= 50:
		return 20
	case *count >= 10:
		return 30
	default:
		return 40
	}
}

func isoCertPenalty(certs []string) int {
	switch {
	case len(certs) >= 5:
		return 5
	case len(certs) >= 3:
		return 15
	case len(certs) >= 1:
		return 25
	default:
		return 40
	}
}

func complianceCertPenalty(certs []string) int {
	switch {
	case len(certs) >= 3:
		return 10
	case len(certs) >= 1:
		return 20
	default:
		return 30
	}
}

func lastAuditPenalty(last *time.Time, now time.Time) int {
	if last == nil {
		return missingLastAuditPenalty
	}
	days := int(now.Sub(*last).Hours() / 24)
	switch {
	case days <= 365:
		return 5
	case days <= 730:
		return 15
	default:
		return 30
	}
}

func nextAuditPenalty(next *time.Time, now time.Time) int {
	if next == nil {
		return missingNextAuditPenalty
	}
	days := int(next.Sub(now).Hours() / 24)
	switch {
	case days < 0:
		// Audit overdue.
		return 30
	case days <= 30:
		return 10
	default:
		return 5
	}
}

// ---------------------------------------------------------------------------
// Country risk classification
// ---------------------------------------------------------------------------

var highRiskCountries = map[string]struct{}{
	"afghanistan": {}, "iran": {}, "north korea": {}, "syria": {},
	"yemen": {}, "somalia": {}, "libya": {},
}

var mediumRiskCountries = map[string]struct{}{
	"venezuela": {}, "belarus": {}, "myanmar": {}, "russia": {},
	"china": {}, "pakistan": {},
}

var lowRiskCountries = map[string]struct{}{
	"united states": {}, "usa": {}, "us": {}, "canada": {}, "germany": {},
	"france": {}, "united kingdom": {}, "uk": {}, "japan": {}, "australia": {},
	"netherlands": {}, "switzerland": {}, "sweden": {}, "norway": {}, "denmark": {},
}

// geographicScore classifies a country name into a fixed risk score.
// Matching is case-insensitive; an empty or unrecognisable country scores as
// unknown.
func geographicScore(country string) int {
	c := strings.ToLower(strings.TrimSpace(country))
	if c == "" {
		return unknownCountryPenalty
	}
	if _, ok := highRiskCountries[c]; ok {
		return 80
	}
	if _, ok := mediumRiskCountries[c]; ok {
		return 50
	}
	if _, ok := lowRiskCountries[c]; ok {
		return 10
	}
	return 25
}

// ---------------------------------------------------------------------------
// Scorer
// ---------------------------------------------------------------------------

// Scorer computes deterministic risk scores from supplier snapshots.  The
// clock is injectable so audit-recency scoring is reproducible in tests.
type Scorer struct {
	now func() time.Time
}

// NewScorer constructs a Scorer using the wall clock.
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// NewScorerAt constructs a Scorer with a fixed clock, for tests.
func NewScorerAt(now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{now: now}
}

// Score computes the full score set for one snapshot.  Scoring never fails:
// missing attributes contribute their default penalties.
func (sc *Scorer) Score(snap *supplier.Snapshot) ScoreSet {
	now := sc.now()

	financial := clampScore(
		creditPenalty(snap.CreditRating) +
			revenuePenalty(snap.AnnualRevenue) +
			yearsPenalty(snap.YearsInBusiness))

	operational := clampScore(
		deliveryPenalty(snap.OnTimeDeliveryRate) +
			qualityPenalty(snap.QualityRating) +
			employeePenalty(snap.EmployeeCount))

	compliance := clampScore(
		isoCertPenalty(snap.ISOCertifications) +
			complianceCertPenalty(snap.ComplianceCertifications) +
			lastAuditPenalty(snap.LastAuditDate, now) +
			nextAuditPenalty(snap.NextAuditDue, now))

	geographic := clampScore(geographicScore(snap.Country))

	overall := int(math.Round(
		categoryWeights.Financial*float64(financial) +
			categoryWeights.Operational*float64(operational) +
			categoryWeights.Compliance*float64(compliance) +
			categoryWeights.Geographic*float64(geographic)))

	return ScoreSet{
		Financial:   financial,
		Operational: operational,
		Compliance:  compliance,
		Geographic:  geographic,
		Overall:     clampScore(overall),
	}
}

// clampScore bounds a score to [0,100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ---------------------------------------------------------------------------
// Mitigation recommendations
// ---------------------------------------------------------------------------

// mitigation thresholds: a category above 60 (or overall above 70) triggers
// its action pair.
const (
	categoryActionThreshold = 60
	overallActionThreshold  = 70
)

// MitigationActions returns the ordered list of mitigation recommendations
// for a score set.  A score set with no elevated categories yields a single
// steady-state recommendation.
func MitigationActions(scores ScoreSet) []string {
	var actions []string

	if scores.Financial > categoryActionThreshold {
		actions = append(actions,
			"Consider requesting financial statements and credit references",
			"Implement shorter payment terms or require advance payments",
		)
	}
	if scores.Operational > categoryActionThreshold {
		actions = append(actions,
			"Establish closer operational monitoring and performance reviews",
			"Identify and qualify backup suppliers for critical items",
		)
	}
	if scores.Compliance > categoryActionThreshold {
		actions = append(actions,
			"Request updated compliance documentation and certifications",
			"Schedule a compliance audit within the next quarter",
		)
	}
	if scores.Geographic > categoryActionThreshold {
		actions = append(actions,
			"Monitor geopolitical and economic stability in supplier region",
			"Consider diversifying suppliers across regions",
		)
	}
	if scores.Overall > overallActionThreshold {
		actions = append(actions,
			"Consider downgrading supplier tier or status",
			"Implement enhanced monitoring and regular risk reassessment",
		)
	}

	if len(actions) == 0 {
		actions = append(actions, "Continue standard monitoring procedures")
	}
	return actions
}

// FactorSummaries describes the elevated contributors to a score set in
// human-readable form, in fixed category order.
func FactorSummaries(scores ScoreSet) []string {
	type categoryScore struct {
		name  string
		score int
	}
	categories := []categoryScore{
		{"financial", scores.Financial},
		{"operational", scores.Operational},
		{"compliance", scores.Compliance},
		{"geographic", scores.Geographic},
	}

	var factors []string
	for _, c := range categories {
		if c.score > categoryActionThreshold {
			factors = append(factors, fmt.Sprintf("Elevated %s risk (%d/100)", c.name, c.score))
		}
	}
	if len(factors) == 0 {
		factors = append(factors, "No elevated risk categories")
	}
	return factors
}
