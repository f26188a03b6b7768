// Package supplier defines the supplier domain model used by risk assessment,
// prediction, and recommendation.  A Snapshot is a point-in-time projection of
// a supplier's master data; persistence of the underlying records is owned by
// an upstream system, so this package carries no repository.
package supplier

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/chainscope/SupplyRisk-Intelligence/pkg/errors"
)

// Snapshot is a point-in-time projection of one supplier.  Pointer fields are
// optional: a nil value means the upstream record does not carry the
// attribute, which the scoring layer translates into a conservative default
// contribution rather than an error.
type Snapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Country string `json:"country,omitempty"`

	// Active marks the supplier as eligible for sourcing.  Inactive suppliers
	// are still scorable but never recommended.
	Active bool `json:"active"`

	// ── Financial attributes ──────────────────────────────────────────────────
	CreditRating    *string          `json:"credit_rating,omitempty"` // "AAA" .. "D"
	AnnualRevenue   *decimal.Decimal `json:"annual_revenue,omitempty"`
	YearsInBusiness *int             `json:"years_in_business,omitempty"`

	// ── Operational attributes ────────────────────────────────────────────────
	OnTimeDeliveryRate *decimal.Decimal `json:"on_time_delivery_rate,omitempty"` // percentage, 0..100
	QualityRating      *decimal.Decimal `json:"quality_rating,omitempty"`        // 0..10
	EmployeeCount      *int             `json:"employee_count,omitempty"`

	// ── Compliance attributes ─────────────────────────────────────────────────
	ISOCertifications        []string   `json:"iso_certifications,omitempty"`
	ComplianceCertifications []string   `json:"compliance_certifications,omitempty"`
	LastAuditDate            *time.Time `json:"last_audit_date,omitempty"`
	NextAuditDue             *time.Time `json:"next_audit_due,omitempty"`

	// ── Commercial attributes ─────────────────────────────────────────────────
	CostCompetitivenessScore *decimal.Decimal `json:"cost_competitiveness_score,omitempty"` // 0..100
	ResponsivenessScore      *decimal.Decimal `json:"responsiveness_score,omitempty"`       // 0..100
}

// Validate checks structural invariants of the snapshot.  Range checks apply
// only to populated optional fields; absence is always legal.
func (s *Snapshot) Validate() error {
	if s == nil {
		return errors.NewValidation("snapshot cannot be nil")
	}
	if s.ID == "" {
		return errors.NewValidation("snapshot ID cannot be empty")
	}
	if s.OnTimeDeliveryRate != nil {
		if r := *s.OnTimeDeliveryRate; r.IsNegative() || r.GreaterThan(decimal.NewFromInt(100)) {
			return errors.NewValidation("on_time_delivery_rate must be within [0, 100]")
		}
	}
	if s.QualityRating != nil {
		if q := *s.QualityRating; q.IsNegative() || q.GreaterThan(decimal.NewFromInt(10)) {
			return errors.NewValidation("quality_rating must be within [0, 10]")
		}
	}
	if s.EmployeeCount != nil && *s.EmployeeCount < 0 {
		return errors.NewValidation("employee_count cannot be negative")
	}
	if s.YearsInBusiness != nil && *s.YearsInBusiness < 0 {
		return errors.NewValidation("years_in_business cannot be negative")
	}
	if s.AnnualRevenue != nil && s.AnnualRevenue.IsNegative() {
		return errors.NewValidation("annual_revenue cannot be negative")
	}
	return nil
}

// KeyFieldCount returns how many of the snapshot's key predictive fields are
// populated: annual revenue, employee count, quality rating, on-time delivery
// rate, and credit rating.  Prediction confidence scales with this count.
func (s *Snapshot) KeyFieldCount() int {
	n := 0
	if s.AnnualRevenue != nil {
		n++
	}
	if s.EmployeeCount != nil {
		n++
	}
	if s.QualityRating != nil {
		n++
	}
	if s.OnTimeDeliveryRate != nil {
		n++
	}
	if s.CreditRating != nil {
		n++
	}
	return n
}
