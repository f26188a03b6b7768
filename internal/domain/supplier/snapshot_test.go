package supplier

import (
	"testing"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func decPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func TestSnapshot_Validate(t *testing.T) {
	tests := []struct {
		name    string
		snap    Snapshot
		wantErr bool
	}{
		{"minimal valid", Snapshot{ID: "SUP-1"}, false},
		{"empty id", Snapshot{}, true},
		{"delivery rate in range", Snapshot{ID: "SUP-1", OnTimeDeliveryRate: decPtr(95.5)}, false},
		{"delivery rate above 100", Snapshot{ID: "SUP-1", OnTimeDeliveryRate: decPtr(100.1)}, true},
		{"delivery rate negative", Snapshot{ID: "SUP-1", OnTimeDeliveryRate: decPtr(-1)}, true},
		{"quality in range", Snapshot{ID: "SUP-1", QualityRating: decPtr(10)}, false},
		{"quality above 10", Snapshot{ID: "SUP-1", QualityRating: decPtr(10.5)}, true},
		{"negative employees", Snapshot{ID: "SUP-1", EmployeeCount: intPtr(-1)}, true},
		{"negative years", Snapshot{ID: "SUP-1", YearsInBusiness: intPtr(-3)}, true},
		{"negative revenue", Snapshot{ID: "SUP-1", AnnualRevenue: decPtr(-100)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshot_KeyFieldCount(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want int
	}{
		{"none populated", Snapshot{ID: "SUP-1"}, 0},
		{"all five populated", Snapshot{
			ID:                 "SUP-1",
			AnnualRevenue:      decPtr(2e9),
			EmployeeCount:      intPtr(2000),
			QualityRating:      decPtr(9.5),
			OnTimeDeliveryRate: decPtr(96),
			CreditRating:       strPtr("AAA"),
		}, 5},
		{"partial", Snapshot{
			ID:            "SUP-1",
			QualityRating: decPtr(7),
			CreditRating:  strPtr("BB"),
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.KeyFieldCount(); got != tt.want {
				t.Errorf("KeyFieldCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
