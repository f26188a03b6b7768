package risk

import (
	"testing"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/domain/supplier"
)

// fixedSource returns a TrendSource that always yields the given drift.
func fixedSource(drift float64) TrendSource {
	return func() float64 { return drift }
}

func trendSnapshot() *supplier.Snapshot {
	return &supplier.Snapshot{
		ID:                 "SUP-1",
		Country:            "Germany",
		CreditRating:       strPtr("BBB"),
		AnnualRevenue:      decPtr(50_000_000),
		YearsInBusiness:    intPtr(8),
		OnTimeDeliveryRate: decPtr(88),
		QualityRating:      decPtr(7.5),
		EmployeeCount:      intPtr(120),
	}
}

func TestPredict_ZeroDriftKeepsScores(t *testing.T) {
	p := NewTrendPredictor(testScorer(), fixedSource(0))
	pred := p.Predict(trendSnapshot(), 90)

	if pred.PredictedScores != pred.CurrentScores {
		t.Errorf("predicted %+v differs from current %+v under zero drift",
			pred.PredictedScores, pred.CurrentScores)
	}
	if pred.OverallTrend != 0 {
		t.Errorf("OverallTrend = %d, want 0", pred.OverallTrend)
	}
	if pred.RiskTrend != TrendStable {
		t.Errorf("RiskTrend = %s, want %s", pred.RiskTrend, TrendStable)
	}
	if pred.Source != SourceFallback {
		t.Errorf("Source = %s, want %s", pred.Source, SourceFallback)
	}
	if pred.HorizonDays != 90 {
		t.Errorf("HorizonDays = %d, want 90", pred.HorizonDays)
	}
}

func TestPredict_PositiveDriftRaisesScores(t *testing.T) {
	p := NewTrendPredictor(testScorer(), fixedSource(0.10))
	pred := p.Predict(trendSnapshot(), 90)

	if pred.PredictedScores.Overall <= pred.CurrentScores.Overall {
		t.Errorf("expected rise: predicted %d vs current %d",
			pred.PredictedScores.Overall, pred.CurrentScores.Overall)
	}
	if pred.OverallTrend != pred.PredictedScores.Overall-pred.CurrentScores.Overall {
		t.Errorf("OverallTrend = %d inconsistent with score delta", pred.OverallTrend)
	}
}

func TestPredict_ScoresAreClamped(t *testing.T) {
	// Empty snapshot scores near the ceiling; positive drift must not exceed 100.
	p := NewTrendPredictor(testScorer(), fixedSource(0.10))
	pred := p.Predict(&supplier.Snapshot{ID: "SUP-EMPTY"}, 30)

	for name, s := range map[string]int{
		"financial":   pred.PredictedScores.Financial,
		"operational": pred.PredictedScores.Operational,
		"compliance":  pred.PredictedScores.Compliance,
		"geographic":  pred.PredictedScores.Geographic,
		"overall":     pred.PredictedScores.Overall,
	} {
		if s < 0 || s > 100 {
			t.Errorf("%s score %d outside [0,100]", name, s)
		}
	}
}

func TestPredict_DriftDrawsAreBounded(t *testing.T) {
	// A source that misbehaves is clamped to the ±10% band.
	p := NewTrendPredictor(testScorer(), fixedSource(5.0))
	pred := p.Predict(trendSnapshot(), 90)

	maxOverall := driftScore(pred.CurrentScores.Overall, 1.10)
	if pred.PredictedScores.Overall != maxOverall {
		t.Errorf("Overall = %d, want drift clamped result %d",
			pred.PredictedScores.Overall, maxOverall)
	}
}

func TestPredict_SeededSourceIsReproducible(t *testing.T) {
	snap := trendSnapshot()

	a := NewTrendPredictor(testScorer(), NewSeededTrendSource(42)).Predict(snap, 90)
	b := NewTrendPredictor(testScorer(), NewSeededTrendSource(42)).Predict(snap, 90)

	if a.PredictedScores != b.PredictedScores {
		t.Errorf("same seed produced different predictions: %+v vs %+v",
			a.PredictedScores, b.PredictedScores)
	}
}

func TestPredict_AlertRules(t *testing.T) {
	tests := []struct {
		name         string
		predicted    ScoreSet
		overallTrend int
		want         []string
	}{
		{"no alerts", ScoreSet{Overall: 50}, 3, nil},
		{"high risk only", ScoreSet{Overall: 71}, 0, []string{AlertHighRisk}},
		{"boundary 70 not alerted", ScoreSet{Overall: 70}, 0, nil},
		{"trend only", ScoreSet{Overall: 40}, 11, []string{AlertTrendIncreasing}},
		{"boundary trend 10 not alerted", ScoreSet{Overall: 40}, 10, nil},
		{"both", ScoreSet{Overall: 85}, 15, []string{AlertHighRisk, AlertTrendIncreasing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := predictionAlerts(tt.predicted, tt.overallTrend)
			if len(got) != len(tt.want) {
				t.Fatalf("alerts = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("alerts[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPredictionConfidence(t *testing.T) {
	tests := []struct {
		name     string
		snap     *supplier.Snapshot
		expected float64
	}{
		{"empty snapshot", &supplier.Snapshot{ID: "S"}, 50},
		{"two key fields", &supplier.Snapshot{
			ID: "S", CreditRating: strPtr("A"), QualityRating: decPtr(8),
		}, 70},
		{"all five key fields capped", &supplier.Snapshot{
			ID:                 "S",
			CreditRating:       strPtr("A"),
			QualityRating:      decPtr(8),
			AnnualRevenue:      decPtr(1e6),
			EmployeeCount:      intPtr(10),
			OnTimeDeliveryRate: decPtr(90),
		}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := predictionConfidence(tt.snap); got != tt.expected {
				t.Errorf("confidence = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		delta    int
		expected string
	}{
		{6, TrendIncreasing},
		{5, TrendStable},
		{0, TrendStable},
		{-5, TrendStable},
		{-6, TrendDecreasing},
	}
	for _, tt := range tests {
		if got := classifyTrend(tt.delta); got != tt.expected {
			t.Errorf("classifyTrend(%d) = %s, want %s", tt.delta, got, tt.expected)
		}
	}
}
