package risk

import (
	"context"
	"fmt"
	"testing"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/config"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/domain/supplier"
	"github.com/chainscope/SupplyRisk-Intelligence/pkg/errors"
)

// fakePredictor scripts the external service for gateway tests.
type fakePredictor struct {
	result  *ExternalPredictionResult
	err     error
	calls   int
	lastReq ExternalPredictionRequest
}

func (f *fakePredictor) PredictRisk(_ context.Context, req ExternalPredictionRequest) (*ExternalPredictionResult, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakePredictor) Healthy(_ context.Context) error { return nil }

func externalGateway(external ExternalPredictor, allowFallback bool) *PredictionGateway {
	return NewPredictionGateway(
		external,
		NewTrendPredictor(testScorer(), fixedSource(0)),
		testScorer(),
		GatewayConfig{
			Mode:               config.PredictionModeExternal,
			AllowFallback:      allowFallback,
			DefaultHorizonDays: 90,
			MaxHorizonDays:     365,
		},
		nil, nil)
}

func TestGatewayPredict_ExternalSuccess(t *testing.T) {
	fake := &fakePredictor{result: &ExternalPredictionResult{
		Scores:      ScoreSet{Financial: 40, Operational: 35, Compliance: 55, Geographic: 20, Overall: 38},
		RiskFactors: []string{"model factor"},
		RiskTrend:   TrendDecreasing,
		Alerts:      []string{},
		Confidence:  82.5,
	}}
	g := externalGateway(fake, false)

	pred, err := g.Predict(context.Background(), trendSnapshot(), 120)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if pred.Source != SourceExternal {
		t.Errorf("Source = %s, want %s", pred.Source, SourceExternal)
	}
	if pred.PredictedScores.Overall != 38 {
		t.Errorf("predicted overall = %d, want 38", pred.PredictedScores.Overall)
	}
	if pred.RiskTrend != TrendDecreasing {
		t.Errorf("RiskTrend = %s, want %s (external value kept)", pred.RiskTrend, TrendDecreasing)
	}
	if pred.Confidence != 82.5 {
		t.Errorf("Confidence = %v, want 82.5", pred.Confidence)
	}
	if len(pred.Alerts) != 0 {
		t.Errorf("Alerts = %v, want external empty list kept", pred.Alerts)
	}
	if pred.HorizonDays != 120 {
		t.Errorf("HorizonDays = %d, want 120", pred.HorizonDays)
	}
	if fake.lastReq.HorizonDays != 120 {
		t.Errorf("request horizon = %d, want 120", fake.lastReq.HorizonDays)
	}
	// Current scores come from the local scorer regardless of source.
	want := testScorer().Score(trendSnapshot())
	if pred.CurrentScores != want {
		t.Errorf("CurrentScores = %+v, want locally computed %+v", pred.CurrentScores, want)
	}
}

func TestGatewayPredict_ExternalScoresClamped(t *testing.T) {
	fake := &fakePredictor{result: &ExternalPredictionResult{
		Scores:     ScoreSet{Financial: 180, Operational: -5, Compliance: 50, Geographic: 50, Overall: 130},
		Confidence: 250,
	}}
	g := externalGateway(fake, false)

	pred, err := g.Predict(context.Background(), trendSnapshot(), 0)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if pred.PredictedScores.Financial != 100 || pred.PredictedScores.Operational != 0 {
		t.Errorf("scores not clamped: %+v", pred.PredictedScores)
	}
	if pred.PredictedScores.Overall != 100 {
		t.Errorf("overall = %d, want 100", pred.PredictedScores.Overall)
	}
	if pred.Confidence != 100 {
		t.Errorf("confidence = %v, want 100", pred.Confidence)
	}
}

func TestGatewayPredict_ExternalEmptyFieldsDerivedLocally(t *testing.T) {
	fake := &fakePredictor{result: &ExternalPredictionResult{
		Scores: ScoreSet{Financial: 80, Operational: 80, Compliance: 80, Geographic: 80, Overall: 85},
	}}
	g := externalGateway(fake, false)

	pred, err := g.Predict(context.Background(), trendSnapshot(), 90)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if pred.RiskTrend == "" {
		t.Error("empty external trend not classified locally")
	}
	if len(pred.RiskFactors) == 0 {
		t.Error("empty external factors not derived locally")
	}
	// Overall 85 must trip the local high-risk alert.
	found := false
	for _, a := range pred.Alerts {
		if a == AlertHighRisk {
			found = true
		}
	}
	if !found {
		t.Errorf("alerts = %v, want %q derived locally", pred.Alerts, AlertHighRisk)
	}
}

func TestGatewayPredict_ExternalFailureFallsBack(t *testing.T) {
	fake := &fakePredictor{err: fmt.Errorf("connection refused")}
	g := externalGateway(fake, true)

	pred, err := g.Predict(context.Background(), trendSnapshot(), 90)
	if err != nil {
		t.Fatalf("Predict() error = %v, want fallback result", err)
	}
	if pred.Source != SourceFallback {
		t.Errorf("Source = %s, want %s", pred.Source, SourceFallback)
	}
}

func TestGatewayPredict_ExternalFailureStrictMode(t *testing.T) {
	fake := &fakePredictor{err: fmt.Errorf("connection refused")}
	g := externalGateway(fake, false)

	pred, err := g.Predict(context.Background(), trendSnapshot(), 90)
	if err == nil {
		t.Fatal("expected error with fallback disabled")
	}
	if !errors.IsCode(err, errors.ErrCodePredictionUnavailable) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodePredictionUnavailable)
	}
	if pred != nil {
		t.Errorf("prediction = %+v, want nil", pred)
	}
}

func TestGatewayPredict_FallbackOnlyModeSkipsExternal(t *testing.T) {
	fake := &fakePredictor{result: &ExternalPredictionResult{}}
	g := NewPredictionGateway(fake, NewTrendPredictor(testScorer(), fixedSource(0)), testScorer(),
		GatewayConfig{
			Mode:               config.PredictionModeFallbackOnly,
			DefaultHorizonDays: 90,
			MaxHorizonDays:     365,
		}, nil, nil)

	pred, err := g.Predict(context.Background(), trendSnapshot(), 90)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if pred.Source != SourceFallback {
		t.Errorf("Source = %s, want %s", pred.Source, SourceFallback)
	}
	if fake.calls != 0 {
		t.Errorf("external called %d times in fallback-only mode", fake.calls)
	}
}

func TestGatewayPredict_HorizonHandling(t *testing.T) {
	g := externalGateway(nil, false)

	t.Run("default applied", func(t *testing.T) {
		pred, err := g.Predict(context.Background(), trendSnapshot(), 0)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if pred.HorizonDays != 90 {
			t.Errorf("HorizonDays = %d, want default 90", pred.HorizonDays)
		}
	})

	t.Run("over maximum rejected", func(t *testing.T) {
		_, err := g.Predict(context.Background(), trendSnapshot(), 366)
		if !errors.IsCode(err, errors.ErrCodeHorizonInvalid) {
			t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeHorizonInvalid)
		}
	})

	t.Run("maximum accepted", func(t *testing.T) {
		if _, err := g.Predict(context.Background(), trendSnapshot(), 365); err != nil {
			t.Errorf("horizon at maximum rejected: %v", err)
		}
	})
}

func TestGatewayPredict_InvalidSnapshotRejected(t *testing.T) {
	g := externalGateway(nil, false)
	_, err := g.Predict(context.Background(), &supplier.Snapshot{}, 90)
	if !errors.IsCode(err, errors.ErrCodeValidation) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeValidation)
	}
}
