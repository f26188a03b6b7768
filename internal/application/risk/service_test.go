package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/config"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/domain/supplier"
	"github.com/chainscope/SupplyRisk-Intelligence/pkg/errors"
)

// memCache is a JSON round-tripping in-memory cache for service tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.data[key]
	if !ok {
		return fmt.Errorf("cache miss: %s", key)
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// countingMetrics records counter increments by name.
type countingMetrics struct {
	mu       sync.Mutex
	counters map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{counters: map[string]int{}}
}

func (m *countingMetrics) IncCounter(name string, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

func (m *countingMetrics) ObserveHistogram(_ string, _ float64, _ map[string]string) {}

func testService(cache Cache, metrics MetricsCollector) Service {
	gw := NewPredictionGateway(nil, NewTrendPredictor(testScorer(), fixedSource(0)), testScorer(),
		GatewayConfig{Mode: config.PredictionModeFallbackOnly, DefaultHorizonDays: 90, MaxHorizonDays: 365},
		nil, metrics)
	return NewService(testScorer(), gw, nil, cache, metrics, nil,
		config.RiskConfig{BatchConcurrency: 4})
}

func TestAssessSupplier_ProducesCompleteAssessment(t *testing.T) {
	svc := testService(nil, nil)

	a, err := svc.AssessSupplier(context.Background(), trendSnapshot())
	if err != nil {
		t.Fatalf("AssessSupplier() error = %v", err)
	}
	if a.AssessmentID == "" {
		t.Error("assessment ID not assigned")
	}
	if a.SupplierID != "SUP-1" {
		t.Errorf("SupplierID = %s, want SUP-1", a.SupplierID)
	}
	if a.Level != a.Scores.Level() {
		t.Errorf("Level = %s inconsistent with scores %+v", a.Level, a.Scores)
	}
	if a.LevelDescription == "" || a.LevelColor == "" {
		t.Error("level narrative fields not populated")
	}
	if len(a.MitigationActions) == 0 {
		t.Error("mitigation actions empty; even calm suppliers get the steady-state action")
	}
	if len(a.RiskFactors) == 0 {
		t.Error("risk factors empty")
	}
	if a.AssessedAt.IsZero() {
		t.Error("AssessedAt not set")
	}
}

func TestAssessSupplier_InvalidSnapshot(t *testing.T) {
	svc := testService(nil, nil)
	_, err := svc.AssessSupplier(context.Background(), &supplier.Snapshot{})
	if !errors.IsCode(err, errors.ErrCodeValidation) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeValidation)
	}
}

func TestAssessSupplier_CacheRoundTrip(t *testing.T) {
	cache := newMemCache()
	svc := testService(cache, nil)

	first, err := svc.AssessSupplier(context.Background(), trendSnapshot())
	if err != nil {
		t.Fatalf("first AssessSupplier() error = %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	second, err := svc.AssessSupplier(context.Background(), trendSnapshot())
	if err != nil {
		t.Fatalf("second AssessSupplier() error = %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d after hit, want still 1", cache.sets)
	}
	if second.AssessmentID != first.AssessmentID {
		t.Errorf("cached assessment ID %s differs from original %s",
			second.AssessmentID, first.AssessmentID)
	}
	if second.Scores != first.Scores {
		t.Errorf("cached scores %+v differ from original %+v", second.Scores, first.Scores)
	}
}

func TestAssessBatch_AllSucceed(t *testing.T) {
	svc := testService(nil, nil)

	snaps := make([]*supplier.Snapshot, 0, 20)
	for i := 0; i < 20; i++ {
		s := trendSnapshot()
		s.ID = fmt.Sprintf("SUP-%03d", i)
		snaps = append(snaps, s)
	}

	assessments, err := svc.AssessBatch(context.Background(), snaps)
	if err != nil {
		t.Fatalf("AssessBatch() error = %v", err)
	}
	if len(assessments) != 20 {
		t.Fatalf("len(assessments) = %d, want 20", len(assessments))
	}
	// Input order is preserved for successes.
	for i, a := range assessments {
		want := fmt.Sprintf("SUP-%03d", i)
		if a.SupplierID != want {
			t.Errorf("assessments[%d].SupplierID = %s, want %s", i, a.SupplierID, want)
		}
	}
}

func TestAssessBatch_PartialFailure(t *testing.T) {
	svc := testService(nil, nil)

	good := trendSnapshot()
	bad := &supplier.Snapshot{} // empty ID
	snaps := []*supplier.Snapshot{good, bad, nil}

	assessments, err := svc.AssessBatch(context.Background(), snaps)
	if err == nil {
		t.Fatal("expected partial failure error")
	}
	if !errors.IsCode(err, errors.ErrCodeBatchPartiallyFailed) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeBatchPartiallyFailed)
	}
	if len(assessments) != 1 {
		t.Fatalf("len(assessments) = %d, want the one valid supplier", len(assessments))
	}
	if assessments[0].SupplierID != "SUP-1" {
		t.Errorf("survivor = %s, want SUP-1", assessments[0].SupplierID)
	}
}

func TestAssessBatch_Empty(t *testing.T) {
	svc := testService(nil, nil)
	assessments, err := svc.AssessBatch(context.Background(), nil)
	if err != nil || assessments != nil {
		t.Errorf("empty batch: got (%v, %v), want (nil, nil)", assessments, err)
	}
}

func TestPredictSupplierRisk_Delegates(t *testing.T) {
	metrics := newCountingMetrics()
	svc := testService(nil, metrics)

	pred, err := svc.PredictSupplierRisk(context.Background(), trendSnapshot(), 0)
	if err != nil {
		t.Fatalf("PredictSupplierRisk() error = %v", err)
	}
	if pred.Source != SourceFallback {
		t.Errorf("Source = %s, want %s", pred.Source, SourceFallback)
	}
	if pred.HorizonDays != 90 {
		t.Errorf("HorizonDays = %d, want default 90", pred.HorizonDays)
	}
}

func TestPredictSupplierRisk_NoGateway(t *testing.T) {
	svc := NewService(testScorer(), nil, nil, nil, nil, nil, config.RiskConfig{})
	_, err := svc.PredictSupplierRisk(context.Background(), trendSnapshot(), 90)
	if !errors.IsCode(err, errors.ErrCodePredictionUnavailable) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodePredictionUnavailable)
	}
}

func TestRecommendAlternatives_Delegates(t *testing.T) {
	svc := testService(nil, nil)

	recs, err := svc.RecommendAlternatives(context.Background(),
		[]*supplier.Snapshot{goodCandidate("A"), goodCandidate("B")}, nil, nil)
	if err != nil {
		t.Fatalf("RecommendAlternatives() error = %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("len(recs) = %d, want 2", len(recs))
	}

	_, err = svc.RecommendAlternatives(context.Background(), nil, nil,
		&Criteria{Weights: CriteriaWeights{Quality: 1, Cost: 1, Risk: 1, Delivery: 1}})
	if !errors.IsCode(err, errors.ErrCodeCriteriaInvalid) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeCriteriaInvalid)
	}
}
