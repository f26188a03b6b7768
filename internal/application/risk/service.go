package risk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/config"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/domain/supplier"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/chainscope/SupplyRisk-Intelligence/pkg/errors"
)

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// Cache abstracts the assessment cache.  Implementations serialize values as
// JSON; Get decodes into dest and returns an error on a miss.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MetricsCollector abstracts metric emission so the application layer does
// not depend on a concrete metrics backend.
type MetricsCollector interface {
	IncCounter(name string, labels map[string]string)
	ObserveHistogram(name string, value float64, labels map[string]string)
}

type noopCache struct{}

func (noopCache) Get(_ context.Context, key string, _ interface{}) error {
	return fmt.Errorf("cache miss: %s", key)
}
func (noopCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error { return nil }
func (noopCache) Delete(_ context.Context, _ string) error                              { return nil }

type noopMetrics struct{}

func (noopMetrics) IncCounter(_ string, _ map[string]string)                  {}
func (noopMetrics) ObserveHistogram(_ string, _ float64, _ map[string]string) {}

// ---------------------------------------------------------------------------
// Assessment result
// ---------------------------------------------------------------------------

// Assessment is a point-in-time risk evaluation of one supplier.
type Assessment struct {
	AssessmentID     string    `json:"assessment_id"`
	SupplierID       string    `json:"supplier_id"`
	SupplierName     string    `json:"supplier_name,omitempty"`
	Scores           ScoreSet  `json:"scores"`
	Level            RiskLevel `json:"level"`
	LevelDescription string    `json:"level_description"`
	LevelColor       string    `json:"level_color"`

	RiskFactors       []string `json:"risk_factors"`
	MitigationActions []string `json:"mitigation_actions"`

	AssessedAt time.Time `json:"assessed_at"`
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service is the application entry point for risk assessment, prediction,
// and alternative-supplier recommendation.
type Service interface {
	AssessSupplier(ctx context.Context, snap *supplier.Snapshot) (*Assessment, error)
	AssessBatch(ctx context.Context, snaps []*supplier.Snapshot) ([]*Assessment, error)
	PredictSupplierRisk(ctx context.Context, snap *supplier.Snapshot, horizonDays int) (*Prediction, error)
	RecommendAlternatives(ctx context.Context, candidates []*supplier.Snapshot, baseline *supplier.Snapshot, criteria *Criteria) ([]*Recommendation, error)
}

type riskService struct {
	scorer  *Scorer
	gateway *PredictionGateway
	ranker  *Ranker
	cache   Cache
	metrics MetricsCollector
	logger  logging.Logger
	cfg     config.RiskConfig
	now     func() time.Time
}

// NewService wires the risk application service.  cache and metrics may be
// nil; noop implementations are substituted so call sites stay unconditional.
func NewService(
	scorer *Scorer,
	gateway *PredictionGateway,
	ranker *Ranker,
	cache Cache,
	metrics MetricsCollector,
	logger logging.Logger,
	cfg config.RiskConfig,
) Service {
	if scorer == nil {
		scorer = NewScorer()
	}
	if ranker == nil {
		ranker = NewRanker(scorer, logger, 0)
	}
	if cache == nil {
		cache = noopCache{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = config.DefaultBatchConcurrency
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = config.DefaultCacheTTL
	}
	return &riskService{
		scorer:  scorer,
		gateway: gateway,
		ranker:  ranker,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

func assessmentCacheKey(supplierID string) string {
	return "assessment:" + supplierID
}

// AssessSupplier scores a single supplier.  A cached assessment for the same
// supplier ID is returned as-is when present; a fresh one is written back on
// a miss.
func (s *riskService) AssessSupplier(ctx context.Context, snap *supplier.Snapshot) (*Assessment, error) {
	start := s.now()

	if err := snap.Validate(); err != nil {
		s.metrics.IncCounter("risk_assessments_total", map[string]string{"outcome": "invalid"})
		return nil, err
	}

	key := assessmentCacheKey(snap.ID)
	var cached Assessment
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		s.metrics.IncCounter("risk_assessments_total", map[string]string{"outcome": "cache_hit"})
		return &cached, nil
	}

	assessment := s.assess(snap)

	if err := s.cache.Set(ctx, key, assessment, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache assessment",
			logging.String("supplier_id", snap.ID), logging.Err(err))
	}

	s.metrics.IncCounter("risk_assessments_total", map[string]string{"outcome": "computed"})
	s.metrics.ObserveHistogram("risk_assessment_duration_seconds",
		s.now().Sub(start).Seconds(), nil)

	s.logger.Info("supplier assessed",
		logging.String("supplier_id", snap.ID),
		logging.Int("overall_score", assessment.Scores.Overall),
		logging.String("level", string(assessment.Level)))

	return assessment, nil
}

// assess performs the pure scoring step without cache or metrics.
func (s *riskService) assess(snap *supplier.Snapshot) *Assessment {
	scores := s.scorer.Score(snap)
	level := scores.Level()
	return &Assessment{
		AssessmentID:      uuid.New().String(),
		SupplierID:        snap.ID,
		SupplierName:      snap.Name,
		Scores:            scores,
		Level:             level,
		LevelDescription:  level.Description(),
		LevelColor:        level.Color(),
		RiskFactors:       FactorSummaries(scores),
		MitigationActions: MitigationActions(scores),
		AssessedAt:        s.now(),
	}
}

// AssessBatch assesses the snapshots concurrently under a bounded worker
// pool.  Invalid snapshots are logged and skipped; the returned slice keeps
// the input order of the successful assessments.  When at least one snapshot
// fails, the successes are still returned together with a
// BatchPartiallyFailed error carrying the failure count.
func (s *riskService) AssessBatch(ctx context.Context, snaps []*supplier.Snapshot) ([]*Assessment, error) {
	if len(snaps) == 0 {
		return nil, nil
	}

	results := make([]*Assessment, len(snaps))
	failures := make([]error, len(snaps))

	sem := make(chan struct{}, s.cfg.BatchConcurrency)
	var wg sync.WaitGroup

	for i, snap := range snaps {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, snap *supplier.Snapshot) {
			defer wg.Done()
			defer func() { <-sem }()

			if snap == nil {
				failures[i] = errors.New(errors.ErrCodeSnapshotInvalid, "nil snapshot in batch")
				return
			}
			a, err := s.AssessSupplier(ctx, snap)
			if err != nil {
				failures[i] = err
				s.logger.Warn("batch assessment item failed",
					logging.String("supplier_id", snap.ID), logging.Err(err))
				return
			}
			results[i] = a
		}(i, snap)
	}
	wg.Wait()

	assessments := make([]*Assessment, 0, len(snaps))
	failed := 0
	for i, a := range results {
		if a != nil {
			assessments = append(assessments, a)
			continue
		}
		if failures[i] != nil {
			failed++
		}
	}

	s.metrics.ObserveHistogram("risk_batch_size", float64(len(snaps)), nil)

	if failed > 0 {
		return assessments, errors.Newf(errors.ErrCodeBatchPartiallyFailed,
			"%d of %d suppliers could not be assessed", failed, len(snaps))
	}
	return assessments, nil
}

// PredictSupplierRisk delegates to the prediction gateway.  A nil gateway
// means prediction was not wired, which is an operator error.
func (s *riskService) PredictSupplierRisk(ctx context.Context, snap *supplier.Snapshot, horizonDays int) (*Prediction, error) {
	if s.gateway == nil {
		return nil, errors.New(errors.ErrCodePredictionUnavailable, "prediction gateway not configured")
	}
	start := s.now()
	pred, err := s.gateway.Predict(ctx, snap, horizonDays)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveHistogram("risk_prediction_duration_seconds",
		s.now().Sub(start).Seconds(), map[string]string{"source": pred.Source})
	return pred, nil
}

// RecommendAlternatives delegates to the ranker.
func (s *riskService) RecommendAlternatives(_ context.Context, candidates []*supplier.Snapshot, baseline *supplier.Snapshot, criteria *Criteria) ([]*Recommendation, error) {
	recs, err := s.ranker.Rank(candidates, baseline, criteria)
	if err != nil {
		return nil, err
	}
	s.metrics.IncCounter("risk_recommendation_requests_total", nil)
	s.metrics.ObserveHistogram("risk_recommendation_candidates", float64(len(candidates)), nil)
	return recs, nil
}
