// Package assessment runs a statement through the scoring pipeline:
// normalize, extract, score, decide, explain.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"msme-credit-scoring-backend/internal/logging"
	"msme-credit-scoring-backend/internal/metrics"
	"msme-credit-scoring-backend/internal/models"
	"msme-credit-scoring-backend/internal/services/explain"
	"msme-credit-scoring-backend/internal/services/features"
	"msme-credit-scoring-backend/internal/services/scoring"
	"msme-credit-scoring-backend/internal/services/statement"
)

// TimestampLayout matches the local, zone-less timestamps the front end expects.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Service is immutable after construction and safe for concurrent requests.
type Service struct {
	adapter   *scoring.Adapter
	extractor *features.Extractor
	explainer *explain.Engine
	recorder  Recorder
	metrics   metrics.Collector
	logger    *logging.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithMetrics(c metrics.Collector) Option {
	return func(s *Service) {
		if c != nil {
			s.metrics = c
		}
	}
}

func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(adapter *scoring.Adapter, extractor *features.Extractor, explainer *explain.Engine, opts ...Option) *Service {
	s := &Service{
		adapter:   adapter,
		extractor: extractor,
		explainer: explainer,
		recorder:  NoopRecorder{},
		metrics:   metrics.NoOpCollector{},
		logger:    logging.L(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("assessment")
	return s
}

// Assess scores one parsed statement. Schema and empty-statement errors are
// returned as-is; classifier failures never are.
func (s *Service) Assess(ctx context.Context, table *statement.Table, filename string) (*models.AssessmentResponse, error) {
	start := s.now()
	id := uuid.New()
	log := s.logger.With(zap.String("assessment_id", id.String()), zap.String("file", filename))

	records, err := statement.Normalize(table)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, statement.ErrEmptyStatement
	}

	fv, err := s.extractor.Extract(records)
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}

	outcome, verdict := s.decide(fv, log)

	resp := &models.AssessmentResponse{
		Status:       "success",
		AssessmentID: id,
		Features:     fv,
		Transactions: statement.BuildViews(records),
		Prediction: models.Prediction{
			DecisionOutcome: outcome,
			Explanations:    s.explainer.Explain(fv, verdict),
		},
		Timestamp: s.now().Format(TimestampLayout),
	}

	if err := s.recorder.Record(ctx, filename, resp); err != nil {
		// the decision stands; only the audit row is lost
		log.Error("record assessment", zap.Error(err))
	}

	s.metrics.RecordAssessment(string(outcome.Status), string(outcome.Source()), s.now().Sub(start), len(records))
	log.Info("statement assessed",
		zap.Int("rows", len(records)),
		zap.String("decision", string(outcome.Status)),
		zap.Float64("score", outcome.Score),
		zap.Bool("model_used", outcome.ModelUsed))

	return resp, nil
}

// decide scores with the classifier and falls back to the rule-based
// scorer when it is missing or fails.
func (s *Service) decide(fv models.FeatureVector, log *logging.Logger) (models.DecisionOutcome, explain.Verdict) {
	res, err := s.adapter.Score(fv)
	if err == nil {
		verdict := explain.LabelVerdict(res.Label)
		if res.Probability != nil {
			verdict = explain.ProbabilityVerdict(res.Label, *res.Probability)
		}
		return scoring.Decide(res, fv), verdict
	}

	reason := metrics.ReasonInferenceError
	if errors.Is(err, scoring.ErrModelUnavailable) {
		reason = metrics.ReasonModelUnavailable
	}
	s.metrics.RecordFallback(reason)
	log.Warn("classifier failed, using fallback scoring", zap.String("reason", reason), zap.Error(err))

	fb := scoring.FallbackScore(fv)
	return scoring.DecideFallback(fb, fv), explain.ProbabilityVerdict(fb.Label(), fb.Probability())
}

// ExplainRequest carries a decision made elsewhere. Prediction is decoded as
// a number so that 1 and 1.0 name the same label.
type ExplainRequest struct {
	Features    map[string]any `json:"features"`
	Prediction  *float64       `json:"prediction"`
	Probability *float64       `json:"probability"`
}

// label returns the class label, or nil when Prediction is absent or not a
// whole number. A nil label is neither creditworthy nor a rejection.
func (r ExplainRequest) label() *int {
	if r.Prediction == nil {
		return nil
	}
	p := *r.Prediction
	if p != math.Trunc(p) || math.IsInf(p, 0) {
		return nil
	}
	label := int(p)
	return &label
}

// ExplainResponse is the body of an explain-only call.
type ExplainResponse struct {
	Status       string                    `json:"status"`
	Explanations models.ExplanationPackage `json:"explanations"`
	Timestamp    string                    `json:"timestamp"`
}

// Explain builds a rationale for an externally supplied decision without
// re-scoring.
func (s *Service) Explain(req ExplainRequest) (*ExplainResponse, error) {
	if len(req.Features) == 0 {
		return nil, explain.ErrNoFeatures
	}
	fv := features.FromMap(req.Features)
	pkg := s.explainer.Explain(fv, explain.Verdict{Label: req.label(), Probability: req.Probability})
	return &ExplainResponse{
		Status:       "success",
		Explanations: pkg,
		Timestamp:    s.now().Format(TimestampLayout),
	}, nil
}

func (s *Service) DescribeClassifier() scoring.ClassifierInfo {
	return s.adapter.Describe()
}

func (s *Service) Now() time.Time {
	return s.now()
}
