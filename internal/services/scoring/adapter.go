package scoring

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"msme-credit-scoring-backend/internal/classifier"
	"msme-credit-scoring-backend/internal/logging"
	"msme-credit-scoring-backend/internal/models"
)

// Adapter feeds a FeatureVector to the loaded classifier. A nil classifier
// is valid and makes every Score call return ErrModelUnavailable.
type Adapter struct {
	model  classifier.Model
	schema Schema
	logger *logging.Logger
}

func NewAdapter(model classifier.Model, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.L()
	}
	a := &Adapter{model: model, logger: logger.Named("scoring")}
	if model != nil {
		a.schema = SchemaForWidth(model.NumFeatures())
	}
	return a
}

// ClassifierInfo describes the loaded classifier.
type ClassifierInfo struct {
	Loaded        bool   `json:"model_loaded"`
	Type          string `json:"model_type,omitempty"`
	NumFeatures   int    `json:"n_features,omitempty"`
	Schema        string `json:"feature_schema,omitempty"`
	Probabilistic bool   `json:"probabilistic"`
}

func (a *Adapter) Describe() ClassifierInfo {
	if a.model == nil {
		return ClassifierInfo{}
	}
	_, proba := a.model.(classifier.ProbabilisticModel)
	return ClassifierInfo{
		Loaded:        true,
		Type:          a.model.Name(),
		NumFeatures:   a.model.NumFeatures(),
		Schema:        a.schema.Version,
		Probabilistic: proba,
	}
}

// Score invokes the classifier once. Failures are returned as
// ErrModelUnavailable or *InferenceError; callers fall back on either.
func (a *Adapter) Score(fv models.FeatureVector) (res models.ScoringResult, err error) {
	if a.model == nil {
		return models.ScoringResult{}, ErrModelUnavailable
	}

	defer func() {
		if r := recover(); r != nil {
			res = models.ScoringResult{}
			err = &InferenceError{Err: fmt.Errorf("classifier panic: %v", r)}
		}
	}()

	x, err := a.schema.Vector(fv)
	if err != nil {
		return models.ScoringResult{}, &InferenceError{Err: err}
	}

	res = models.ScoringResult{Source: models.SourceModel, ModelType: a.model.Name()}

	if pm, ok := a.model.(classifier.ProbabilisticModel); ok {
		proba, err := pm.PredictProba(x)
		if err != nil {
			return models.ScoringResult{}, &InferenceError{Err: err}
		}
		p, err := positiveClass(proba)
		if err != nil {
			return models.ScoringResult{}, &InferenceError{Err: err}
		}
		res.Probability = &p
	}

	label, err := a.model.Predict(x)
	if err != nil {
		return models.ScoringResult{}, &InferenceError{Err: err}
	}
	res.Label = label

	fields := []zap.Field{
		zap.String("model_type", res.ModelType),
		zap.String("schema", a.schema.Version),
		zap.Int("label", label),
	}
	if res.Probability != nil {
		fields = append(fields, zap.Float64("probability", *res.Probability))
	}
	a.logger.Info("classifier prediction", fields...)
	return res, nil
}

// positiveClass takes the creditworthy mass: index 1 of a binary output,
// or the only value of a single-class output.
func positiveClass(proba []float64) (float64, error) {
	var p float64
	switch len(proba) {
	case 0:
		return 0, fmt.Errorf("empty probability output")
	case 1:
		p = proba[0]
	default:
		p = proba[1]
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("probability %v outside [0,1]", p)
	}
	return p, nil
}
