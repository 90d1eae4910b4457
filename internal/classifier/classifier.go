// Package classifier holds the trained-model capability used for credit
// scoring and a loader for random forests exported to JSON.
package classifier

import "errors"

var (
	ErrShapeMismatch = errors.New("classifier: input width does not match model")
	ErrInvalidModel  = errors.New("classifier: invalid model file")
)

// Model predicts a class label from a flat feature vector.
// Implementations must be safe for concurrent read-only use.
type Model interface {
	Name() string
	NumFeatures() int
	Predict(x []float64) (int, error)
}

// ProbabilisticModel also reports a probability per class, ordered as the
// classes the model was trained on.
type ProbabilisticModel interface {
	Model
	PredictProba(x []float64) ([]float64, error)
}
