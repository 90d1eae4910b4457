package scoring

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable means no classifier was loaded at startup.
var ErrModelUnavailable = errors.New("scoring: classifier not loaded")

// InferenceError wraps any failure raised while invoking the classifier.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("scoring: inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
