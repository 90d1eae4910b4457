package metrics

import "time"

// Collector records pipeline outcomes. Implementations must be safe for
// concurrent use.
type Collector interface {
	RecordAssessment(status, source string, duration time.Duration, rows int)
	RecordFallback(reason string)
}

// Fallback reasons.
const (
	ReasonModelUnavailable = "model_unavailable"
	ReasonInferenceError   = "inference_error"
)

// NoOpCollector discards everything. It is the default when metrics are off.
type NoOpCollector struct{}

func (NoOpCollector) RecordAssessment(status, source string, duration time.Duration, rows int) {}

func (NoOpCollector) RecordFallback(reason string) {}
