package assessment

import (
	"context"

	"msme-credit-scoring-backend/internal/models"
)

// Recorder persists completed assessments for audit.
type Recorder interface {
	Record(ctx context.Context, filename string, resp *models.AssessmentResponse) error
}

// NoopRecorder is used when no audit database is configured.
type NoopRecorder struct{}

func (NoopRecorder) Record(context.Context, string, *models.AssessmentResponse) error { return nil }
