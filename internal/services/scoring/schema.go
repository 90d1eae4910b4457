package scoring

import (
	"fmt"

	"msme-credit-scoring-backend/internal/models"
)

// Schema is a named, ordered feature layout a classifier was trained on.
type Schema struct {
	Version  string
	Features []models.FeatureName
}

var (
	// LegacySchema is the layout of models trained before temporal features.
	LegacySchema = Schema{
		Version:  "v1-legacy",
		Features: models.AllFeatures[:8],
	}
	TemporalSchema = Schema{
		Version:  "v2-temporal",
		Features: models.AllFeatures,
	}
)

var schemas = []Schema{LegacySchema, TemporalSchema}

// SchemaForWidth picks the schema whose width matches the classifier's
// declared input. Unknown widths use TemporalSchema.
func SchemaForWidth(width int) Schema {
	for _, s := range schemas {
		if s.Width() == width {
			return s
		}
	}
	return TemporalSchema
}

// Width is the number of inputs the schema feeds a classifier.
func (s Schema) Width() int { return len(s.Features) }

// Vector lays the features out in schema order.
func (s Schema) Vector(fv models.FeatureVector) ([]float64, error) {
	x := make([]float64, s.Width())
	for i, name := range s.Features {
		v, ok := fv.Value(name)
		if !ok {
			return nil, fmt.Errorf("schema %s: unknown feature %q", s.Version, name)
		}
		x[i] = v
	}
	return x, nil
}
