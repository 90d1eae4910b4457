package features

import (
	"math"

	"msme-credit-scoring-backend/internal/models"
)

// FromMap builds a FeatureVector from a loosely typed map such as a decoded
// JSON body. Unknown keys are ignored; missing or non-numeric values are 0.
func FromMap(m map[string]any) models.FeatureVector {
	var fv models.FeatureVector
	for _, name := range models.AllFeatures {
		if v, ok := toFloat(m[string(name)]); ok {
			fv.Set(name, v)
		}
	}
	if b, ok := m["has_temporal_data"].(bool); ok {
		fv.HasTemporalData = b
	}
	return fv
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case bool:
		if x {
			f = 1
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
