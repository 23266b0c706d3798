package domain

import "encoding/json"

// AssembleFeatures builds the ordered numeric vector a model expects from a
// loosely typed payload. For each schema name, in order, the payload value is
// coerced to float64; missing or non-numeric values become 0.0. Partial
// payloads therefore never fail a request, at the cost of silently degrading
// prediction quality for the missing fields. The result always has
// len(schema) elements.
func AssembleFeatures(schema []string, payload map[string]any) []float64 {
	vec := make([]float64, len(schema))
	for i, name := range schema {
		vec[i] = coerceFloat(payload[name])
	}
	return vec
}

func coerceFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint64:
		return float64(t)
	case bool:
		if t {
			return 1.0
		}
		return 0.0
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0.0
		}
		return f
	default:
		return 0.0
	}
}
