package emit

import "math"

// ScrubProperties replaces NaN and infinite floats anywhere in a property
// map with "". Spreadsheet pipelines leak literal NaN into JSON, which is
// not valid JSON and breaks map clients downstream.
func ScrubProperties(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = scrubValue(v)
	}
	return out
}

func scrubValue(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		return t
	case float32:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ""
		}
		return t
	case map[string]any:
		return ScrubProperties(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = scrubValue(e)
		}
		return out
	default:
		return v
	}
}
