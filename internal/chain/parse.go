package chain

import (
	"math"
	"strconv"

	apperrors "mcx-signals/internal/errors"
)

// The raw payloads are duck-typed JSON with source-specific field names, so
// adapters decode into generic maps and pull fields through these helpers.
// A missing field is quietly zero; a present-but-malformed field is zero plus
// a recorded parse issue.

func numField(m map[string]interface{}, key string, report *apperrors.ParseReport, strike float64, leg string) float64 {
	raw, ok := m[key]
	if !ok || raw == nil {
		return 0
	}
	v, ok := toFloat(raw)
	if !ok {
		report.Add(strike, leg, key, "not numeric")
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		report.Add(strike, leg, key, "not finite")
		return 0
	}
	return v
}

func intField(m map[string]interface{}, key string, report *apperrors.ParseReport, strike float64, leg string) int64 {
	return int64(numField(m, key, report, strike, leg))
}

func strField(m map[string]interface{}, key string) string {
	if raw, ok := m[key]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return ""
}

func subMap(m map[string]interface{}, key string) map[string]interface{} {
	if raw, ok := m[key]; ok {
		if sub, ok := raw.(map[string]interface{}); ok {
			return sub
		}
	}
	return nil
}

func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
