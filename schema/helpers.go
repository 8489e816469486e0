package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CoerceFloat converts a raw Census value to a float64. It accepts numeric
// types and numeric strings, stripping comma thousands separators. The boolean
// is false when the value has no usable numeric interpretation; callers treat
// that as "no value", never as zero.
func CoerceFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		trimmed := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		return f, err == nil
	case nil:
		return 0, false
	default:
		return 0, false
	}
}

// Round2 rounds a value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatValue renders a numeric value for human-readable insights:
// 1234567 -> "1.2M", 45678 -> "45.7K", integers without decimals.
func FormatValue(v *float64) string {
	if v == nil {
		return "N/A"
	}
	abs := math.Abs(*v)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", *v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", *v/1_000)
	case *v == math.Trunc(*v):
		return strconv.Itoa(int(*v))
	default:
		return fmt.Sprintf("%.2f", *v)
	}
}

// Float64Ptr returns a pointer to v. Convenience for optional numeric fields.
func Float64Ptr(v float64) *float64 { return &v }
