package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration safely parses a duration string like "1s", falling back
// to the given default on empty or malformed input.
func ParseDuration(d string, fallback time.Duration) time.Duration {
	if d == "" {
		return fallback
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return fallback
	}
	return duration
}

// ParseValue coerces a CSV cell into int, float or string (in that order).
func ParseValue(s string) interface{} {
	// Trim whitespace first
	s = strings.TrimSpace(s)

	// try int
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	// try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Numeric converts supported cell types to float64. Anything that is not
// numeric-coercible counts as 0; totals are never dropped and never error.
func Numeric(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Stringify renders a cell as text. Ids that look numeric get coerced by
// ParseValue at parse time, so id comparisons go through here to compare
// by textual form regardless of the stored cell type.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

// NormalizeID cleans an organization id for comparison: every org id
// comparison is whitespace-trimmed and case-insensitive.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
