package dispatch

import (
	"math"
	"strconv"
)

// Argument defaults and bounds for the search function.
const (
	defaultPageNo    = 1
	defaultNumOfRows = 10
	maxNumOfRows     = 100
	defaultCategory  = 0
)

// validCategories are the category codes the upstream accepts.
var validCategories = map[int]bool{
	0: true, 1: true, 2: true, 3: true, 4: true, 5: true,
	6: true, 7: true, 8: true, 9: true, 11: true,
}

// coercePositive returns the argument as an int when it parses as a finite
// number greater than zero, and fallback otherwise. JSON numbers arrive as
// float64; strings are parsed for callers that quote their numbers.
func coercePositive(args map[string]any, key string, fallback int) int {
	raw, ok := args[key]
	if !ok {
		return fallback
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fallback
		}
		f = parsed
	default:
		return fallback
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return fallback
	}
	return int(f)
}

// stringArg returns the argument as a string, "" when absent or not a string.
func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
