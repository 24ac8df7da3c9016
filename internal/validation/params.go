package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// intParam reads a non-negative integer rule parameter. Missing or unparseable
// values fall back to def so an incomplete rule definition never blocks
// evaluation. Strings are read as decimal; values beyond MaxInt saturate.
func intParam(params map[string]any, key string, def int) int {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def
	}

	var f float64
	if s, isString := raw.(string); isString {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return def
		}
		f = parsed
	} else {
		parsed, err := cast.ToFloat64E(raw)
		if err != nil {
			return def
		}
		f = parsed
	}

	switch {
	case math.IsNaN(f):
		return def
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= 0:
		return 0
	}
	return int(f)
}
