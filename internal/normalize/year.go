package normalize

import (
	"math"
	"strconv"
	"strings"

	"negociosverdes/pkg/model"
)

// Year coerces a year cell to an integer. Thousands separators are dropped, so "2,023"
// becomes 2023, and integral decimals such as "2023.0" are accepted. Anything else becomes
// null.
func Year(v model.Value) model.Value {
	switch v.Kind() {
	case model.KindInt:
		return v
	case model.KindString:
		return parseYear(v.Text())
	default:
		return model.Null()
	}
}

func parseYear(s string) model.Value {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return model.Null()
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return model.Int(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return model.Null()
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return model.Null()
	}
	return model.Int(int64(f))
}
