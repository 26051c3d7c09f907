package processors

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts an OpenDART amount such as "1,234,567" or "-42.5" into
// a number. Empty, dash-only and non-numeric input yields nil.
func ParseAmount(s string) *float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if cleaned == "" || cleaned == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseOrder reads the ord column. Missing or malformed values sort as 0.
func parseOrder(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
