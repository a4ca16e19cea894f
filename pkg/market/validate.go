package market

import "math"

// ValidOHLC reports whether every price field of a candidate bar is a finite
// number. Providers drop bars failing this check individually instead of
// discarding the series.
func ValidOHLC(open, high, low, closePx float64) bool {
	for _, v := range [4]float64{open, high, low, closePx} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
