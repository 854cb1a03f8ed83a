package loader

import "math"

// Round4 rounds x to 4 decimal places, halves away from zero.
func Round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
