package util

import "math"

// RoundHalfUp rounds to the nearest integer with ties going up,
// so 69.5 becomes 70, never 69.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Percent computes round-half-up(part/total*100). A zero total yields 0
// rather than dividing by zero.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return RoundHalfUp(float64(part) / float64(total) * 100)
}
