package utils

import "math"

// RoundCents rounds a money amount to two decimal places. Intermediate
// pricing math stays unrounded; only line items presented to callers (and
// stored on bookings) are rounded.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
