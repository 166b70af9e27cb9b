// Package analytics derives cohort statistics and per-record analysis from
// assessment records. Every function is pure and total: malformed or sparse
// records degrade to zeros, never errors, so one corrupt record cannot abort
// a cohort computation.
package analytics

import "math"

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
