// Package formulas centralizes small statistical helpers shared by scoring
// code, built on top of gonum.org/v1/gonum/stat.
package formulas

import "gonum.org/v1/gonum/stat"

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}
