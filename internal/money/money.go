// Package money centralizes decimal-amount handling. All amounts cross the
// external contract as decimal strings (spec.md §9 "Decimal amounts"); this
// package converts to shopspring/decimal at the enrichment boundary so fee
// and spread multiplication never drifts through float64, and formats back
// to a fixed seven-fractional-digit string at the output boundary.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OutputScale is the number of fractional digits emitted at the output
// boundary.
const OutputScale = 7

// Parse converts a decimal string into a Decimal. Empty or malformed input
// yields an error; callers at the validation boundary reject non-positive
// amounts explicitly.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// Format renders d as a fixed seven-fractional-digit decimal string.
func Format(d decimal.Decimal) string {
	return d.StringFixed(OutputScale)
}

// IsPositive reports whether the decimal string represents a strictly
// positive amount.
func IsPositive(s string) bool {
	d, err := Parse(s)
	if err != nil {
		return false
	}
	return d.IsPositive()
}
