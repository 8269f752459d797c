// Package discovery produces the three edge families the Route Graph is
// built from: DEX, Anchor-Bridge and XLM-Hub (spec.md §4.2 "Edge
// Discovery").
package discovery

import "github.com/stellar/route-engine/internal/domain"

// Pair is an unordered asset pair, used to dedupe candidate trading pairs
// and to mask which pairs are already covered by DEX edges.
type Pair struct {
	A, B domain.AssetKey
}

// NewPair returns a canonically-ordered pair so {a,b} and {b,a} compare
// equal as map keys.
func NewPair(a, b domain.AssetKey) Pair {
	if a.String() <= b.String() {
		return Pair{A: a, B: b}
	}
	return Pair{A: b, B: a}
}
