package resolver

import (
	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/pkg/formulas"
)

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// weightScore, hopsScore, liquidityScore, and reliabilityScore implement the
// sub-score formulas from spec.md §4.5.3, shared by both the pre- and
// post-enrichment composites.

func weightScore(totalWeight float64) float64 {
	s := 1 - totalWeight/5
	if s < 0 {
		return 0
	}
	return s
}

func hopsScore(hops int) float64 {
	s := 1 - float64(hops-1)*0.25
	if s < 0 {
		return 0
	}
	return s
}

func liquidityScore(legs []domain.Leg) float64 {
	var dexDepths []float64
	hasBridge := false
	hasHubOnly := len(legs) > 0

	for _, l := range legs {
		switch l.Type {
		case domain.EdgeDEX:
			if l.DEX != nil {
				dexDepths = append(dexDepths, l.DEX.AskDepth)
			}
			hasHubOnly = false
		case domain.EdgeAnchorBridge:
			hasBridge = true
			hasHubOnly = false
		case domain.EdgeXLMHub:
			// leaves hasHubOnly as-is
		}
	}

	if len(dexDepths) > 0 {
		return clamp01(formulas.Mean(dexDepths) / 1000)
	}
	if hasHubOnly {
		return 0.2
	}
	if hasBridge {
		return 0.3
	}
	return 0.3
}

func reliabilityScore(legs []domain.Leg) float64 {
	var healths []float64
	for _, l := range legs {
		if l.Type == domain.EdgeAnchorBridge && l.Bridge != nil {
			healths = append(healths, l.Bridge.AnchorHealth)
		}
	}
	if len(healths) == 0 {
		return 1.0
	}
	return clamp01(formulas.Mean(healths))
}

// preEnrichmentScore computes the topology-only preliminary composite
// (§4.5.3): 0.30*weight + 0.25*hops + 0.20*liquidity + 0.25*reliability.
func preEnrichmentScore(totalWeight float64, hops int, legs []domain.Leg) domain.ScoreBreakdown {
	w := weightScore(totalWeight)
	h := hopsScore(hops)
	l := liquidityScore(legs)
	r := reliabilityScore(legs)

	composite := 0.30*w + 0.25*h + 0.20*l + 0.25*r
	return domain.ScoreBreakdown{Composite: clamp01(composite), Weight: w, Hops: h, Liquidity: l, Reliability: r}
}

// postEnrichmentScore recomputes the composite with the amount-aware
// formula once every candidate has an enriched receive amount (§4.5.3):
// 0.40*amount + 0.15*weight + 0.15*hops + 0.15*liquidity + 0.15*reliability.
func postEnrichmentScore(receiveAmount, bestReceiveAmount, totalWeight float64, hops int, legs []domain.Leg) domain.ScoreBreakdown {
	amount := 0.0
	if bestReceiveAmount > 0 {
		amount = clamp01(receiveAmount / bestReceiveAmount)
	}
	w := weightScore(totalWeight)
	h := hopsScore(hops)
	l := liquidityScore(legs)
	r := reliabilityScore(legs)

	composite := 0.40*amount + 0.15*w + 0.15*h + 0.15*l + 0.15*r
	return domain.ScoreBreakdown{Composite: clamp01(composite), Amount: amount, Weight: w, Hops: h, Liquidity: l, Reliability: r}
}
