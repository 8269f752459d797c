package resolver

import (
	"github.com/shopspring/decimal"

	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/money"
	"github.com/stellar/route-engine/internal/pathfinder"
)

// estimateLegs walks a path leg by leg computing a topology-only receive
// estimate, used only as the starting value before Horizon enrichment
// (spec.md §4.5.3 "Estimate without Horizon"). For DEX legs it multiplies by
// the top ask (when present) and then by (1 - spread); for anchor-bridge
// legs it subtracts the fixed fee then applies the percent fee; for
// XLM-Hub legs it multiplies by 0.98. The running amount is floored at
// zero.
func estimateLegs(path pathfinder.Path, sendAmount decimal.Decimal) ([]domain.Leg, decimal.Decimal) {
	legs := make([]domain.Leg, 0, len(path.Edges))
	amount := sendAmount

	for _, e := range path.Edges {
		in := amount
		switch e.Type {
		case domain.EdgeDEX:
			if e.DEX != nil && e.DEX.TopAsk > 0 {
				amount = amount.Mul(decimal.NewFromFloat(e.DEX.TopAsk))
				amount = amount.Mul(decimal.NewFromFloat(1 - e.DEX.Spread))
			}
		case domain.EdgeAnchorBridge:
			if e.Bridge != nil {
				amount = amount.Sub(decimal.NewFromFloat(e.Bridge.FeeFixed))
				if amount.IsNegative() {
					amount = decimal.Zero
				}
				amount = amount.Mul(decimal.NewFromFloat(1 - e.Bridge.FeePercent/100))
			}
		case domain.EdgeXLMHub:
			amount = amount.Mul(decimal.NewFromFloat(0.98))
		}
		if amount.IsNegative() {
			amount = decimal.Zero
		}

		legs = append(legs, domain.Leg{
			Src: e.Src, Dst: e.Dst, Type: e.Type, Weight: e.Weight,
			DEX: e.DEX, Bridge: e.Bridge, Hub: e.Hub,
			AmountIn: money.Format(in), AmountOut: money.Format(amount),
		})
	}

	return legs, amount
}
