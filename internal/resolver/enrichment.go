package resolver

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/horizon"
	"github.com/stellar/route-engine/internal/money"
	"github.com/stellar/route-engine/internal/pathfinder"
)

// enrichPath recomputes a candidate's receive amount against live Horizon
// data where it can, falling back to the topology-only estimate leg by leg
// where it can't (spec.md §4.5.3 "Enrichment"). It returns the enriched legs,
// the final receive amount, and the price source/tag that should be attached
// to the resulting manifest.
//
// A route with no ANCHOR_BRIDGE or XLM_HUB edges is a pure-market route: it
// is validated in one shot against a strict-send path search restricted to
// exactly its own node sequence. A route with bridge or hub hops is split
// into alternating market segments, each priced independently via its own
// strict-send search; bridge/hub legs keep the topology estimate.
func (r *Resolver) enrichPath(ctx context.Context, path pathfinder.Path, sendAmount decimal.Decimal) ([]domain.Leg, decimal.Decimal, domain.PriceSource, []string) {
	estLegs, estAmount := estimateLegs(path, sendAmount)

	if isPureMarket(path) {
		if legs, amt, ok := r.enrichPureMarket(ctx, path, sendAmount, estLegs); ok {
			return legs, amt, domain.PriceHorizon, nil
		}
		return estLegs, estAmount, domain.PriceEstimated, []string{"horizon_estimated"}
	}

	legs, amt, verified := r.enrichSegmented(ctx, path, sendAmount, estLegs)
	if verified {
		return legs, amt, domain.PriceHorizon, nil
	}
	return legs, amt, domain.PriceUnverified, []string{"unverified"}
}

func isPureMarket(path pathfinder.Path) bool {
	for _, e := range path.Edges {
		if e.Type != domain.EdgeDEX {
			return false
		}
	}
	return true
}

// enrichPureMarket issues one strict-send search for the whole path and
// accepts it only if a returned record's path matches the candidate's node
// sequence exactly (§4.5.3 "pure-market routes validated by strict-send path
// match").
func (r *Resolver) enrichPureMarket(ctx context.Context, path pathfinder.Path, sendAmount decimal.Decimal, fallback []domain.Leg) ([]domain.Leg, decimal.Decimal, bool) {
	cctx, cancel := context.WithTimeout(ctx, r.cfg.HorizonTimeout)
	defer cancel()

	dst := path.Nodes[len(path.Nodes)-1]
	records, err := r.horizon.FindStrictSendPaths(cctx, path.Nodes[0], sendAmount.String(), []domain.AssetKey{dst})
	if err != nil || len(records) == 0 {
		return fallback, decimal.Zero, false
	}

	for _, rec := range records {
		if pathMatches(rec, path.Nodes) {
			amt, err := decimal.NewFromString(rec.DestinationAmount)
			if err != nil {
				continue
			}
			legs := applyProportionalPricing(path, fallback, amt)
			return legs, amt, true
		}
	}
	return fallback, decimal.Zero, false
}

func pathMatches(rec horizon.PathRecord, nodes []domain.AssetKey) bool {
	if len(rec.Path) != len(nodes)-2 {
		return false
	}
	for i, p := range rec.Path {
		if !p.Key().Equal(nodes[i+1]) {
			return false
		}
	}
	return true
}

// applyProportionalPricing scales each leg's AmountIn/AmountOut so the final
// leg's AmountOut matches the Horizon-confirmed destination amount, keeping
// the intermediate ratios from the topology estimate.
func applyProportionalPricing(path pathfinder.Path, legs []domain.Leg, confirmed decimal.Decimal) []domain.Leg {
	if len(legs) == 0 {
		return legs
	}
	lastOut, err := decimal.NewFromString(legs[len(legs)-1].AmountOut)
	if err != nil || lastOut.IsZero() {
		return legs
	}
	ratio := confirmed.Div(lastOut)

	out := make([]domain.Leg, len(legs))
	for i, l := range legs {
		in, _ := decimal.NewFromString(l.AmountIn)
		amtOut, _ := decimal.NewFromString(l.AmountOut)
		l.AmountIn = money.Format(in.Mul(ratio))
		l.AmountOut = money.Format(amtOut.Mul(ratio))
		out[i] = l
	}
	return out
}

// enrichSegmented prices each maximal run of consecutive DEX edges with its
// own strict-send search, carrying the topology estimate through bridge and
// hub legs in between (§4.5.3 "bridge routes split into alternating
// market/bridge segments each priced independently"). The whole route is
// reported verified only if it has at least one market segment and every
// market segment resolved against Horizon — a hub-only or bridge-only route
// never reaches an end-to-end Horizon confirmation, so it must fall to the
// unverified tag rather than being reported as horizon-priced.
func (r *Resolver) enrichSegmented(ctx context.Context, path pathfinder.Path, sendAmount decimal.Decimal, fallback []domain.Leg) ([]domain.Leg, decimal.Decimal, bool) {
	legs := make([]domain.Leg, len(fallback))
	copy(legs, fallback)
	allVerified := true
	anySegment := false

	i := 0
	for i < len(path.Edges) {
		if path.Edges[i].Type != domain.EdgeDEX {
			i++
			continue
		}
		start := i
		for i < len(path.Edges) && path.Edges[i].Type == domain.EdgeDEX {
			i++
		}
		anySegment = true
		segNodes := path.Nodes[start : i+1]
		segIn, err := decimal.NewFromString(legs[start].AmountIn)
		if err != nil {
			allVerified = false
			continue
		}

		cctx, cancel := context.WithTimeout(ctx, r.cfg.HorizonTimeout)
		records, err := r.horizon.FindStrictSendPaths(cctx, segNodes[0], segIn.String(), []domain.AssetKey{segNodes[len(segNodes)-1]})
		cancel()
		if err != nil || len(records) == 0 {
			allVerified = false
			continue
		}

		matched := false
		for _, rec := range records {
			if pathMatches(rec, segNodes) {
				amt, err := decimal.NewFromString(rec.DestinationAmount)
				if err != nil {
					continue
				}
				rescaleSegment(legs, start, i, amt)
				matched = true
				break
			}
		}
		if !matched {
			allVerified = false
		}
	}

	final, err := decimal.NewFromString(legs[len(legs)-1].AmountOut)
	if err != nil {
		return legs, decimal.Zero, false
	}
	return legs, final, allVerified && anySegment
}

// rescaleSegment propagates a confirmed destination amount for legs
// [start,end) forward through the remaining legs of the path, preserving the
// per-leg multiplicative ratios the topology estimate already computed.
func rescaleSegment(legs []domain.Leg, start, end int, confirmed decimal.Decimal) {
	oldOut, err := decimal.NewFromString(legs[end-1].AmountOut)
	if err != nil || oldOut.IsZero() {
		return
	}
	ratio := confirmed.Div(oldOut)

	for j := start; j < len(legs); j++ {
		in, _ := decimal.NewFromString(legs[j].AmountIn)
		out, _ := decimal.NewFromString(legs[j].AmountOut)
		legs[j].AmountIn = money.Format(in.Mul(ratio))
		legs[j].AmountOut = money.Format(out.Mul(ratio))
		if j == end-1 {
			legs[j].AmountOut = money.Format(confirmed)
		}
	}
}
