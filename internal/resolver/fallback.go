package resolver

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/money"
)

// fallbackFixedScore is the fixed composite spec.md §4.5.3 assigns to every
// synthetic horizon_path manifest: these routes bypass scoring entirely
// since there is no topology to score against.
const fallbackFixedScore = 0.8

// horizonFallback runs a direct strict-send path search between src and dst
// and synthesizes up to k manifests from the returned records, used when the
// graph itself produces no candidate path (spec.md §4.5.1 "Convert up to k
// returned records").
func (r *Resolver) horizonFallback(ctx context.Context, q domain.Query, sendAmount decimal.Decimal, k int) ([]domain.RouteManifest, error) {
	cctx, cancel := context.WithTimeout(ctx, r.cfg.HorizonTimeout)
	defer cancel()

	records, err := r.horizon.FindStrictSendPaths(cctx, q.SourceKey(), sendAmount.String(), []domain.AssetKey{q.DestKey()})
	if err != nil {
		return nil, err
	}
	if k > 0 && len(records) > k {
		records = records[:k]
	}

	manifests := make([]domain.RouteManifest, 0, len(records))
	now := r.now()
	for _, rec := range records {
		recvAmount, err := decimal.NewFromString(rec.DestinationAmount)
		if err != nil {
			continue
		}

		nodes := make([]domain.AssetKey, 0, len(rec.Path)+2)
		nodes = append(nodes, q.SourceKey())
		for _, p := range rec.Path {
			nodes = append(nodes, p.Key())
		}
		nodes = append(nodes, q.DestKey())

		stops := make([]domain.Stop, len(nodes))
		legs := make([]domain.Leg, 0, len(nodes)-1)
		for i, n := range nodes {
			stops[i] = r.stopFor(n)
			if i > 0 {
				legs = append(legs, domain.Leg{
					Src:  nodes[i-1],
					Dst:  n,
					Type: domain.EdgeHorizonPath,
				})
			}
		}

		manifests = append(manifests, domain.RouteManifest{
			ID:            routeID(nodes, q.Amount),
			Src:           q.SourceKey(),
			Dst:           q.DestKey(),
			SendAmount:    money.Format(sendAmount),
			ReceiveAmount: money.Format(recvAmount),
			Hops:          len(nodes) - 1,
			Path:          stops,
			Legs:          legs,
			EdgeTypes:     map[domain.EdgeType]bool{domain.EdgeHorizonPath: true},
			Score:         domain.ScoreBreakdown{Composite: fallbackFixedScore},
			ComputedAt:    now,
			PriceSource:   domain.PriceHorizon,
			PriceTags:     []string{"horizon_path"},
		})
	}

	return manifests, nil
}
