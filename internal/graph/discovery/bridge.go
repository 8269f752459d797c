package discovery

import (
	"math"
	"time"

	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/registry"
)

// DiscoverBridges builds bidirectional ANCHOR_BRIDGE edges for every
// unordered pair among each active anchor's eligible assets (active, with
// at least one of deposit/withdraw enabled). Distinct anchors bridging the
// same pair each keep their own edge — the pathfinder's best-edge-per-pair
// rule picks the lowest weight per direction (spec.md §4.2, Open Questions).
func (d *Discoverer) DiscoverBridges(anchors []registry.Anchor) []*domain.Edge {
	var edges []*domain.Edge
	now := time.Now()

	for _, anchor := range anchors {
		var eligible []registry.AnchorAsset
		for _, a := range anchor.Assets {
			if a.Active && (a.DepositEnabled || a.WithdrawEnabled) {
				eligible = append(eligible, a)
			}
		}

		for i := 0; i < len(eligible); i++ {
			for j := i + 1; j < len(eligible); j++ {
				a, b := eligible[i], eligible[j]
				weight := bridgeWeight(anchor.Health, anchor.FeePercent, anchor.FeePercent)

				// Traversing a->b means depositing a into the anchor and
				// withdrawing b out of it.
				fwd := &domain.Edge{
					Src: a.Key, Dst: b.Key, Type: domain.EdgeAnchorBridge, Weight: weight,
					Bridge: &domain.AnchorBridgeDetail{
						AnchorDomain: anchor.Domain, AnchorHealth: anchor.Health,
						DepositEnabled: a.DepositEnabled, WithdrawEnabled: b.WithdrawEnabled,
						FeeFixed: anchor.FeeFixed, FeePercent: anchor.FeePercent,
					},
					UpdatedAt: now,
				}
				rev := &domain.Edge{
					Src: b.Key, Dst: a.Key, Type: domain.EdgeAnchorBridge, Weight: weight,
					Bridge: &domain.AnchorBridgeDetail{
						AnchorDomain: anchor.Domain, AnchorHealth: anchor.Health,
						DepositEnabled: b.DepositEnabled, WithdrawEnabled: a.WithdrawEnabled,
						FeeFixed: anchor.FeeFixed, FeePercent: anchor.FeePercent,
					},
					UpdatedAt: now,
				}
				edges = append(edges, fwd, rev)
			}
		}
	}

	return edges
}

func bridgeWeight(health, feeA, feeB float64) float64 {
	w := BridgeBase + (1-health)*HealthPenalty + (feeA+feeB)*FeeMult
	return math.Max(MinWeight, w)
}
