package discovery

import (
	"time"

	"github.com/stellar/route-engine/internal/domain"
)

// DiscoverHubEdges builds bidirectional XLM_HUB fallback edges between the
// native asset and every non-native asset in nodeKeys that has no DEX edge
// to it per covered (spec.md §4.2 "XLM-Hub edges").
func (d *Discoverer) DiscoverHubEdges(nodeKeys []domain.AssetKey, native domain.AssetKey, covered map[Pair]bool) []*domain.Edge {
	var edges []*domain.Edge
	now := time.Now()

	for _, key := range nodeKeys {
		if key.Equal(native) {
			continue
		}
		pair := NewPair(key, native)
		if covered[pair] {
			continue
		}

		unverified := true // no independent verification source is available to a synthetic hub edge
		weight := XLMHubBase
		if unverified {
			weight += XLMHubUnverified
		}

		detail := &domain.XLMHubDetail{OriginAssetCode: key.Code, OriginDomain: "", Estimated: true}

		fwd := &domain.Edge{Src: key, Dst: native, Type: domain.EdgeXLMHub, Weight: weight, Hub: detail, UpdatedAt: now}
		rev := &domain.Edge{Src: native, Dst: key, Type: domain.EdgeXLMHub, Weight: weight, Hub: detail, UpdatedAt: now}
		edges = append(edges, fwd, rev)
	}

	return edges
}
