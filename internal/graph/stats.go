package graph

import (
	"math"

	"github.com/stellar/route-engine/internal/domain"
)

// Stats is the on-demand snapshot described in spec.md §4.1 "Stats".
type Stats struct {
	NodeCount        int
	EdgeCount        int
	EdgeCountByType  map[domain.EdgeType]int
	NodesWithOutEdge int
	ConnectivityRatio float64
	MeanEdgeWeight    float64
	Version           uint64
	BuiltAt           string
}

// Stats computes the current graph statistics. It takes only the read lock
// and never mutates state.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	byType := map[domain.EdgeType]int{}
	nodesWithOut := 0
	var weightSum float64
	var weightCount int

	for _, n := range g.nodes {
		hasOut := false
		for _, edges := range n.Adjacency {
			for _, e := range edges {
				hasOut = true
				byType[e.Type]++
				if !math.IsInf(e.Weight, 1) && !math.IsNaN(e.Weight) {
					weightSum += e.Weight
					weightCount++
				}
			}
		}
		if hasOut {
			nodesWithOut++
		}
	}

	ratio := 0.0
	if len(g.nodes) > 0 {
		ratio = float64(nodesWithOut) / float64(len(g.nodes))
	}
	meanWeight := 0.0
	if weightCount > 0 {
		meanWeight = weightSum / float64(weightCount)
	}

	return Stats{
		NodeCount:         len(g.nodes),
		EdgeCount:         g.edgeCount,
		EdgeCountByType:   byType,
		NodesWithOutEdge:  nodesWithOut,
		ConnectivityRatio: ratio,
		MeanEdgeWeight:    meanWeight,
		Version:           g.version,
		BuiltAt:           g.builtAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
