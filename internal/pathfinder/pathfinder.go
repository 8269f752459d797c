// Package pathfinder implements k-shortest paths over the Route Graph
// (spec.md §4.4 "Pathfinder").
package pathfinder

import (
	"container/heap"
	"strings"

	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/graph"
)

// EdgeKey identifies a directed src->dst connection for the avoid-edges set;
// it blocks the whole connection, not one specific parallel edge.
type EdgeKey struct {
	Src, Dst domain.AssetKey
}

// Path is one candidate route: its node sequence, the edge taken on each
// hop, and the cumulative weight.
type Path struct {
	Nodes       []domain.AssetKey
	Edges       []*domain.Edge
	TotalWeight float64
}

func (p Path) key() string {
	parts := make([]string, len(p.Nodes))
	for i, n := range p.Nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ">")
}

// Finder runs pathfinding queries against a live Route Graph.
type Finder struct {
	g *graph.Graph
}

// New creates a Finder bound to g.
func New(g *graph.Graph) *Finder {
	return &Finder{g: g}
}

// KShortestPaths returns up to k simple paths from src to dst with at most
// maxHops edges each, sorted by ascending total weight, per spec.md §4.4.
// avoidNodes and avoidEdges are additional caller-supplied constraints on
// top of the cycle-avoidance the search always performs. A same-source-and-
// destination query returns nil.
func (f *Finder) KShortestPaths(src, dst domain.AssetKey, k, maxHops int, avoidNodes map[domain.AssetKey]bool, avoidEdges map[EdgeKey]bool) []Path {
	if src.Equal(dst) {
		return nil
	}
	if avoidNodes == nil {
		avoidNodes = map[domain.AssetKey]bool{}
	}
	if avoidEdges == nil {
		avoidEdges = map[EdgeKey]bool{}
	}

	first, ok := f.shortestPath(src, dst, maxHops, avoidNodes, avoidEdges)
	if !ok {
		return nil
	}

	accepted := []Path{first}
	seen := map[string]bool{first.key(): true}
	var candidates pathHeap

	for len(accepted) < k {
		last := accepted[len(accepted)-1]

		for i := 0; i < len(last.Nodes)-1; i++ {
			spurNode := last.Nodes[i]
			rootNodes := last.Nodes[:i+1]
			rootKey := pathPrefixKey(rootNodes)

			tempAvoidEdges := cloneEdgeSet(avoidEdges)
			for _, p := range accepted {
				if len(p.Nodes) > i && pathPrefixKey(p.Nodes[:i+1]) == rootKey {
					tempAvoidEdges[EdgeKey{p.Nodes[i], p.Nodes[i+1]}] = true
				}
			}

			tempAvoidNodes := cloneNodeSet(avoidNodes)
			for _, n := range rootNodes[:len(rootNodes)-1] {
				tempAvoidNodes[n] = true
			}

			remainingHops := maxHops - i
			spurPath, ok := f.shortestPath(spurNode, dst, remainingHops, tempAvoidNodes, tempAvoidEdges)
			if !ok {
				continue
			}

			total := Path{
				Nodes:       append(append([]domain.AssetKey{}, rootNodes[:len(rootNodes)-1]...), spurPath.Nodes...),
				Edges:       append(append([]*domain.Edge{}, last.Edges[:i]...), spurPath.Edges...),
				TotalWeight: sumRootWeight(last, i) + spurPath.TotalWeight,
			}

			candidateKey := total.key()
			if seen[candidateKey] {
				continue
			}
			seen[candidateKey] = true
			heap.Push(&candidates, total)
		}

		if candidates.Len() == 0 {
			break
		}
		next := heap.Pop(&candidates).(Path)
		accepted = append(accepted, next)
	}

	return accepted
}

func sumRootWeight(p Path, spurIndex int) float64 {
	var sum float64
	for i := 0; i < spurIndex; i++ {
		sum += p.Edges[i].Weight
	}
	return sum
}

func pathPrefixKey(nodes []domain.AssetKey) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ">")
}

func cloneEdgeSet(s map[EdgeKey]bool) map[EdgeKey]bool {
	out := make(map[EdgeKey]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func cloneNodeSet(s map[domain.AssetKey]bool) map[domain.AssetKey]bool {
	out := make(map[domain.AssetKey]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// pathHeap orders candidate paths by ascending weight, then fewer hops, then
// lexicographic node sequence (spec.md §4.4 "Ties in candidate weight").
type pathHeap []Path

func (h pathHeap) Len() int { return len(h) }
func (h pathHeap) Less(i, j int) bool {
	if h[i].TotalWeight != h[j].TotalWeight {
		return h[i].TotalWeight < h[j].TotalWeight
	}
	if len(h[i].Nodes) != len(h[j].Nodes) {
		return len(h[i].Nodes) < len(h[j].Nodes)
	}
	return h[i].key() < h[j].key()
}
func (h pathHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pathHeap) Push(x interface{}) { *h = append(*h, x.(Path)) }
func (h *pathHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
