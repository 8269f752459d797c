package pathfinder

import (
	"container/heap"

	"github.com/stellar/route-engine/internal/domain"
)

// searchState is one entry in the shortest-path priority queue: the node
// reached, the cumulative weight to reach it, the hop count, and the path
// taken so far. Paths are carried on the heap entries (rather than
// reconstructed from a predecessor map) since candidate paths need the full
// edge sequence for scoring.
type searchState struct {
	node   domain.AssetKey
	weight float64
	hops   int
	nodes  []domain.AssetKey
	edges  []*domain.Edge
}

type searchHeap []searchState

func (h searchHeap) Len() int            { return len(h) }
func (h searchHeap) Less(i, j int) bool  { return h[i].weight < h[j].weight }
func (h searchHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *searchHeap) Push(x interface{}) { *h = append(*h, x.(searchState)) }
func (h *searchHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// shortestPath is a lowest-cost search with a min-priority queue keyed by
// cumulative weight (spec.md §4.4 "Shortest path"). It enforces the hop cap
// per-node, avoids cycles via a visited set, and honors the caller's
// avoidNodes/avoidEdges constraints. Among parallel edges to the same
// neighbor, only the lowest-weight one not blocked by avoidEdges is
// considered (the best-edge-per-pair rule).
func (f *Finder) shortestPath(src, dst domain.AssetKey, maxHops int, avoidNodes map[domain.AssetKey]bool, avoidEdges map[EdgeKey]bool) (Path, bool) {
	if maxHops < 1 || avoidNodes[src] || avoidNodes[dst] {
		return Path{}, false
	}

	pq := &searchHeap{{node: src, weight: 0, hops: 0, nodes: []domain.AssetKey{src}}}
	heap.Init(pq)

	best := make(map[domain.AssetKey]float64)
	best[src] = 0

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(searchState)

		if cur.node.Equal(dst) {
			return Path{Nodes: cur.nodes, Edges: cur.edges, TotalWeight: cur.weight}, true
		}
		if cur.hops >= maxHops {
			continue
		}
		if w, ok := best[cur.node]; ok && cur.weight > w {
			continue // stale entry
		}

		byNeighbor := bestEdgePerNeighbor(f.g.Neighbors(cur.node), avoidEdges)
		for neighbor, edge := range byNeighbor {
			if avoidNodes[neighbor] || containsNode(cur.nodes, neighbor) {
				continue
			}
			newWeight := cur.weight + edge.Weight
			if w, ok := best[neighbor]; ok && newWeight >= w {
				continue
			}
			best[neighbor] = newWeight

			nextNodes := append(append([]domain.AssetKey{}, cur.nodes...), neighbor)
			nextEdges := append(append([]*domain.Edge{}, cur.edges...), edge)
			heap.Push(pq, searchState{
				node: neighbor, weight: newWeight, hops: cur.hops + 1,
				nodes: nextNodes, edges: nextEdges,
			})
		}
	}

	return Path{}, false
}

func bestEdgePerNeighbor(edges []*domain.Edge, avoidEdges map[EdgeKey]bool) map[domain.AssetKey]*domain.Edge {
	best := make(map[domain.AssetKey]*domain.Edge)
	for _, e := range edges {
		if avoidEdges[EdgeKey{e.Src, e.Dst}] {
			continue
		}
		cur, ok := best[e.Dst]
		if !ok || e.Weight < cur.Weight {
			best[e.Dst] = e
		}
	}
	return best
}

func containsNode(nodes []domain.AssetKey, target domain.AssetKey) bool {
	for _, n := range nodes {
		if n.Equal(target) {
			return true
		}
	}
	return false
}
