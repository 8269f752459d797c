// Package graph implements the Route Graph: an in-memory directed multigraph
// of assets (spec.md §3 "Graph", §4.1 "Route Graph").
package graph

import (
	"sync"
	"time"

	"github.com/stellar/route-engine/internal/domain"
)

// InvalidateFunc is invoked once a full rebuild completes, so the cache can
// be cleared for the new version (§4.6 "Invalidation").
type InvalidateFunc func()

// Graph is process-wide state: created empty at boot, mutated only by the
// builder, and never destroyed (§3 "Ownership").
//
// Readers (pathfinder, stats, neighbor lookups) take the read lock and never
// block on each other. At most one builder may hold the write lock at a
// time, guarded additionally by the building flag so a concurrent rebuild
// attempt can fail fast without blocking (§4.1 "Build lock").
type Graph struct {
	mu    sync.RWMutex
	nodes map[domain.AssetKey]*domain.Node

	version   uint64
	building  bool
	builtAt   time.Time
	buildDur  time.Duration
	edgeCount int

	onInvalidate InvalidateFunc
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[domain.AssetKey]*domain.Node)}
}

// OnInvalidate registers the callback run by CompleteBuild.
func (g *Graph) OnInvalidate(fn InvalidateFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onInvalidate = fn
}

// Version returns the current monotonic build version.
func (g *Graph) Version() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.version
}

// IsBuilding reports whether a build currently holds the build lock (the
// building flag set by StartBuild).
func (g *Graph) IsBuilding() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.building
}

// StartBuild acquires the build lock. It returns false without mutating
// state if a build is already in progress (§4.1).
func (g *Graph) StartBuild() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.building {
		return false
	}
	g.building = true
	return true
}

// CompleteBuild bumps the version, records build duration, releases the
// lock, and invokes the invalidation callback. Must only be called by the
// holder of a successful StartBuild.
func (g *Graph) CompleteBuild(startedAt time.Time) uint64 {
	g.mu.Lock()
	g.version++
	g.builtAt = time.Now()
	g.buildDur = time.Since(startedAt)
	g.building = false
	v := g.version
	cb := g.onInvalidate
	g.mu.Unlock()

	if cb != nil {
		cb()
	}
	return v
}

// AbortBuild releases the lock without bumping the version, used when a
// full-build attempt fails partway through (§7 "a full-build failure keeps
// the prior graph version installed").
func (g *Graph) AbortBuild() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.building = false
}

// Clear removes all nodes and edges without touching the version or lock
// state. Used when the routable-asset snapshot is empty (§4.3 step 2).
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes = make(map[domain.AssetKey]*domain.Node)
	g.edgeCount = 0
}

// AddOrUpdateNode creates a node or merges non-nil attributes into an
// existing one, never touching its adjacency (§4.1 op 1).
func (g *Graph) AddOrUpdateNode(key domain.AssetKey, attrs domain.NodeAttrs) *domain.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[key]
	if !ok {
		n = domain.NewNode(key)
		g.nodes[key] = n
	}
	n.Merge(attrs)
	return n
}

// GetNode returns the node for key, if present.
func (g *Graph) GetNode(key domain.AssetKey) (*domain.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[key]
	return n, ok
}

// HasNode reports whether key names a node in the current graph.
func (g *Graph) HasNode(key domain.AssetKey) bool {
	_, ok := g.GetNode(key)
	return ok
}

// Neighbors returns a snapshot slice of all edges leaving src. The slice (and
// its Edge pointers) must be treated as read-only by callers.
func (g *Graph) Neighbors(src domain.AssetKey) []*domain.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[src]
	if !ok {
		return nil
	}
	var out []*domain.Edge
	for _, edges := range n.Adjacency {
		out = append(out, edges...)
	}
	return out
}

// EdgesTo returns the edges from src directly to dst, or nil.
func (g *Graph) EdgesTo(src, dst domain.AssetKey) []*domain.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[src]
	if !ok {
		return nil
	}
	return n.Adjacency[dst]
}

// AddEdge installs an edge from src to dst. Both endpoints must already
// exist. If an edge of the same Type already exists from src to dst, it is
// replaced in place — the light-refresh primitive (§4.1 op 2) — otherwise it
// is appended and the edge counter increments.
func (g *Graph) AddEdge(e *domain.Edge) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	src, ok := g.nodes[e.Src]
	if !ok {
		return false
	}
	if _, ok := g.nodes[e.Dst]; !ok {
		return false
	}

	edges := src.Adjacency[e.Dst]
	for i, existing := range edges {
		if existing.Type == e.Type {
			edges[i] = e
			return true
		}
	}
	src.Adjacency[e.Dst] = append(edges, e)
	g.edgeCount++
	return true
}

// AddBidirectional adds two directed edges of the same type between a and b
// with independently specified attributes (§4.1 op 3).
func (g *Graph) AddBidirectional(fwd, rev *domain.Edge) bool {
	okFwd := g.AddEdge(fwd)
	okRev := g.AddEdge(rev)
	return okFwd && okRev
}

// NodeCount returns the number of nodes currently in the graph.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// AllNodeKeys returns a snapshot of every node key in the graph.
func (g *Graph) AllNodeKeys() []domain.AssetKey {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := make([]domain.AssetKey, 0, len(g.nodes))
	for k := range g.nodes {
		keys = append(keys, k)
	}
	return keys
}

// BuiltAt and BuildDuration report metadata from the last completed build.
func (g *Graph) BuiltAt() time.Time          { g.mu.RLock(); defer g.mu.RUnlock(); return g.builtAt }
func (g *Graph) BuildDuration() time.Duration { g.mu.RLock(); defer g.mu.RUnlock(); return g.buildDur }
