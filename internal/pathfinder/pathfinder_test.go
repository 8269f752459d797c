package pathfinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/graph"
)

func key(code string) domain.AssetKey {
	if code == "XLM" {
		return domain.NewAssetKey("XLM", "")
	}
	return domain.NewAssetKey(code, "G"+code)
}

// buildDiamond wires A -> {B, C} -> D, where the B leg is cheaper, plus a
// direct A -> D edge more expensive than either two-hop route.
func buildDiamond() *graph.Graph {
	g := graph.New()
	a, b, c, d := key("A"), key("B"), key("C"), key("D")
	for _, n := range []domain.AssetKey{a, b, c, d} {
		g.AddOrUpdateNode(n, domain.NodeAttrs{})
	}

	g.AddEdge(&domain.Edge{Src: a, Dst: b, Type: domain.EdgeDEX, Weight: 0.1})
	g.AddEdge(&domain.Edge{Src: b, Dst: d, Type: domain.EdgeDEX, Weight: 0.1})
	g.AddEdge(&domain.Edge{Src: a, Dst: c, Type: domain.EdgeDEX, Weight: 0.2})
	g.AddEdge(&domain.Edge{Src: c, Dst: d, Type: domain.EdgeDEX, Weight: 0.2})
	g.AddEdge(&domain.Edge{Src: a, Dst: d, Type: domain.EdgeDEX, Weight: 1.0})

	return g
}

func TestKShortestPathsOrdersByWeight(t *testing.T) {
	g := buildDiamond()
	f := New(g)
	a, d := key("A"), key("D")

	paths := f.KShortestPaths(a, d, 3, 5, nil, nil)
	require.Len(t, paths, 3)

	assert.InDelta(t, 0.2, paths[0].TotalWeight, 1e-9)
	assert.InDelta(t, 0.4, paths[1].TotalWeight, 1e-9)
	assert.InDelta(t, 1.0, paths[2].TotalWeight, 1e-9)

	for i := 1; i < len(paths); i++ {
		assert.LessOrEqual(t, paths[i-1].TotalWeight, paths[i].TotalWeight)
	}
}

func TestKShortestPathsSameSourceDestReturnsNil(t *testing.T) {
	g := buildDiamond()
	f := New(g)
	a := key("A")

	assert.Nil(t, f.KShortestPaths(a, a, 3, 5, nil, nil))
}

func TestKShortestPathsHonorsHopCap(t *testing.T) {
	g := buildDiamond()
	f := New(g)
	a, d := key("A"), key("D")

	paths := f.KShortestPaths(a, d, 3, 1, nil, nil)
	require.Len(t, paths, 1)
	assert.InDelta(t, 1.0, paths[0].TotalWeight, 1e-9)
}

func TestKShortestPathsHonorsAvoidNodes(t *testing.T) {
	g := buildDiamond()
	f := New(g)
	a, b, d := key("A"), key("B"), key("D")

	paths := f.KShortestPaths(a, d, 3, 5, map[domain.AssetKey]bool{b: true}, nil)
	for _, p := range paths {
		for _, n := range p.Nodes {
			assert.False(t, n.Equal(b))
		}
	}
	require.Len(t, paths, 2)
	assert.InDelta(t, 0.4, paths[0].TotalWeight, 1e-9)
}

func TestKShortestPathsHonorsAvoidEdges(t *testing.T) {
	g := buildDiamond()
	f := New(g)
	a, b, d := key("A"), key("B"), key("D")

	blocked := map[EdgeKey]bool{{Src: a, Dst: b}: true}
	paths := f.KShortestPaths(a, d, 3, 5, nil, blocked)

	require.NotEmpty(t, paths)
	assert.InDelta(t, 0.4, paths[0].TotalWeight, 1e-9)
}

func TestKShortestPathsReturnsNilWhenUnreachable(t *testing.T) {
	g := graph.New()
	a, z := key("A"), key("Z")
	g.AddOrUpdateNode(a, domain.NodeAttrs{})
	g.AddOrUpdateNode(z, domain.NodeAttrs{})

	f := New(g)
	assert.Nil(t, f.KShortestPaths(a, z, 3, 5, nil, nil))
}
