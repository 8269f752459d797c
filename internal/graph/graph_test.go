package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar/route-engine/internal/domain"
)

func TestAddOrUpdateNodeMergesAttrs(t *testing.T) {
	g := New()
	key := domain.NewAssetKey("USDC", "GABC")

	g.AddOrUpdateNode(key, domain.NodeAttrs{})
	n, ok := g.GetNode(key)
	require.True(t, ok)
	assert.Equal(t, "", n.DisplayName)

	name := "Circle USD"
	g.AddOrUpdateNode(key, domain.NodeAttrs{DisplayName: &name})
	n, ok = g.GetNode(key)
	require.True(t, ok)
	assert.Equal(t, "Circle USD", n.DisplayName)
}

func TestAddEdgeRequiresBothEndpoints(t *testing.T) {
	g := New()
	a := domain.NewAssetKey("USDC", "GABC")
	b := domain.NewAssetKey("XLM", "")

	ok := g.AddEdge(&domain.Edge{Src: a, Dst: b, Type: domain.EdgeDEX, Weight: 0.1})
	assert.False(t, ok)

	g.AddOrUpdateNode(a, domain.NodeAttrs{})
	g.AddOrUpdateNode(b, domain.NodeAttrs{})
	ok = g.AddEdge(&domain.Edge{Src: a, Dst: b, Type: domain.EdgeDEX, Weight: 0.1})
	assert.True(t, ok)
	assert.Equal(t, 1, g.Stats().EdgeCount)
}

func TestAddEdgeReplacesSameType(t *testing.T) {
	g := New()
	a := domain.NewAssetKey("USDC", "GABC")
	b := domain.NewAssetKey("XLM", "")
	g.AddOrUpdateNode(a, domain.NodeAttrs{})
	g.AddOrUpdateNode(b, domain.NodeAttrs{})

	g.AddEdge(&domain.Edge{Src: a, Dst: b, Type: domain.EdgeDEX, Weight: 0.5})
	g.AddEdge(&domain.Edge{Src: a, Dst: b, Type: domain.EdgeDEX, Weight: 0.1})

	edges := g.EdgesTo(a, b)
	require.Len(t, edges, 1)
	assert.Equal(t, 0.1, edges[0].Weight)
	assert.Equal(t, 1, g.Stats().EdgeCount)
}

func TestBuildLockExcludesConcurrentBuilds(t *testing.T) {
	g := New()
	require.True(t, g.StartBuild())
	assert.False(t, g.StartBuild())
	assert.True(t, g.IsBuilding())

	v := g.CompleteBuild(g.BuiltAt())
	assert.Equal(t, uint64(1), v)
	assert.False(t, g.IsBuilding())
}

func TestAbortBuildKeepsVersion(t *testing.T) {
	g := New()
	require.True(t, g.StartBuild())
	g.AbortBuild()
	assert.Equal(t, uint64(0), g.Version())
	assert.False(t, g.IsBuilding())
}

func TestOnInvalidateCalledOnCompleteBuild(t *testing.T) {
	g := New()
	called := false
	g.OnInvalidate(func() { called = true })

	require.True(t, g.StartBuild())
	g.CompleteBuild(g.BuiltAt())
	assert.True(t, called)
}

func TestClearRemovesNodes(t *testing.T) {
	g := New()
	a := domain.NewAssetKey("USDC", "GABC")
	g.AddOrUpdateNode(a, domain.NodeAttrs{})
	g.Clear()
	assert.Equal(t, 0, g.NodeCount())
}
