package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/registry"
)

func TestDiscoverBridgesSkipsIneligibleAssets(t *testing.T) {
	d := &Discoverer{}
	usdc := domain.NewAssetKey("USDC", "GABC")
	eurc := domain.NewAssetKey("EURC", "GDEF")

	anchors := []registry.Anchor{
		{
			Domain: "anchor.example.com",
			Active: true,
			Health: 0.9,
			Assets: []registry.AnchorAsset{
				{Key: usdc, Active: true, DepositEnabled: true, WithdrawEnabled: true},
				{Key: eurc, Active: false, DepositEnabled: true, WithdrawEnabled: true},
			},
		},
	}

	edges := d.DiscoverBridges(anchors)
	assert.Empty(t, edges)
}

func TestDiscoverBridgesBuildsBidirectionalPair(t *testing.T) {
	d := &Discoverer{}
	usdc := domain.NewAssetKey("USDC", "GABC")
	eurc := domain.NewAssetKey("EURC", "GDEF")

	anchors := []registry.Anchor{
		{
			Domain: "anchor.example.com",
			Active: true,
			Health: 0.9,
			Assets: []registry.AnchorAsset{
				{Key: usdc, Active: true, DepositEnabled: true, WithdrawEnabled: true},
				{Key: eurc, Active: true, DepositEnabled: true, WithdrawEnabled: true},
			},
		},
	}

	edges := d.DiscoverBridges(anchors)
	require.Len(t, edges, 2)

	var sawForward, sawReverse bool
	for _, e := range edges {
		assert.Equal(t, domain.EdgeAnchorBridge, e.Type)
		require.NotNil(t, e.Bridge)
		assert.Equal(t, "anchor.example.com", e.Bridge.AnchorDomain)
		if e.Src.Equal(usdc) && e.Dst.Equal(eurc) {
			sawForward = true
		}
		if e.Src.Equal(eurc) && e.Dst.Equal(usdc) {
			sawReverse = true
		}
	}
	assert.True(t, sawForward)
	assert.True(t, sawReverse)
}

func TestDiscoverHubEdgesSkipsCoveredPairs(t *testing.T) {
	d := &Discoverer{}
	native := domain.NewAssetKey("XLM", "")
	usdc := domain.NewAssetKey("USDC", "GABC")
	eurc := domain.NewAssetKey("EURC", "GDEF")

	covered := map[Pair]bool{NewPair(usdc, native): true}
	edges := d.DiscoverHubEdges([]domain.AssetKey{native, usdc, eurc}, native, covered)

	require.Len(t, edges, 2)
	for _, e := range edges {
		assert.Equal(t, domain.EdgeXLMHub, e.Type)
		require.NotNil(t, e.Hub)
		assert.True(t, e.Hub.Estimated)
		assert.True(t, e.Src.Equal(eurc) || e.Dst.Equal(eurc))
	}
}

func TestDiscoverHubEdgesSkipsNativeSelf(t *testing.T) {
	d := &Discoverer{}
	native := domain.NewAssetKey("XLM", "")

	edges := d.DiscoverHubEdges([]domain.AssetKey{native}, native, map[Pair]bool{})
	assert.Empty(t, edges)
}
