package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/horizon"
)

func TestDexWeightFloorsAtMinWeight(t *testing.T) {
	w := dexWeight(0, 100000)
	assert.GreaterOrEqual(t, w, MinWeight)
}

func TestDexWeightPenalizesSpread(t *testing.T) {
	tight := dexWeight(0.001, 1000)
	wide := dexWeight(0.5, 1000)
	assert.Less(t, tight, wide)
}

func TestDexWeightRewardsDepth(t *testing.T) {
	shallow := dexWeight(0.5, 1)
	deep := dexWeight(0.5, 100000)
	assert.Less(t, deep, shallow)
}

func TestBuildDEXEdgesRejectsThinBooks(t *testing.T) {
	a := domain.NewAssetKey("USDC", "GABC")
	b := domain.NewAssetKey("XLM", "")
	book := &horizon.Orderbook{
		Bids: []horizon.OrderbookLevel{{Price: "0.1", Amount: "0.001"}},
		Asks: []horizon.OrderbookLevel{{Price: "0.11", Amount: "0.001"}},
	}

	_, _, ok := buildDEXEdges(a, b, book, 1.0)
	assert.False(t, ok)
}

func TestBuildDEXEdgesAcceptsLiquidBooks(t *testing.T) {
	a := domain.NewAssetKey("USDC", "GABC")
	b := domain.NewAssetKey("XLM", "")
	book := &horizon.Orderbook{
		Bids: []horizon.OrderbookLevel{{Price: "0.1", Amount: "5000"}},
		Asks: []horizon.OrderbookLevel{{Price: "0.11", Amount: "5000"}},
	}

	fwd, rev, ok := buildDEXEdges(a, b, book, 1.0)
	require.True(t, ok)
	assert.Equal(t, a, fwd.Src)
	assert.Equal(t, b, fwd.Dst)
	assert.Equal(t, b, rev.Src)
	assert.Equal(t, a, rev.Dst)
	assert.NotNil(t, fwd.DEX)
}

func TestBridgeWeightPenalizesLowHealthAndHighFees(t *testing.T) {
	healthy := bridgeWeight(1.0, 0, 0)
	unhealthy := bridgeWeight(0.1, 0, 0)
	assert.Less(t, healthy, unhealthy)

	cheap := bridgeWeight(1.0, 0, 0)
	expensive := bridgeWeight(1.0, 0.05, 0.05)
	assert.Less(t, cheap, expensive)
}
