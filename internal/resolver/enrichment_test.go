package resolver

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/horizon"
	"github.com/stellar/route-engine/internal/pathfinder"
)

type stubGateway struct {
	records []horizon.PathRecord
	err     error
}

func (s *stubGateway) GetOrderbook(ctx context.Context, selling, buying domain.AssetKey, depthLimit int) (*horizon.Orderbook, error) {
	return &horizon.Orderbook{}, nil
}

func (s *stubGateway) FindStrictSendPaths(ctx context.Context, source domain.AssetKey, sourceAmount string, destinations []domain.AssetKey) ([]horizon.PathRecord, error) {
	return s.records, s.err
}

func hubOnlyPath() pathfinder.Path {
	a := domain.NewAssetKey("EURC", "GEUR")
	xlm := domain.NewAssetKey("XLM", "")
	b := domain.NewAssetKey("USDC", "GABC")

	return pathfinder.Path{
		Nodes: []domain.AssetKey{a, xlm, b},
		Edges: []*domain.Edge{
			{Src: a, Dst: xlm, Type: domain.EdgeXLMHub, Weight: 0.4, Hub: &domain.XLMHubDetail{Estimated: true}},
			{Src: xlm, Dst: b, Type: domain.EdgeXLMHub, Weight: 0.4, Hub: &domain.XLMHubDetail{Estimated: true}},
		},
		TotalWeight: 0.8,
	}
}

func bridgeOnlyPath() pathfinder.Path {
	a := domain.NewAssetKey("EURC", "GEUR")
	b := domain.NewAssetKey("USDC", "GABC")

	return pathfinder.Path{
		Nodes: []domain.AssetKey{a, b},
		Edges: []*domain.Edge{
			{Src: a, Dst: b, Type: domain.EdgeAnchorBridge, Weight: 0.3, Bridge: &domain.AnchorBridgeDetail{AnchorHealth: 0.9}},
		},
		TotalWeight: 0.3,
	}
}

// A route with no DEX market segments can never be end-to-end confirmed by a
// strict-send search, so it must never be tagged horizon-priced even when a
// gateway is wired in (the gateway here would fail any such call anyway).
func TestEnrichPathHubOnlyRouteIsUnverified(t *testing.T) {
	res := New(DefaultConfig(), nil, nil, &stubGateway{}, nil, nil, zerolog.Nop())
	legs, _, source, tags := res.enrichPath(context.Background(), hubOnlyPath(), decimal.NewFromInt(100))

	assert.Equal(t, domain.PriceUnverified, source)
	assert.Contains(t, tags, "unverified")
	assert.Len(t, legs, 2)
}

func TestEnrichPathBridgeOnlyRouteIsUnverified(t *testing.T) {
	res := New(DefaultConfig(), nil, nil, &stubGateway{}, nil, nil, zerolog.Nop())
	_, _, source, tags := res.enrichPath(context.Background(), bridgeOnlyPath(), decimal.NewFromInt(100))

	assert.Equal(t, domain.PriceUnverified, source)
	assert.Contains(t, tags, "unverified")
}

// A segmented route with at least one DEX segment that Horizon confirms end
// to end is still reported verified.
func TestEnrichPathSegmentedRouteVerifiedWhenMarketSegmentConfirms(t *testing.T) {
	src := domain.NewAssetKey("EURC", "GEUR")
	anchorXLM := domain.NewAssetKey("XLM", "")
	dst := domain.NewAssetKey("USDC", "GABC")

	path := pathfinder.Path{
		Nodes: []domain.AssetKey{src, anchorXLM, dst},
		Edges: []*domain.Edge{
			{Src: src, Dst: anchorXLM, Type: domain.EdgeAnchorBridge, Weight: 0.3, Bridge: &domain.AnchorBridgeDetail{AnchorHealth: 0.9}},
			{Src: anchorXLM, Dst: dst, Type: domain.EdgeDEX, Weight: 0.1, DEX: &domain.DEXDetail{TopAsk: 1, Spread: 0.01, AskDepth: 5000}},
		},
		TotalWeight: 0.4,
	}

	gw := &stubGateway{records: []horizon.PathRecord{{DestinationAmount: "97"}}}
	res := New(DefaultConfig(), nil, nil, gw, nil, nil, zerolog.Nop())

	_, amt, source, tags := res.enrichPath(context.Background(), path, decimal.NewFromInt(100))

	require.Equal(t, domain.PriceHorizon, source)
	assert.Empty(t, tags)
	assert.True(t, amt.GreaterThan(decimal.Zero))
}
