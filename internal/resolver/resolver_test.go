package resolver_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar/route-engine/internal/cache"
	"github.com/stellar/route-engine/internal/database"
	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/graph"
	"github.com/stellar/route-engine/internal/horizon"
	"github.com/stellar/route-engine/internal/pathfinder"
	"github.com/stellar/route-engine/internal/registry"
	"github.com/stellar/route-engine/internal/resolver"
)

// fakeGateway is a hand-rolled stub standing in for a live Horizon Gateway.
type fakeGateway struct {
	strictSendAmount string
	strictSendPath   []horizon.PathAsset
	strictSendErr    error
}

func (f *fakeGateway) GetOrderbook(ctx context.Context, selling, buying domain.AssetKey, depthLimit int) (*horizon.Orderbook, error) {
	return &horizon.Orderbook{}, nil
}

func (f *fakeGateway) FindStrictSendPaths(ctx context.Context, source domain.AssetKey, sourceAmount string, destinations []domain.AssetKey) ([]horizon.PathRecord, error) {
	if f.strictSendErr != nil {
		return nil, f.strictSendErr
	}
	if f.strictSendAmount == "" {
		return nil, nil
	}
	return []horizon.PathRecord{{DestinationAmount: f.strictSendAmount, Path: f.strictSendPath}}, nil
}

type fakeRegistry struct {
	assets map[domain.AssetKey]registry.RoutableAsset
}

func (f *fakeRegistry) RoutableAssets() ([]registry.RoutableAsset, error) {
	out := make([]registry.RoutableAsset, 0, len(f.assets))
	for _, a := range f.assets {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRegistry) Resolve(key domain.AssetKey) (*registry.RoutableAsset, error) {
	a, ok := f.assets[key]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func usdc() domain.AssetKey { return domain.NewAssetKey("USDC", "GABC") }
func xlm() domain.AssetKey  { return domain.NewAssetKey("XLM", "") }

func newTestCache(t *testing.T, g *graph.Graph) *cache.Cache {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "resolver_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return cache.New(db.Conn(), g.Version, zerolog.Nop())
}

// markReady completes one build cycle so the graph reports a version > 0,
// matching what the Graph Scheduler's initial RunAfter build does in
// production before the resolver ever serves a query.
func markReady(g *graph.Graph) {
	g.StartBuild()
	g.CompleteBuild(time.Now())
}

func newTestRegistry() *fakeRegistry {
	return &fakeRegistry{assets: map[domain.AssetKey]registry.RoutableAsset{
		usdc(): {Key: usdc(), Code: "USDC", Issuer: "GABC"},
		xlm():  {Key: xlm(), Code: "XLM", Native: true},
	}}
}

func TestFindRoutesRejectsMalformedQuery(t *testing.T) {
	g := graph.New()
	r := resolver.New(resolver.DefaultConfig(), g, pathfinder.New(g), &fakeGateway{}, newTestCache(t, g), newTestRegistry(), zerolog.Nop())

	_, err := r.FindRoutes(context.Background(), domain.Query{SourceCode: "USDC", DestCode: "USDC", Amount: "10"})
	assert.Error(t, err)
}

func TestFindRoutesRejectsNonPositiveAmount(t *testing.T) {
	g := graph.New()
	r := resolver.New(resolver.DefaultConfig(), g, pathfinder.New(g), &fakeGateway{}, newTestCache(t, g), newTestRegistry(), zerolog.Nop())

	_, err := r.FindRoutes(context.Background(), domain.Query{SourceCode: "USDC", SourceIssuer: "GABC", DestCode: "XLM", Amount: "0"})
	assert.Error(t, err)
}

func TestFindRoutesReturnsNoRouteWhenGraphAndFallbackEmpty(t *testing.T) {
	g := graph.New()
	g.AddOrUpdateNode(usdc(), domain.NodeAttrs{})
	g.AddOrUpdateNode(xlm(), domain.NodeAttrs{})
	markReady(g)

	r := resolver.New(resolver.DefaultConfig(), g, pathfinder.New(g), &fakeGateway{}, newTestCache(t, g), newTestRegistry(), zerolog.Nop())

	_, err := r.FindRoutes(context.Background(), domain.Query{SourceCode: "USDC", SourceIssuer: "GABC", DestCode: "XLM", Amount: "100"})
	assert.Error(t, err)
}

func TestFindRoutesUsesHorizonFallbackWhenAssetMissingFromGraph(t *testing.T) {
	g := graph.New()
	markReady(g)
	gw := &fakeGateway{strictSendAmount: "99.5"}

	r := resolver.New(resolver.DefaultConfig(), g, pathfinder.New(g), gw, newTestCache(t, g), newTestRegistry(), zerolog.Nop())

	result, err := r.FindRoutes(context.Background(), domain.Query{SourceCode: "USDC", SourceIssuer: "GABC", DestCode: "XLM", Amount: "100"})
	require.NoError(t, err)
	require.Len(t, result.Routes, 1)
	assert.Equal(t, domain.StrategyHorizonFallback, result.Meta.Strategy)
	assert.Equal(t, "99.5000000", result.Routes[0].ReceiveAmount)
}

func TestFindRoutesResolvesGraphCandidateAndCachesIt(t *testing.T) {
	g := graph.New()
	g.AddOrUpdateNode(usdc(), domain.NodeAttrs{})
	g.AddOrUpdateNode(xlm(), domain.NodeAttrs{})
	g.AddEdge(&domain.Edge{
		Src: usdc(), Dst: xlm(), Type: domain.EdgeDEX, Weight: 0.1,
		DEX: &domain.DEXDetail{TopAsk: 10, Spread: 0.01, AskDepth: 5000},
	})
	markReady(g)

	gw := &fakeGateway{strictSendAmount: "995", strictSendPath: nil}
	c := newTestCache(t, g)
	r := resolver.New(resolver.DefaultConfig(), g, pathfinder.New(g), gw, c, newTestRegistry(), zerolog.Nop())

	q := domain.Query{SourceCode: "USDC", SourceIssuer: "GABC", DestCode: "XLM", Amount: "100"}

	first, err := r.FindRoutes(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, first.Routes, 1)
	assert.Equal(t, domain.StrategyGraph, first.Meta.Strategy)
	assert.False(t, first.Meta.Cached)

	second, err := r.FindRoutes(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, second.Meta.Cached)
	require.Len(t, second.Routes, 1)
	assert.Equal(t, first.Routes[0].ID, second.Routes[0].ID)

	stats := r.Stats()
	assert.Equal(t, int64(2), stats.Queries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestFindRoutesHonorsNoCache(t *testing.T) {
	g := graph.New()
	g.AddOrUpdateNode(usdc(), domain.NodeAttrs{})
	g.AddOrUpdateNode(xlm(), domain.NodeAttrs{})
	g.AddEdge(&domain.Edge{
		Src: usdc(), Dst: xlm(), Type: domain.EdgeDEX, Weight: 0.1,
		DEX: &domain.DEXDetail{TopAsk: 10, Spread: 0.01, AskDepth: 5000},
	})
	markReady(g)

	gw := &fakeGateway{strictSendAmount: "995"}
	c := newTestCache(t, g)
	r := resolver.New(resolver.DefaultConfig(), g, pathfinder.New(g), gw, c, newTestRegistry(), zerolog.Nop())

	q := domain.Query{SourceCode: "USDC", SourceIssuer: "GABC", DestCode: "XLM", Amount: "100", NoCache: true}

	_, err := r.FindRoutes(context.Background(), q)
	require.NoError(t, err)

	result, err := r.FindRoutes(context.Background(), q)
	require.NoError(t, err)
	assert.False(t, result.Meta.Cached)
}
