package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/graph/discovery"
	"github.com/stellar/route-engine/internal/registry"
)

// BuildResult summarizes the outcome of one (re)build for logging/metrics.
type BuildResult struct {
	Skipped   bool // true if another build already held the lock
	NodeCount int
	EdgeCount int
	Version   uint64
	Duration  time.Duration
}

// Builder runs the atomic rebuild pipeline described in spec.md §4.3.
type Builder struct {
	g          *Graph
	assets     registry.AssetRegistry
	anchors    registry.AnchorRegistry
	discoverer *discovery.Discoverer
	skipDEX    bool
	log        zerolog.Logger
}

// NewBuilder wires a Builder against a graph, registries, and a discoverer.
func NewBuilder(g *Graph, assets registry.AssetRegistry, anchors registry.AnchorRegistry, disc *discovery.Discoverer, skipDEX bool, log zerolog.Logger) *Builder {
	return &Builder{
		g: g, assets: assets, anchors: anchors, discoverer: disc, skipDEX: skipDEX,
		log: log.With().Str("component", "builder").Logger(),
	}
}

// FullRebuild runs the complete atomic rebuild sequence (§4.3 steps 1-8). It
// returns BuildResult{Skipped: true} without mutating the graph if another
// build already holds the lock.
func (b *Builder) FullRebuild(ctx context.Context) (BuildResult, error) {
	if !b.g.StartBuild() {
		return BuildResult{Skipped: true}, nil
	}
	started := time.Now()

	assets, err := b.assets.RoutableAssets()
	if err != nil {
		b.g.AbortBuild()
		return BuildResult{}, fmt.Errorf("load routable assets: %w", err)
	}

	if len(assets) == 0 {
		b.g.Clear()
		v := b.g.CompleteBuild(started)
		return BuildResult{NodeCount: 0, EdgeCount: 0, Version: v, Duration: time.Since(started)}, nil
	}

	b.g.Clear()
	for _, a := range assets {
		b.g.AddOrUpdateNode(a.Key, nodeAttrsFromAsset(a))
	}

	anchors, err := b.anchors.ActiveAnchors()
	if err != nil {
		b.log.Warn().Err(err).Msg("failed to load anchors, continuing with node set only")
		anchors = nil
	}

	var covered map[discovery.Pair]bool
	if !b.skipDEX {
		dexEdges, c, err := b.discoverer.DiscoverDEX(ctx, assets, anchors)
		if err != nil {
			b.log.Warn().Err(err).Msg("DEX discovery failed, continuing without DEX edges")
		}
		covered = c
		for i := 0; i+1 < len(dexEdges); i += 2 {
			b.g.AddBidirectional(dexEdges[i], dexEdges[i+1])
		}
	} else {
		covered = map[discovery.Pair]bool{}
	}

	bridgeEdges := b.discoverer.DiscoverBridges(anchors)
	for _, e := range bridgeEdges {
		b.ensureNode(e.Src)
		b.ensureNode(e.Dst)
		b.g.AddEdge(e)
	}

	native, ok := findNativeKey(assets)
	if ok {
		hubEdges := b.discoverer.DiscoverHubEdges(b.g.AllNodeKeys(), native, covered)
		for _, e := range hubEdges {
			b.ensureNode(e.Src)
			b.ensureNode(e.Dst)
			b.g.AddEdge(e)
		}
	}

	v := b.g.CompleteBuild(started)
	stats := b.g.Stats()
	return BuildResult{NodeCount: stats.NodeCount, EdgeCount: stats.EdgeCount, Version: v, Duration: time.Since(started)}, nil
}

// LightRefresh re-runs only DEX discovery against the full registry snapshot
// and overwrites existing DEX edges in place. It never bumps the graph
// version — cache entries pinned to the current version remain valid
// because they are already short-TTL and were written from live orderbook
// data (§4.3 "Light refresh"). It runs only if the build lock is free.
func (b *Builder) LightRefresh(ctx context.Context) (BuildResult, error) {
	if b.skipDEX {
		return BuildResult{Skipped: true}, nil
	}
	if !b.g.StartBuild() {
		return BuildResult{Skipped: true}, nil
	}
	defer b.g.AbortBuild()

	started := time.Now()
	assets, err := b.assets.RoutableAssets()
	if err != nil {
		return BuildResult{}, fmt.Errorf("load routable assets: %w", err)
	}

	anchors, err := b.anchors.ActiveAnchors()
	if err != nil {
		anchors = nil
	}

	dexEdges, _, err := b.discoverer.DiscoverDEX(ctx, assets, anchors)
	if err != nil {
		b.log.Warn().Err(err).Msg("light refresh DEX discovery failed")
	}
	for i := 0; i+1 < len(dexEdges); i += 2 {
		if b.g.HasNode(dexEdges[i].Src) && b.g.HasNode(dexEdges[i].Dst) {
			b.g.AddBidirectional(dexEdges[i], dexEdges[i+1])
		}
	}

	stats := b.g.Stats()
	return BuildResult{NodeCount: stats.NodeCount, EdgeCount: stats.EdgeCount, Version: b.g.Version(), Duration: time.Since(started)}, nil
}

// ensureNode installs a lightweight synthetic node for a key discovered by
// bridge/hub discovery that was not present in the asset-registry snapshot
// (§4.3 step 6/7).
func (b *Builder) ensureNode(key domain.AssetKey) {
	if b.g.HasNode(key) {
		return
	}
	source := domain.SourceSynthetic
	b.g.AddOrUpdateNode(key, domain.NodeAttrs{Source: &source})
}

func nodeAttrsFromAsset(a registry.RoutableAsset) domain.NodeAttrs {
	verified := a.Verified
	source := domain.SourceNetwork
	numAccounts := a.NumAccounts
	domainName := a.DisplayDomain
	displayName := a.DisplayName
	return domain.NodeAttrs{
		Verified: &verified, Source: &source, NumAccounts: &numAccounts,
		DisplayDomain: &domainName, DisplayName: &displayName,
	}
}

func findNativeKey(assets []registry.RoutableAsset) (domain.AssetKey, bool) {
	for _, a := range assets {
		if a.Native || a.Key.IsNative() {
			return a.Key, true
		}
	}
	return domain.AssetKey{}, false
}
