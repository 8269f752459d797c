// Package resolver implements the Route Resolver: the component that turns
// a validated query into scored, enriched route manifests by driving the
// pathfinder, the Horizon Gateway, and the Route Cache (spec.md §4.5).
package resolver

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/stellar/route-engine/internal/cache"
	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/graph"
	"github.com/stellar/route-engine/internal/horizon"
	"github.com/stellar/route-engine/internal/money"
	"github.com/stellar/route-engine/internal/pathfinder"
	"github.com/stellar/route-engine/internal/registry"
	"github.com/stellar/route-engine/internal/routeerr"
)

// Resolver wires the graph, pathfinder, Horizon gateway, and cache together
// into the single FindRoutes entry point (§4.5 "Route Resolver").
type Resolver struct {
	cfg Config

	g        *graph.Graph
	finder   *pathfinder.Finder
	horizon  horizon.Gateway
	cache    *cache.Cache
	assets   registry.AssetRegistry
	counters counters

	log zerolog.Logger
	now func() time.Time
}

// New builds a Resolver. now defaults to time.Now when nil, overridable in
// tests for deterministic ComputedAt/TTL assertions.
func New(cfg Config, g *graph.Graph, finder *pathfinder.Finder, h horizon.Gateway, c *cache.Cache, assets registry.AssetRegistry, log zerolog.Logger) *Resolver {
	return &Resolver{
		cfg:     cfg,
		g:       g,
		finder:  finder,
		horizon: h,
		cache:   c,
		assets:  assets,
		log:     log.With().Str("component", "route_resolver").Logger(),
		now:     time.Now,
	}
}

// Stats returns the process-wide query counters (§5 "Shared resources").
func (r *Resolver) Stats() Snapshot { return r.counters.snapshot() }

// cachedPayload is the JSON envelope written to the Route Cache, letting a
// hit rebuild the full Result without recomputing it.
type cachedPayload struct {
	Routes []domain.RouteManifest
	Meta   domain.QueryMeta
}

// FindRoutes is the resolver's single entry point (§4.5 "Resolver algorithm").
// It validates the query, waits out the graph-readiness grace period if
// needed, serves from cache when possible, and otherwise runs the full
// pathfind -> preliminary score -> enrich -> rescore -> sort pipeline,
// falling back to a direct Horizon strict-send search when the graph yields
// no candidates.
func (r *Resolver) FindRoutes(ctx context.Context, q domain.Query) (domain.Result, error) {
	r.counters.queries.Add(1)
	start := r.now()

	if err := r.validate(q); err != nil {
		r.counters.failures.Add(1)
		return domain.Result{}, err
	}

	sendAmount, _ := money.Parse(q.Amount)
	maxHops := q.MaxHops
	if maxHops <= 0 || maxHops > r.cfg.MaxHops {
		maxHops = r.cfg.MaxHops
	}
	maxRoutes := q.MaxRoutes
	if maxRoutes <= 0 || maxRoutes > r.cfg.MaxRoutesGlobal {
		maxRoutes = r.cfg.MaxRoutesGlobal
	}

	cacheKey := q.CacheKey()
	if !q.NoCache {
		if entry, ok, source := r.cache.Lookup(cacheKey); ok {
			var payload cachedPayload
			if err := json.Unmarshal(entry.Payload, &payload); err == nil {
				r.counters.hits.Add(1)
				payload.Meta.Cached = true
				payload.Meta.CacheSource = source
				payload.Meta.ComputeTime = r.now().Sub(start)
				return domain.Result{Routes: payload.Routes, Meta: payload.Meta}, nil
			}
		}
	}
	r.counters.misses.Add(1)

	if err := r.awaitGraphReady(ctx); err != nil {
		r.counters.failures.Add(1)
		return domain.Result{}, err
	}

	if !r.g.HasNode(q.SourceKey()) || !r.g.HasNode(q.DestKey()) {
		manifests, err := r.horizonFallback(ctx, q, sendAmount, maxRoutes)
		if err != nil {
			r.counters.failures.Add(1)
			return domain.Result{}, routeerr.UpstreamUnavailable("horizon fallback failed", err)
		}
		if len(manifests) == 0 {
			r.counters.failures.Add(1)
			return domain.Result{}, routeerr.NoRoute("no route found for the requested asset pair")
		}
		return r.finalize(q, manifests, domain.StrategyHorizonFallback, start, cacheKey, !q.NoCache)
	}

	paths := r.finder.KShortestPaths(q.SourceKey(), q.DestKey(), maxRoutes, maxHops, nil, nil)
	if len(paths) == 0 {
		manifests, err := r.horizonFallback(ctx, q, sendAmount, maxRoutes)
		if err != nil {
			r.counters.failures.Add(1)
			return domain.Result{}, routeerr.UpstreamUnavailable("horizon fallback failed", err)
		}
		if len(manifests) == 0 {
			r.counters.failures.Add(1)
			return domain.Result{}, routeerr.NoRoute("no route found for the requested asset pair")
		}
		return r.finalize(q, manifests, domain.StrategyHorizonFallback, start, cacheKey, !q.NoCache)
	}

	manifests := r.resolveCandidates(ctx, q, paths, sendAmount)
	if len(manifests) == 0 {
		r.counters.failures.Add(1)
		return domain.Result{}, routeerr.NoRoute("no route found for the requested asset pair")
	}

	if len(manifests) > r.cfg.MaxRoutesPerDest {
		manifests = manifests[:r.cfg.MaxRoutesPerDest]
	}

	return r.finalize(q, manifests, domain.StrategyGraph, start, cacheKey, !q.NoCache)
}

// resolveCandidates runs the preliminary-score -> enrich -> rescore pipeline
// over every candidate path and returns manifests sorted best-first.
func (r *Resolver) resolveCandidates(ctx context.Context, q domain.Query, paths []pathfinder.Path, sendAmount decimal.Decimal) []domain.RouteManifest {
	type scored struct {
		path     pathfinder.Path
		preScore domain.ScoreBreakdown
		legs     []domain.Leg
		receive  decimal.Decimal
		source   domain.PriceSource
		tags     []string
	}

	results := make([]scored, 0, len(paths))
	var best decimal.Decimal
	for _, p := range paths {
		estLegs, _ := estimateLegs(p, sendAmount)
		preScore := preEnrichmentScore(p.TotalWeight, len(p.Edges), estLegs)

		legs, recv, src, tags := r.enrichPath(ctx, p, sendAmount)
		results = append(results, scored{path: p, preScore: preScore, legs: legs, receive: recv, source: src, tags: tags})
		if recv.GreaterThan(best) {
			best = recv
		}
	}

	bestFloat, _ := best.Float64()
	version := r.g.Version()
	now := r.now()

	manifests := make([]domain.RouteManifest, 0, len(results))
	for _, res := range results {
		recvFloat, _ := res.receive.Float64()
		sc := postEnrichmentScore(recvFloat, bestFloat, res.path.TotalWeight, len(res.path.Edges), res.legs)

		edgeTypes := map[domain.EdgeType]bool{}
		stops := make([]domain.Stop, len(res.path.Nodes))
		for i, n := range res.path.Nodes {
			stops[i] = r.stopFor(n)
		}
		for _, e := range res.path.Edges {
			edgeTypes[e.Type] = true
		}

		manifests = append(manifests, domain.RouteManifest{
			ID:               routeID(res.path.Nodes, q.Amount),
			Src:              q.SourceKey(),
			Dst:              q.DestKey(),
			SendAmount:       money.Format(sendAmount),
			ReceiveAmount:    money.Format(res.receive),
			Hops:             len(res.path.Edges),
			Path:             stops,
			Legs:             res.legs,
			TotalWeight:      res.path.TotalWeight,
			EdgeTypes:        edgeTypes,
			PreliminaryScore: res.preScore,
			Score:            sc,
			GraphVersion:     version,
			ComputedAt:       now,
			TTLSeconds:       ttlForSource(res.source),
			PriceSource:      res.source,
			PriceTags:        res.tags,
		})
	}

	sort.SliceStable(manifests, func(i, j int) bool {
		return manifests[i].Score.Composite > manifests[j].Score.Composite
	})
	return manifests
}

// ttlForSource ties a manifest's advertised freshness to how it was priced
// (§4.6 "TTL varies with price source").
func ttlForSource(src domain.PriceSource) int {
	switch src {
	case domain.PriceHorizon:
		return 30
	case domain.PriceEstimated:
		return 60
	default:
		return 15
	}
}

// stopFor projects a graph node into its manifest Stop view, falling back to
// a bare key-only Stop for nodes not present in the graph (e.g. a Horizon
// fallback hop through an asset the registry never indexed).
func (r *Resolver) stopFor(key domain.AssetKey) domain.Stop {
	if n, ok := r.g.GetNode(key); ok {
		return n.ToStop()
	}
	return domain.Stop{Key: key}
}

// finalize stores the result in cache (when eligible) and assembles the
// final Result with request-level metadata.
func (r *Resolver) finalize(q domain.Query, manifests []domain.RouteManifest, strategy domain.Strategy, start time.Time, cacheKey string, store bool) (domain.Result, error) {
	stats := r.g.Stats()
	meta := domain.QueryMeta{
		SourceKey:    q.SourceKey(),
		DestKey:      q.DestKey(),
		Amount:       q.Amount,
		Mode:         q.Mode,
		RouteCount:   len(manifests),
		Strategy:     strategy,
		GraphVersion: stats.Version,
		NodeCount:    stats.NodeCount,
		EdgeCount:    stats.EdgeCount,
		ComputeTime:  r.now().Sub(start),
	}

	if store {
		payload, err := json.Marshal(cachedPayload{Routes: manifests, Meta: meta})
		if err != nil {
			r.log.Warn().Err(err).Msg("failed to marshal route cache payload")
		} else if err := r.cache.Store(cacheKey, q.SourceKey().String(), q.DestKey().String(), q.Amount, payload); err != nil {
			r.log.Warn().Err(err).Msg("failed to store route cache entry")
		}
	}

	return domain.Result{Routes: manifests, Meta: meta}, nil
}

// validate enforces the query-level invariants from spec.md §6 "Validation":
// well-formed asset identity, a positive amount, and distinct source/dest.
func (r *Resolver) validate(q domain.Query) error {
	if q.SourceCode == "" || q.DestCode == "" {
		return routeerr.BadRequest("source and destination assets are required")
	}
	if !money.IsPositive(q.Amount) {
		return routeerr.BadRequest("amount must be a positive decimal")
	}
	if q.SourceKey().Equal(q.DestKey()) {
		return routeerr.BadRequest("source and destination assets must differ")
	}
	if r.assets != nil {
		src, err := r.assets.Resolve(q.SourceKey())
		if err != nil || src == nil {
			return routeerr.NotFound("source asset not found in registry")
		}
		dst, err := r.assets.Resolve(q.DestKey())
		if err != nil || dst == nil {
			return routeerr.NotFound("destination asset not found in registry")
		}
	}
	return nil
}

// awaitGraphReady polls until the graph has completed at least one build or
// the grace period elapses (§4.5 "graph readiness grace period, up to 40s").
// A version of 0 means no build has ever completed, whether or not one is
// currently in progress — a process that hasn't reached its first
// RunAfter-triggered build yet must still wait (or fail NoRoute), not serve
// queries against an empty graph.
func (r *Resolver) awaitGraphReady(ctx context.Context) error {
	if r.g.Version() > 0 {
		return nil
	}

	deadline := r.now().Add(r.cfg.GraceTimeout)
	ticker := time.NewTicker(r.cfg.GracePoll)
	defer ticker.Stop()

	for r.g.Version() == 0 {
		if r.now().After(deadline) {
			return routeerr.NoRoute("graph is still building, try again shortly")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
