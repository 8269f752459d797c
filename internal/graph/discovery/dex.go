package discovery

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/horizon"
	"github.com/stellar/route-engine/internal/registry"
)

// Config tunes discovery behavior (spec.md §4.2, §6 "Configuration").
type Config struct {
	OrderbookConcurrency int
	OrderbookTimeout     time.Duration
	MinDepth             float64
}

// DefaultConfig returns discovery's default tuning values.
func DefaultConfig() Config {
	return Config{
		OrderbookConcurrency: DefaultOrderbookConcurrency,
		OrderbookTimeout:     DefaultOrderbookTimeout * time.Second,
		MinDepth:             DefaultMinDepth,
	}
}

// Discoverer runs all three edge-discovery families against a Horizon
// gateway and the registry snapshots.
type Discoverer struct {
	gw  horizon.Gateway
	cfg Config
	log zerolog.Logger
}

// New creates a Discoverer.
func New(gw horizon.Gateway, cfg Config, log zerolog.Logger) *Discoverer {
	return &Discoverer{gw: gw, cfg: cfg, log: log.With().Str("component", "discovery").Logger()}
}

// dexPairResult is the per-pair outcome of an orderbook query, collected
// before edges are built so failures can be logged without partial state.
type dexPairResult struct {
	pair  Pair
	book  *horizon.Orderbook
	err   error
}

// DiscoverDEX builds candidate pairs (hub-and-spoke against the native asset,
// plus intra-anchor-domain pairs), queries their orderbooks with bounded
// concurrency, and returns the installable bidirectional edges plus the set
// of pairs covered by real DEX data (used to mask XLM-Hub discovery).
func (d *Discoverer) DiscoverDEX(ctx context.Context, assets []registry.RoutableAsset, anchors []registry.Anchor) ([]*domain.Edge, map[Pair]bool, error) {
	native, ok := findNative(assets)
	if !ok {
		return nil, map[Pair]bool{}, nil
	}

	pairs := d.candidatePairs(assets, anchors, native.Key)
	results := d.queryOrderbooks(ctx, pairs)

	var edges []*domain.Edge
	covered := make(map[Pair]bool, len(results))

	for _, r := range results {
		if r.err != nil {
			d.log.Warn().Str("pairA", r.pair.A.String()).Str("pairB", r.pair.B.String()).Err(r.err).Msg("orderbook query failed, skipping pair")
			continue
		}

		fwd, rev, ok := buildDEXEdges(r.pair.A, r.pair.B, r.book, d.cfg.MinDepth)
		if !ok {
			continue
		}
		edges = append(edges, fwd, rev)
		covered[r.pair] = true
	}

	return edges, covered, nil
}

func findNative(assets []registry.RoutableAsset) (registry.RoutableAsset, bool) {
	for _, a := range assets {
		if a.Native || a.Key.IsNative() {
			return a, true
		}
	}
	return registry.RoutableAsset{}, false
}

func (d *Discoverer) candidatePairs(assets []registry.RoutableAsset, anchors []registry.Anchor, native domain.AssetKey) []Pair {
	seen := make(map[Pair]bool)
	var pairs []Pair

	addPair := func(p Pair) {
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}

	present := make(map[domain.AssetKey]bool, len(assets))
	for _, a := range assets {
		present[a.Key] = true
		if !a.Key.Equal(native) {
			addPair(NewPair(a.Key, native))
		}
	}

	for _, anchor := range anchors {
		var domainAssets []domain.AssetKey
		for _, aa := range anchor.Assets {
			if present[aa.Key] {
				domainAssets = append(domainAssets, aa.Key)
			}
		}
		if len(domainAssets) < 2 {
			continue
		}
		for i := 0; i < len(domainAssets); i++ {
			for j := i + 1; j < len(domainAssets); j++ {
				addPair(NewPair(domainAssets[i], domainAssets[j]))
			}
		}
	}

	return pairs
}

func (d *Discoverer) queryOrderbooks(ctx context.Context, pairs []Pair) []dexPairResult {
	results := make([]dexPairResult, len(pairs))
	sem := make(chan struct{}, d.cfg.OrderbookConcurrency)
	var wg sync.WaitGroup

	for i, pair := range pairs {
		wg.Add(1)
		go func(i int, pair Pair) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			qctx, cancel := context.WithTimeout(ctx, d.cfg.OrderbookTimeout)
			defer cancel()

			book, err := d.gw.GetOrderbook(qctx, pair.A, pair.B, 20)
			results[i] = dexPairResult{pair: pair, book: book, err: err}
		}(i, pair)
	}

	wg.Wait()
	return results
}

// buildDEXEdges computes the forward (A->B) and reverse (B->A) edges for a
// pair from its orderbook, or reports ok=false if neither side meets the
// liquidity floor.
func buildDEXEdges(a, b domain.AssetKey, book *horizon.Orderbook, minDepth float64) (fwd, rev *domain.Edge, ok bool) {
	topBid, bidDepth, bidCount := summarizeLevels(book.Bids)
	topAsk, askDepth, askCount := summarizeLevels(book.Asks)

	if math.Max(bidDepth, askDepth) < minDepth {
		return nil, nil, false
	}

	spread := 1.0
	if topBid > 0 && topAsk > 0 {
		spread = math.Abs(topAsk-topBid) / topAsk
	}

	detail := &domain.DEXDetail{
		TopBid: topBid, TopAsk: topAsk, Spread: spread,
		BidDepth: bidDepth, AskDepth: askDepth,
		BidCount: bidCount, AskCount: askCount,
	}
	now := time.Now()

	fwd = &domain.Edge{
		Src: a, Dst: b, Type: domain.EdgeDEX,
		Weight: dexWeight(spread, askDepth),
		DEX:    detail,
		UpdatedAt: now,
	}
	rev = &domain.Edge{
		Src: b, Dst: a, Type: domain.EdgeDEX,
		Weight: dexWeight(spread, bidDepth),
		DEX:    detail,
		UpdatedAt: now,
	}
	return fwd, rev, true
}

func dexWeight(spread, depth float64) float64 {
	bonus := LiqBonus * (1 - 1/math.Log2(depth+2))
	w := DEXBase + SpreadMult*spread - bonus
	return math.Max(MinWeight, w)
}

func summarizeLevels(levels []horizon.OrderbookLevel) (topPrice, depth float64, count int) {
	if len(levels) == 0 {
		return 0, 0, 0
	}
	topPrice = parseFloat(levels[0].Price)
	for _, l := range levels {
		depth += parseFloat(l.Amount)
	}
	return topPrice, depth, len(levels)
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
