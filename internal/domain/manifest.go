package domain

import "time"

// QueryMode selects whether Amount names the send or receive leg.
type QueryMode string

const (
	ModeSend    QueryMode = "send"
	ModeReceive QueryMode = "receive"
)

// PriceSource tags how a manifest's receive amount was derived.
type PriceSource string

const (
	PriceHorizon    PriceSource = "horizon"
	PriceEstimated  PriceSource = "estimated"
	PriceGraph      PriceSource = "graph"
	PriceUnverified PriceSource = "unverified"
)

// Strategy tags which pipeline produced a result set.
type Strategy string

const (
	StrategyGraph           Strategy = "graph"
	StrategyHorizonFallback Strategy = "horizon_fallback"
)

// Query is the single inbound entry point described in spec.md §6.
type Query struct {
	SourceCode    string
	SourceIssuer  string
	DestCode      string
	DestIssuer    string
	Amount        string
	Mode          QueryMode
	MaxHops       int
	MaxRoutes     int
	NoCache       bool
	CorrelationID string
}

// SourceKey and DestKey resolve the query's asset keys.
func (q Query) SourceKey() AssetKey { return NewAssetKey(q.SourceCode, q.SourceIssuer) }
func (q Query) DestKey() AssetKey   { return NewAssetKey(q.DestCode, q.DestIssuer) }

// CacheKey returns the canonical cache key srcKey|dstKey|amount|mode. Amount
// is carried byte-for-byte from the input string — no numeric normalization,
// since cache correctness depends on identical keys (§4.6).
func (q Query) CacheKey() string {
	mode := q.Mode
	if mode == "" {
		mode = ModeSend
	}
	return q.SourceKey().String() + "|" + q.DestKey().String() + "|" + q.Amount + "|" + string(mode)
}

// Leg is one hop of a route manifest, carrying the same tagged-union shape
// as Edge plus the estimated amount flowing through this hop.
type Leg struct {
	Src    AssetKey
	Dst    AssetKey
	Type   EdgeType
	Weight float64

	DEX    *DEXDetail
	Bridge *AnchorBridgeDetail
	Hub    *XLMHubDetail

	AmountIn  string
	AmountOut string
}

// ScoreBreakdown holds the composite score plus its sub-scores, each in
// [0,1] (§4.5.3, §8 invariants).
type ScoreBreakdown struct {
	Composite   float64
	Amount      float64
	Weight      float64
	Hops        float64
	Liquidity   float64
	Reliability float64
}

// RouteManifest is the resolver's output value for one candidate path
// (§3 "Route manifest").
type RouteManifest struct {
	ID   string
	Src  AssetKey
	Dst  AssetKey

	SendAmount    string
	ReceiveAmount string

	Hops int
	Path []Stop
	Legs []Leg

	TotalWeight float64
	EdgeTypes   map[EdgeType]bool

	// PreliminaryScore is the topology-only composite computed right after
	// pathfinding, before Horizon enrichment adjusts the receive amount
	// (§4.5 pipeline step 3). Score below carries the final, post-enrichment
	// composite the route is ranked and returned by.
	PreliminaryScore ScoreBreakdown
	Score            ScoreBreakdown

	GraphVersion uint64
	ComputedAt   time.Time
	TTLSeconds   int
	PriceSource  PriceSource
	PriceTags    []string // additional tags, e.g. "unverified" alongside "horizon_estimated"
}

// QueryMeta accompanies a result set with request-level bookkeeping
// (§6 "Output fields").
type QueryMeta struct {
	SourceKey    AssetKey
	DestKey      AssetKey
	Amount       string
	Mode         QueryMode
	RouteCount   int
	Strategy     Strategy
	GraphVersion uint64
	NodeCount    int
	EdgeCount    int
	ComputeTime  time.Duration
	Cached       bool
	CacheSource  string // "memory" | "persistent" | ""
}

// Result is the resolver's top-level return value.
type Result struct {
	Routes []RouteManifest
	Meta   QueryMeta
}
