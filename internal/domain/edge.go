package domain

import "time"

// EdgeType tags the family an edge belongs to. Edges are modeled as a tagged
// sum type: a common envelope (Type, Weight, timestamps) plus exactly one
// populated detail block, rather than a flat record with mostly-null fields.
type EdgeType string

const (
	EdgeDEX          EdgeType = "DEX"
	EdgeAnchorBridge EdgeType = "ANCHOR_BRIDGE"
	EdgeXLMHub       EdgeType = "XLM_HUB"
	// EdgeHorizonPath tags synthetic legs built from a Horizon strict-send
	// fallback response; it never appears in the graph itself.
	EdgeHorizonPath EdgeType = "horizon_path"
)

// DEXDetail carries orderbook-derived attributes for a DEX edge.
type DEXDetail struct {
	TopBid   float64
	TopAsk   float64
	Spread   float64
	BidDepth float64
	AskDepth float64
	BidCount int
	AskCount int
}

// AnchorBridgeDetail carries anchor-derived attributes for a bridge edge.
type AnchorBridgeDetail struct {
	AnchorDomain     string
	AnchorHealth     float64
	DepositEnabled   bool
	WithdrawEnabled  bool
	FeeFixed         float64
	FeePercent       float64
}

// XLMHubDetail carries attributes for a synthetic hub fallback edge.
type XLMHubDetail struct {
	OriginAssetCode string
	OriginDomain    string
	Estimated       bool
}

// Edge is a single directed, weighted connection from one node to another.
type Edge struct {
	Src    AssetKey
	Dst    AssetKey
	Type   EdgeType
	Weight float64

	DEX    *DEXDetail
	Bridge *AnchorBridgeDetail
	Hub    *XLMHubDetail

	UpdatedAt time.Time
}

// AnchorDomain returns the bridge anchor domain, or "" for non-bridge edges.
func (e *Edge) AnchorDomain() string {
	if e.Bridge == nil {
		return ""
	}
	return e.Bridge.AnchorDomain
}
