package domain

// AssetSource tags where a node's catalog entry originated.
type AssetSource string

const (
	SourceNetwork   AssetSource = "network"
	SourceAnchor    AssetSource = "anchor"
	SourceSynthetic AssetSource = "synthetic"
)

// Node represents one routable asset in the graph.
type Node struct {
	Key    AssetKey
	Code   string
	Issuer string

	DisplayDomain string
	DisplayName   string

	Native   bool
	Verified bool
	Source   AssetSource

	NumAccounts int64

	DepositEnabled  bool
	WithdrawEnabled bool
	AnchorDomain    string // optional; set when Source == SourceAnchor

	// Adjacency maps a target asset key to the (possibly several) edges
	// leading to it. Multiple entries occur for parallel ANCHOR_BRIDGE
	// edges from distinct anchors.
	Adjacency map[AssetKey][]*Edge
}

// NewNode creates an empty node for key with no adjacency.
func NewNode(key AssetKey) *Node {
	return &Node{
		Key:       key,
		Code:      key.Code,
		Issuer:    key.Issuer,
		Native:    key.IsNative(),
		Adjacency: make(map[AssetKey][]*Edge),
	}
}

// NodeAttrs carries the mergeable, non-adjacency attributes of a node. Nil or
// zero-value fields in an update leave the corresponding existing attribute
// untouched; see Graph.AddOrUpdateNode.
type NodeAttrs struct {
	DisplayDomain   *string
	DisplayName     *string
	Verified        *bool
	Source          *AssetSource
	NumAccounts     *int64
	DepositEnabled  *bool
	WithdrawEnabled *bool
	AnchorDomain    *string
}

// Merge applies non-nil fields of attrs onto the node in place.
func (n *Node) Merge(attrs NodeAttrs) {
	if attrs.DisplayDomain != nil {
		n.DisplayDomain = *attrs.DisplayDomain
	}
	if attrs.DisplayName != nil {
		n.DisplayName = *attrs.DisplayName
	}
	if attrs.Verified != nil {
		n.Verified = *attrs.Verified
	}
	if attrs.Source != nil {
		n.Source = *attrs.Source
	}
	if attrs.NumAccounts != nil {
		n.NumAccounts = *attrs.NumAccounts
	}
	if attrs.DepositEnabled != nil {
		n.DepositEnabled = *attrs.DepositEnabled
	}
	if attrs.WithdrawEnabled != nil {
		n.WithdrawEnabled = *attrs.WithdrawEnabled
	}
	if attrs.AnchorDomain != nil {
		n.AnchorDomain = *attrs.AnchorDomain
	}
}

// Stop is a lightweight, display-oriented view of a node used in route
// manifest paths (§3 "Route manifest").
type Stop struct {
	Key           AssetKey
	DisplayDomain string
	DisplayName   string
	Native        bool
	Verified      bool
}

// ToStop projects a node into its manifest-path representation.
func (n *Node) ToStop() Stop {
	return Stop{
		Key:           n.Key,
		DisplayDomain: n.DisplayDomain,
		DisplayName:   n.DisplayName,
		Native:        n.Native,
		Verified:      n.Verified,
	}
}
