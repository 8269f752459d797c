// Package registry defines the read-view contracts for the Asset Registry
// and Anchor Registry (spec.md §4 overview, §6 "Outbound dependencies") and
// ships an in-memory implementation that stands in for the out-of-scope
// anchor-TOML crawler and its persistence layer.
package registry

import "github.com/stellar/route-engine/internal/domain"

// RoutableAsset is one entry from the Asset Registry read view.
type RoutableAsset struct {
	Key           domain.AssetKey
	Code          string
	Issuer        string
	Native        bool
	Verified      bool
	DisplayDomain string
	DisplayName   string
	NumAccounts   int64
}

// AnchorAsset is one asset an anchor declares it can bridge.
type AnchorAsset struct {
	Key             domain.AssetKey
	Active          bool
	DepositEnabled  bool
	WithdrawEnabled bool
}

// Anchor is one active anchor and the assets it bridges (§3 "Node" /
// "Edge" anchor attributes).
type Anchor struct {
	Domain     string
	Active     bool
	Health     float64 // in [0,1]
	FeeFixed   float64
	FeePercent float64
	Assets     []AnchorAsset
}

// AssetRegistry supplies the set of routable assets.
type AssetRegistry interface {
	RoutableAssets() ([]RoutableAsset, error)
	Resolve(key domain.AssetKey) (*RoutableAsset, error)
}

// AnchorRegistry supplies active anchors and the assets they bridge.
type AnchorRegistry interface {
	ActiveAnchors() ([]Anchor, error)
}
