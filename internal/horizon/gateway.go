// Package horizon defines the Horizon Gateway contract (spec.md §4
// "Horizon Gateway", §6 "Outbound dependencies") and ships an HTTP-backed
// implementation.
package horizon

import (
	"context"

	"github.com/stellar/route-engine/internal/domain"
)

// OrderbookLevel is one price level on one side of an orderbook.
type OrderbookLevel struct {
	Price  string
	Amount string
}

// Orderbook is the response shape for a single trading-pair query.
type Orderbook struct {
	Bids []OrderbookLevel
	Asks []OrderbookLevel
}

// PathAsset is one intermediate hop in a strict-send path record.
type PathAsset struct {
	AssetType   string
	AssetCode   string
	AssetIssuer string
}

// Key converts a PathAsset into the graph's canonical asset key.
func (p PathAsset) Key() domain.AssetKey {
	if p.AssetType == "native" {
		return domain.NewAssetKey("XLM", domain.NativeIssuer)
	}
	return domain.NewAssetKey(p.AssetCode, p.AssetIssuer)
}

// PathRecord is one strict-send path candidate.
type PathRecord struct {
	DestinationAmount string
	Path              []PathAsset
}

// Gateway issues orderbook and strict-send path queries against Horizon.
// Every method is expected to honor ctx's deadline (§5 "Cancellation and
// timeouts" — per-call timeouts, default 8s for orderbook and 10s for
// strict-send, configured by the caller via context).
type Gateway interface {
	GetOrderbook(ctx context.Context, selling, buying domain.AssetKey, depthLimit int) (*Orderbook, error)
	FindStrictSendPaths(ctx context.Context, source domain.AssetKey, sourceAmount string, destinations []domain.AssetKey) ([]PathRecord, error)
}
