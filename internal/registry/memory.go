package registry

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/stellar/route-engine/internal/domain"
)

// MemoryRegistry is an in-memory AssetRegistry + AnchorRegistry, loaded from
// a snapshot (e.g. a JSON config file) rather than a live database — the
// concrete stand-in SPEC_FULL.md calls for in place of the out-of-scope
// anchor-TOML crawler and persistence layer.
type MemoryRegistry struct {
	mu      sync.RWMutex
	assets  map[domain.AssetKey]RoutableAsset
	anchors []Anchor
	log     zerolog.Logger
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry(log zerolog.Logger) *MemoryRegistry {
	return &MemoryRegistry{
		assets: make(map[domain.AssetKey]RoutableAsset),
		log:    log.With().Str("component", "registry").Logger(),
	}
}

// LoadAssets replaces the routable-asset snapshot wholesale.
func (r *MemoryRegistry) LoadAssets(assets []RoutableAsset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets = make(map[domain.AssetKey]RoutableAsset, len(assets))
	for _, a := range assets {
		r.assets[a.Key] = a
	}
	r.log.Info().Int("count", len(assets)).Msg("loaded routable assets")
}

// LoadAnchors replaces the anchor snapshot wholesale.
func (r *MemoryRegistry) LoadAnchors(anchors []Anchor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.anchors = anchors
	r.log.Info().Int("count", len(anchors)).Msg("loaded anchors")
}

// RoutableAssets returns a snapshot of all routable assets.
func (r *MemoryRegistry) RoutableAssets() ([]RoutableAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RoutableAsset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, a)
	}
	return out, nil
}

// Resolve looks up a single asset by key, returning (nil, nil) if absent.
func (r *MemoryRegistry) Resolve(key domain.AssetKey) (*RoutableAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[key]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// ActiveAnchors returns only anchors flagged active.
func (r *MemoryRegistry) ActiveAnchors() ([]Anchor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Anchor, 0, len(r.anchors))
	for _, a := range r.anchors {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

var _ AssetRegistry = (*MemoryRegistry)(nil)
var _ AnchorRegistry = (*MemoryRegistry)(nil)
