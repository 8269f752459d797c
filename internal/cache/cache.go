package cache

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog"
)

// VersionFunc reports the graph's current build version, used to validate
// cache-entry pins on lookup.
type VersionFunc func() uint64

// Cache is the two-tier Route Cache facade (spec.md §4.6). A lookup checks
// the in-memory layer first; on miss it checks the persistent layer and, on
// hit, promotes the entry back into memory.
type Cache struct {
	mem     *memoryLayer
	pers    *persistentLayer
	version VersionFunc
	log     zerolog.Logger
}

// New creates a Cache backed by db for its persistent layer.
func New(db *sql.DB, version VersionFunc, log zerolog.Logger) *Cache {
	return &Cache{
		mem:     newMemoryLayer(),
		pers:    newPersistentLayer(db, log),
		version: version,
		log:     log.With().Str("component", "route_cache").Logger(),
	}
}

// Lookup returns (entry, true, source) on a hit, where source is "memory" or
// "persistent". A miss returns (Entry{}, false, "").
func (c *Cache) Lookup(key string) (Entry, bool, string) {
	v := c.version()

	if e, ok := c.mem.get(key, v); ok {
		return e, true, "memory"
	}
	if e, ok := c.pers.get(key, v); ok {
		c.mem.set(key, e)
		return e, true, "persistent"
	}
	return Entry{}, false, ""
}

// Store writes an entry into both layers with each layer's own TTL. The
// memory entry is pinned to the current graph version; the persistent row
// stores no version, so a persistent hit is reported at whatever version is
// current at lookup time and stale rows are removed only by InvalidateAll or
// expiry.
func (c *Cache) Store(key, sourceAsset, destAsset, sourceAmount string, payload []byte) error {
	v := c.version()
	now := time.Now()

	memEntry := Entry{Payload: payload, GraphVersion: v, ExpiresAt: now.Add(MemoryTTL)}
	c.mem.set(key, memEntry)

	persEntry := Entry{Payload: payload, GraphVersion: v, ExpiresAt: now.Add(PersistentTTL)}
	if err := c.pers.set(key, sourceAsset, destAsset, sourceAmount, persEntry); err != nil {
		c.log.Warn().Err(err).Msg("failed to write persistent cache entry")
	}
	return nil
}

// InvalidateAll clears both layers, called on every graph version bump
// (§4.6 "Invalidation").
func (c *Cache) InvalidateAll() {
	c.mem.clear()
	if err := c.pers.clear(); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear persistent cache")
	}
}

// PurgeExpired deletes stale persistent rows; intended to be invoked on a
// timer by the scheduler.
func (c *Cache) PurgeExpired() {
	n, err := c.pers.purgeExpired()
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to purge expired cache entries")
		return
	}
	if n > 0 {
		c.log.Debug().Int64("count", n).Msg("purged expired persistent cache entries")
	}
}
