package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar/route-engine/internal/cache"
	"github.com/stellar/route-engine/internal/database"
)

func newTestCache(t *testing.T, version cache.VersionFunc) *cache.Cache {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "cache_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	return cache.New(db.Conn(), version, zerolog.Nop())
}

func TestLookupMissesWhenEmpty(t *testing.T) {
	c := newTestCache(t, func() uint64 { return 1 })
	_, ok, source := c.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, "", source)
}

func TestStoreThenLookupHitsMemoryFirst(t *testing.T) {
	c := newTestCache(t, func() uint64 { return 1 })
	require.NoError(t, c.Store("k1", "USDC:GABC", "XLM:native", "100", []byte(`{"routes":[]}`)))

	entry, ok, source := c.Lookup("k1")
	require.True(t, ok)
	assert.Equal(t, "memory", source)
	assert.Equal(t, []byte(`{"routes":[]}`), entry.Payload)
}

func TestLookupServesFromPersistentOnFreshMemoryTier(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "cache_promote_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	version := uint64(1)
	versionFn := func() uint64 { return version }

	writer := cache.New(db.Conn(), versionFn, zerolog.Nop())
	require.NoError(t, writer.Store("k1", "USDC:GABC", "XLM:native", "100", []byte(`{"routes":["v1"]}`)))

	// A second Cache over the same connection starts with an empty memory
	// tier, so its first lookup must be served by the persistent layer.
	reader := cache.New(db.Conn(), versionFn, zerolog.Nop())
	entry, ok, source := reader.Lookup("k1")
	require.True(t, ok)
	assert.Equal(t, "persistent", source)
	assert.Equal(t, []byte(`{"routes":["v1"]}`), entry.Payload)
}

func TestInvalidateAllClearsBothLayers(t *testing.T) {
	c := newTestCache(t, func() uint64 { return 1 })
	require.NoError(t, c.Store("k1", "USDC:GABC", "XLM:native", "100", []byte(`{}`)))

	c.InvalidateAll()

	_, ok, _ := c.Lookup("k1")
	assert.False(t, ok)
}

func TestLookupFallsBackToPersistentOnMemoryVersionMismatch(t *testing.T) {
	version := uint64(1)
	c := newTestCache(t, func() uint64 { return version })
	require.NoError(t, c.Store("k1", "USDC:GABC", "XLM:native", "100", []byte(`{}`)))

	version = 2
	entry, ok, source := c.Lookup("k1")
	require.True(t, ok)
	assert.Equal(t, "persistent", source)
	assert.Equal(t, uint64(2), entry.GraphVersion)
}

func TestPurgeExpiredDoesNotPanicWithFreshRows(t *testing.T) {
	c := newTestCache(t, func() uint64 { return 1 })
	require.NoError(t, c.Store("k1", "USDC:GABC", "XLM:native", "100", []byte(`{}`)))
	assert.NotPanics(t, func() { c.PurgeExpired() })
}
