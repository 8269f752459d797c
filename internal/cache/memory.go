package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryCapacity is Layer-1's LRU capacity (spec.md §4.6).
const MemoryCapacity = 500

// MemoryTTL is Layer-1's per-entry time-to-live.
const MemoryTTL = 30 * time.Second

// memoryLayer is the in-memory LRU tier. Lookup treats an entry pinned to a
// stale graph version as a miss and evicts it on the spot, same as an
// expired entry.
type memoryLayer struct {
	lru *lru.Cache[string, Entry]
}

func newMemoryLayer() *memoryLayer {
	c, _ := lru.New[string, Entry](MemoryCapacity) // capacity > 0, never errors
	return &memoryLayer{lru: c}
}

func (m *memoryLayer) get(key string, currentVersion uint64) (Entry, bool) {
	e, ok := m.lru.Get(key)
	if !ok {
		return Entry{}, false
	}
	if e.expired(time.Now()) || e.GraphVersion != currentVersion {
		m.lru.Remove(key)
		return Entry{}, false
	}
	return e, true
}

func (m *memoryLayer) set(key string, e Entry) {
	m.lru.Add(key, e)
}

func (m *memoryLayer) clear() {
	m.lru.Purge()
}
