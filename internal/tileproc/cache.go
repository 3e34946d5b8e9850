// Package tileproc implements the single-tile XYZ pipeline: given a
// z/x/y slippy-map coordinate and the same search/filter/band-math
// parameters as the batch compute operation, it returns a rendered PNG
// for just that tile, cached briefly since adjacent pans/zooms tend to
// re-request the same tile within seconds.
package tileproc

import (
	"container/list"
	"sync"
	"time"
)

// TileCache is the surface Processor needs from a tile cache, satisfied by
// both the in-memory Cache below and cache.Cache's Adapter, so a
// multi-replica deployment can swap in Redis without touching Processor.
type TileCache interface {
	Get(key string) (png []byte, sceneID string, ok bool)
	Put(key string, png []byte, sceneID string)
}

// TileCacheMaxEntries bounds the in-memory tile cache regardless of TTL,
// so a burst of distinct tiles (e.g. a client panning quickly) cannot
// grow the cache unboundedly before entries expire.
const TileCacheMaxEntries = 10000

type cacheEntry struct {
	key       string
	png       []byte
	sceneID   string
	expiresAt time.Time
}

// Cache is a thread-safe, TTL-expiring, soft-capacity-capped LRU cache of
// rendered tile PNGs keyed by their full request signature.
type Cache struct {
	ttl     time.Duration
	maxSize int
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
}

// NewCache creates a tile cache with the given per-entry TTL. maxSize<=0
// falls back to TileCacheMaxEntries.
func NewCache(ttl time.Duration, maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = TileCacheMaxEntries
	}
	return &Cache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached PNG and scene ID for key, or ok=false if absent
// or expired.
func (c *Cache) Get(key string) (png []byte, sceneID string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.entries[key]
	if !found {
		return nil, "", false
	}
	entry := elem.Value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.order.Remove(elem)
		delete(c.entries, key)
		return nil, "", false
	}
	c.order.MoveToFront(elem)
	return entry.png, entry.sceneID, true
}

// Put stores png under key with the cache's configured TTL, evicting the
// least-recently-used entry if the cache is at capacity.
func (c *Cache) Put(key string, png []byte, sceneID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.png = png
		entry.sceneID = sceneID
		entry.expiresAt = time.Now().Add(c.ttl)
		c.order.MoveToFront(elem)
		return
	}

	for c.order.Len() >= c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		delete(c.entries, oldest.Value.(*cacheEntry).key)
		c.order.Remove(oldest)
	}

	entry := &cacheEntry{key: key, png: png, sceneID: sceneID, expiresAt: time.Now().Add(c.ttl)}
	elem := c.order.PushFront(entry)
	c.entries[key] = elem
}

// Len returns the current number of cached entries, including any that
// have expired but not yet been evicted by Get.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
