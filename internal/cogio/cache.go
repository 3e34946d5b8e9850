package cogio

import (
	"container/list"
	"sync"
)

// lruCache is a thread-safe LRU cache of open COG datasets, evicting (and
// closing) the least-recently-used entry once maxSize is exceeded, keyed by
// remote asset URL rather than a fixed local tile key.
type lruCache struct {
	maxSize int
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
}

func newLRUCache(maxSize int) *lruCache {
	return &lruCache{
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

type cacheEntry struct {
	key string
	od  *openDataset
}

func (c *lruCache) get(key string) (*openDataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*cacheEntry).od, true
	}
	return nil, false
}

func (c *lruCache) put(key string, od *openDataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).od = od
		return
	}

	for c.order.Len() >= c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		entry := oldest.Value.(*cacheEntry)
		gdalMu.Lock()
		entry.od.ds.Close()
		gdalMu.Unlock()
		delete(c.entries, entry.key)
		c.order.Remove(oldest)
	}

	entry := &cacheEntry{key: key, od: od}
	elem := c.order.PushFront(entry)
	c.entries[key] = elem
}

func (c *lruCache) closeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	gdalMu.Lock()
	defer gdalMu.Unlock()
	for _, elem := range c.entries {
		elem.Value.(*cacheEntry).od.ds.Close()
	}
	c.entries = make(map[string]*list.Element)
	c.order = list.New()
}
