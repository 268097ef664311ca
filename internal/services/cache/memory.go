package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultTTL applies when Set is given a non-positive ttl
const DefaultTTL = 30 * time.Minute

// MemoryCache is a size-bounded in-process cache. When full it evicts the
// least recently used entries. Expired entries are dropped lazily on access
// and when room is needed.
type MemoryCache struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front is most recently used
	size     int64
	maxBytes int64
	stats    Stats
	now      func() time.Time
}

type entry struct {
	key    string
	value  []byte
	expiry time.Time
}

func (e *entry) cost() int64 {
	return int64(len(e.key) + len(e.value))
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a cache holding at most maxSizeMB megabytes.
// A non-positive size means unbounded.
func NewMemoryCache(maxSizeMB int64) *MemoryCache {
	return &MemoryCache{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		maxBytes: maxSizeMB * 1024 * 1024,
		now:      time.Now,
	}
}

// Get returns the value stored under key
func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	el, ok := mc.items[key]
	if !ok {
		mc.stats.Misses++
		return nil, false
	}

	e := el.Value.(*entry)
	if mc.now().After(e.expiry) {
		mc.remove(el)
		mc.stats.Misses++
		return nil, false
	}

	mc.order.MoveToFront(el)
	mc.stats.Hits++
	return e.value, true
}

// Set stores value under key. Values larger than the whole cache are ignored.
func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	e := &entry{key: key, value: value, expiry: mc.now().Add(ttl)}
	if mc.maxBytes > 0 && e.cost() > mc.maxBytes {
		return nil
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if el, ok := mc.items[key]; ok {
		mc.remove(el)
	}
	mc.makeRoom(e.cost())

	mc.items[key] = mc.order.PushFront(e)
	mc.size += e.cost()
	return nil
}

// Delete removes key if present
func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if el, ok := mc.items[key]; ok {
		mc.remove(el)
	}
	return nil
}

// Stats returns a snapshot of usage counters
func (mc *MemoryCache) Stats() Stats {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	stats := mc.stats
	stats.Entries = len(mc.items)
	stats.Bytes = mc.size
	stats.MaxBytes = mc.maxBytes
	return stats
}

// makeRoom drops expired entries, then least recently used ones, until need fits.
// Callers hold mc.mu.
func (mc *MemoryCache) makeRoom(need int64) {
	if mc.maxBytes <= 0 || mc.size+need <= mc.maxBytes {
		return
	}

	now := mc.now()
	for el := mc.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*entry).expiry) {
			mc.remove(el)
			mc.stats.Evictions++
		}
		el = prev
	}

	for mc.size+need > mc.maxBytes {
		el := mc.order.Back()
		if el == nil {
			return
		}
		mc.remove(el)
		mc.stats.Evictions++
	}
}

func (mc *MemoryCache) remove(el *list.Element) {
	e := mc.order.Remove(el).(*entry)
	delete(mc.items, e.key)
	mc.size -= e.cost()
}
