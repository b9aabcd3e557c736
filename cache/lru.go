package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultFastStoreSize is the entry capacity used when none is
// configured.
const DefaultFastStoreSize = 1000

// EvictFunc observes every removal from the fast store: capacity
// eviction, lazy expiry, and explicit delete. The size is the stored
// value's length in bytes.
type EvictFunc func(key string, size int)

// LRUCache is a bounded in-memory cache with least-recently-used
// eviction and lazy TTL expiry. Expired entries leave the LRU order
// the moment they are detected, so they never shield live entries
// from eviction.
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
	onEvict  EvictFunc
}

type lruEntry struct {
	key       string
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// NewLRUCache creates a fast store holding at most capacity entries.
// onEvict may be nil.
func NewLRUCache(capacity int, onEvict EvictFunc) *LRUCache {
	if capacity <= 0 {
		capacity = DefaultFastStoreSize
	}
	return &LRUCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
		onEvict:  onEvict,
	}
}

// Get retrieves a value. Returns (nil, false) on miss or expiry; a hit
// marks the entry most recently used.
func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*lruEntry)
	if entry.expired(time.Now()) {
		c.removeLocked(elem)
		return nil, false
	}

	c.order.MoveToFront(elem)
	return entry.value, true
}

// Set stores a value. TTL<=0 stores without expiry. Storing an
// existing key refreshes its value, expiry and recency without firing
// the eviction hook.
func (c *LRUCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*lruEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return nil
	}

	elem := c.order.PushFront(&lruEntry{key: key, value: value, expiresAt: expiresAt})
	c.entries[key] = elem

	for len(c.entries) > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
	}
	return nil
}

// Delete removes a value. Idempotent - no error on miss.
func (c *LRUCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.removeLocked(elem)
	}
	return nil
}

// Len returns the number of resident entries, expired included until
// they are touched.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRUCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*lruEntry)
	c.order.Remove(elem)
	delete(c.entries, entry.key)
	if c.onEvict != nil {
		c.onEvict(entry.key, len(entry.value))
	}
}

func (e *lruEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Ensure LRUCache implements Cache
var _ Cache = (*LRUCache)(nil)
