package cache

import (
	"container/list"
)

// LRU is a least-recently-used map. A size of zero or less disables
// eviction.
type LRU[K comparable, V any] struct {
	size      int
	evictList *list.List
	items     map[K]*list.Element
	onEvict   func(K, V)
	pinned    func(K) bool
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Option configures an LRU.
type Option[K comparable, V any] func(*LRU[K, V])

// WithEvictCallback runs fn for every entry dropped to respect the size.
func WithEvictCallback[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(c *LRU[K, V]) {
		c.onEvict = fn
	}
}

// WithPinned protects keys for which fn returns true from eviction.
func WithPinned[K comparable, V any](fn func(K) bool) Option[K, V] {
	return func(c *LRU[K, V]) {
		c.pinned = fn
	}
}

func NewLRU[K comparable, V any](size int, opts ...Option[K, V]) *LRU[K, V] {
	c := &LRU[K, V]{
		size:      size,
		evictList: list.New(),
		items:     make(map[K]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (value V, ok bool) {
	if ele, hit := c.items[key]; hit {
		c.evictList.MoveToFront(ele)
		return ele.Value.(*entry[K, V]).value, true
	}
	return
}

// Peek returns the value for key without touching its recency.
func (c *LRU[K, V]) Peek(key K) (value V, ok bool) {
	if ele, hit := c.items[key]; hit {
		return ele.Value.(*entry[K, V]).value, true
	}
	return
}

func (c *LRU[K, V]) Put(key K, value V) {
	if ele, hit := c.items[key]; hit {
		c.evictList.MoveToFront(ele)
		ele.Value.(*entry[K, V]).value = value
		return
	}

	ele := c.evictList.PushFront(&entry[K, V]{key, value})
	c.items[key] = ele

	if c.size > 0 && c.evictList.Len() > c.size {
		c.removeOldest()
	}
}

// Remove drops key and reports whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	if ele, hit := c.items[key]; hit {
		c.removeElement(ele)
		return true
	}
	return false
}

// Len is the number of stored entries.
func (c *LRU[K, V]) Len() int {
	return c.evictList.Len()
}

// Range visits entries from most to least recently used until fn returns
// false.
func (c *LRU[K, V]) Range(fn func(K, V) bool) {
	for ele := c.evictList.Front(); ele != nil; ele = ele.Next() {
		kv := ele.Value.(*entry[K, V])
		if !fn(kv.key, kv.value) {
			return
		}
	}
}

// Purge drops every entry without running the evict callback.
func (c *LRU[K, V]) Purge() {
	c.evictList.Init()
	c.items = make(map[K]*list.Element)
}

func (c *LRU[K, V]) removeOldest() {
	for ele := c.evictList.Back(); ele != nil; ele = ele.Prev() {
		kv := ele.Value.(*entry[K, V])
		if c.pinned != nil && c.pinned(kv.key) {
			continue
		}
		c.removeElement(ele)
		if c.onEvict != nil {
			c.onEvict(kv.key, kv.value)
		}
		return
	}
}

func (c *LRU[K, V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry[K, V])
	delete(c.items, kv.key)
}
