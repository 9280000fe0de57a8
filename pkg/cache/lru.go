package cache

import "sync"

type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// LRU is a thread-safe fixed-capacity cache. Adding a key beyond capacity
// evicts the least recently used entry, invoking the eviction callback when
// one is configured.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*node[K, V]
	// head is most recently used, tail is next to evict.
	head, tail *node[K, V]
	onEvict    func(key K, value V)
}

// Option configures an LRU during construction.
type Option[K comparable, V any] func(*LRU[K, V])

// WithEvictCallback registers fn to run whenever an entry leaves the cache
// through eviction, Remove, or Purge. Used to release resources the cached
// values own.
func WithEvictCallback[K comparable, V any](fn func(key K, value V)) Option[K, V] {
	return func(c *LRU[K, V]) {
		c.onEvict = fn
	}
}

// New creates an LRU holding at most capacity entries. Panics if capacity is
// not positive.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) *LRU[K, V] {
	if capacity <= 0 {
		panic("cache: capacity must be positive")
	}
	c := &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*node[K, V], capacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	return n.value, true
}

// Put stores value under key, evicting the least recently used entry if the
// cache is full. Reports whether the key was already present.
func (c *LRU[K, V]) Put(key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok {
		n.value = value
		c.moveToFront(n)
		return true
	}

	n := &node[K, V]{key: key, value: value}
	c.items[key] = n
	c.pushFront(n)

	if len(c.items) > c.capacity {
		c.evict(c.tail)
	}
	return false
}

// Remove drops key from the cache, firing the eviction callback if the key
// was present.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		return false
	}
	c.evict(n)
	return true
}

// Len reports the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Purge empties the cache, firing the eviction callback for every entry.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.onEvict != nil {
		for n := c.head; n != nil; n = n.next {
			c.onEvict(n.key, n.value)
		}
	}
	clear(c.items)
	c.head, c.tail = nil, nil
}

func (c *LRU[K, V]) evict(n *node[K, V]) {
	c.unlink(n)
	delete(c.items, n.key)
	if c.onEvict != nil {
		c.onEvict(n.key, n.value)
	}
}

func (c *LRU[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *LRU[K, V]) moveToFront(n *node[K, V]) {
	if c.head == n {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *LRU[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
