package cache

import "sync"

// DefaultFIFOCapacity is the number of entries kept by a FIFOCache when no capacity is given
const DefaultFIFOCapacity = 50

// FIFOCache is a bounded map that evicts the oldest inserted entry once it
// holds more than its capacity. Reads do not refresh an entry's position.
// Safe for concurrent use.
type FIFOCache[K comparable, V any] struct {
	data     map[K]V
	order    []K
	capacity int
	mutex    sync.Mutex
}

// NewFIFOCache creates a FIFO cache holding at most capacity entries
func NewFIFOCache[K comparable, V any](capacity int) *FIFOCache[K, V] {
	if capacity <= 0 {
		capacity = DefaultFIFOCapacity
	}
	return &FIFOCache[K, V]{
		data:     make(map[K]V, capacity+1),
		order:    make([]K, 0, capacity+1),
		capacity: capacity,
	}
}

// Get retrieves a value from the cache
func (c *FIFOCache[K, V]) Get(key K) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	value, ok := c.data[key]
	return value, ok
}

// Put stores a value. Overwriting an existing key keeps its original position.
func (c *FIFOCache[K, V]) Put(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.data[key]; !exists {
		c.order = append(c.order, key)
	}
	c.data[key] = value

	for len(c.order) > c.capacity {
		oldest := c.order[0]
		var zero K
		c.order[0] = zero
		c.order = c.order[1:]
		delete(c.data, oldest)
	}
}

// Contains reports whether key is cached
func (c *FIFOCache[K, V]) Contains(key K) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, ok := c.data[key]
	return ok
}

// Len returns the current number of entries
func (c *FIFOCache[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.data)
}

// Capacity returns the maximum number of entries
func (c *FIFOCache[K, V]) Capacity() int {
	return c.capacity
}

// Clear removes all entries
func (c *FIFOCache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[K]V, c.capacity+1)
	c.order = make([]K, 0, c.capacity+1)
}
