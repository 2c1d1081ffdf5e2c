package cache

import "sync"

// basicCache is an unbounded in-memory cache. Entries never expire, so it
// is only suitable for short-lived processes and tests.
type basicCache[T any] struct {
	mu      sync.Mutex
	entries map[string]basicEntry[T]
}

type basicEntry[T any] struct {
	data  T
	valid bool
}

func NewBasicCache[T any]() *basicCache[T] {
	return &basicCache[T]{
		entries: make(map[string]basicEntry[T]),
	}
}

func (c *basicCache[T]) getOrClaim(key string) hitResult[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		return hitResult[T]{
			data:    entry.data,
			valid:   entry.valid,
			claimed: false,
		}
	}

	// Claim the key for this caller by storing an invalid entry
	c.entries[key] = basicEntry[T]{}
	return hitResult[T]{claimed: true}
}

func (c *basicCache[T]) set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = basicEntry[T]{data: data, valid: true}
}

func (c *basicCache[T]) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

func (c *basicCache[T]) wait() {
}
