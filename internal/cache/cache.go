// Package cache holds short-lived in-memory copies of public read models.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// TTL is a size-bounded cache whose entries expire after a fixed duration.
// A zero TTL disables caching: Get always misses and Add is a no-op.
type TTL[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// NewTTL creates a cache holding at most size entries for ttl each
func NewTTL[K comparable, V any](size int, ttl time.Duration) *TTL[K, V] {
	if ttl <= 0 {
		return &TTL[K, V]{}
	}
	return &TTL[K, V]{lru: expirable.NewLRU[K, V](size, nil, ttl)}
}

// Get returns the cached value for key
func (c *TTL[K, V]) Get(key K) (V, bool) {
	if c == nil || c.lru == nil {
		var zero V
		return zero, false
	}
	return c.lru.Get(key)
}

// Add stores value under key
func (c *TTL[K, V]) Add(key K, value V) {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Add(key, value)
}

// Purge drops every entry
func (c *TTL[K, V]) Purge() {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Purge()
}

// Len reports the number of live entries
func (c *TTL[K, V]) Len() int {
	if c == nil || c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
