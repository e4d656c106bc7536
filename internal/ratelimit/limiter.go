// Package ratelimit keeps a token bucket per client key.
package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const maxClients = 10000

// Limiter allows perMinute events per key with a burst of the same size.
// Idle buckets are forgotten after window.
type Limiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	buckets *expirable.LRU[string, *rate.Limiter]
}

// New creates a limiter. perMinute <= 0 disables limiting.
func New(perMinute int, window time.Duration) *Limiter {
	if perMinute <= 0 {
		return &Limiter{}
	}
	return &Limiter{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		buckets: expirable.NewLRU[string, *rate.Limiter](maxClients, nil, window),
	}
}

// Allow reports whether key may act now and consumes a token if so
func (l *Limiter) Allow(key string) bool {
	if l == nil || l.buckets == nil {
		return true
	}

	l.mu.Lock()
	bucket, ok := l.buckets.Get(key)
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.buckets.Add(key, bucket)
	}
	l.mu.Unlock()

	return bucket.Allow()
}
