package worker

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an unused client bucket is kept
const DefaultIdleTTL = 10 * time.Minute

// Limiter implements per-key token-bucket rate limiting. Keys are client
// addresses for the HTTP server and a fixed key for batch runs. Buckets
// idle for longer than the TTL are dropped.
type Limiter struct {
	clients      *gocache.Cache
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	return NewLimiterWithTTL(requestsPerSecond, burst, DefaultIdleTTL)
}

// NewLimiterWithTTL creates a limiter whose idle buckets expire after ttl
func NewLimiterWithTTL(requestsPerSecond float64, burst int, ttl time.Duration) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}

	return &Limiter{
		clients:      gocache.New(ttl, ttl),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until key may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.getLimiter(key).Wait(ctx)
}

// Allow reports whether key may proceed now, consuming a token if so
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	return l.clients.ItemCount()
}

// getLimiter returns the bucket for key and refreshes its idle timer
func (l *Limiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.clients.Get(key); ok {
		limiter := v.(*rate.Limiter)
		l.clients.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.clients.SetDefault(key, limiter)
	return limiter
}
