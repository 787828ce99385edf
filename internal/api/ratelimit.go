package api

import (
	"sync"

	"golang.org/x/time/rate"
)

// endpoints that get throttled
var limited = map[string]bool{
	"/auth/login":    true,
	"/auth/register": true,
}

// Limiter keeps one token bucket per throttled path.
type Limiter struct {
	mu       sync.Mutex
	r        rate.Limit
	burst    int
	buckets  map[string]*rate.Limiter
	disabled bool
}

func NewLimiter(rps float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		r:        rate.Limit(rps),
		burst:    burst,
		buckets:  make(map[string]*rate.Limiter),
		disabled: rps <= 0,
	}
}

func (l *Limiter) Limited(path string) bool {
	return !l.disabled && limited[path]
}

func (l *Limiter) Allow(path string) bool {
	l.mu.Lock()
	b, ok := l.buckets[path]
	if !ok {
		b = rate.NewLimiter(l.r, l.burst)
		l.buckets[path] = b
	}
	l.mu.Unlock()
	return b.Allow()
}
