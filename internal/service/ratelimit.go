package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedLogins bounds the limiter table; it is reset when full.
const maxTrackedLogins = 10000

// LoginLimiter throttles login attempts per email address.
type LoginLimiter struct {
	limit  rate.Limit
	burst  int
	mu     sync.Mutex
	bucket map[string]*rate.Limiter
}

// NewLoginLimiter allows perMinute attempts per address with the given
// burst. A non-positive rate disables throttling.
func NewLoginLimiter(perMinute, burst int) *LoginLimiter {
	if perMinute <= 0 {
		return &LoginLimiter{limit: rate.Inf}
	}
	if burst < 1 {
		burst = 1
	}
	return &LoginLimiter{
		limit:  rate.Every(time.Minute / time.Duration(perMinute)),
		burst:  burst,
		bucket: make(map[string]*rate.Limiter),
	}
}

func (l *LoginLimiter) Allow(key string) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.bucket[key]
	if !ok {
		if len(l.bucket) >= maxTrackedLogins {
			l.bucket = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.bucket[key] = limiter
	}
	return limiter.Allow()
}
