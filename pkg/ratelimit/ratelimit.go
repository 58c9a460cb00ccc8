package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const idleExpiry = 10 * time.Minute

type entry struct {
	limiter *rate.Limiter
	expires time.Time
}

// Limiter hands out one token bucket per key and forgets keys that have been idle.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// New allows perMinute events per key, with bursts of up to half of that.
func New(perMinute int) *Limiter {
	perMinute = max(perMinute, 1)
	return &Limiter{
		entries: make(map[string]*entry),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   max(perMinute/2, 1),
		now:     time.Now,
	}
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, e := range l.entries {
		if now.After(e.expires) {
			delete(l.entries, k)
		}
	}

	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.expires = now.Add(idleExpiry)
	return e.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429. keyFunc picks the bucket;
// an empty key falls back to the client IP.
func (l *Limiter) Middleware(keyFunc func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ""
		if keyFunc != nil {
			key = keyFunc(c)
		}
		if key == "" {
			key = c.ClientIP()
		}

		if !l.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many uploads, please wait a moment and try again."})
			return
		}
		c.Next()
	}
}
