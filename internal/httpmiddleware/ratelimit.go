package httpmiddleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rateLimited = promauto.NewCounter(prometheus.CounterOpts{
	Name: "silambam_http_rate_limited_total",
	Help: "Requests rejected by the per-client rate limiter.",
})

// TokenBucket rate-limits requests per client IP. Each bucket holds capacity
// tokens and refills continuously at perMinute. State is process-local, so
// the limit applies per replica.
type TokenBucket struct {
	capacity float64
	perSec   float64
	mu       sync.Mutex
	buckets  map[string]*clientBucket
}

type clientBucket struct {
	tokens float64
	seen   time.Time
}

// NewTokenBucket creates a limiter allowing perMinute sustained requests with
// bursts up to capacity.
func NewTokenBucket(capacity, perMinute int) *TokenBucket {
	if capacity <= 0 {
		capacity = perMinute
	}
	return &TokenBucket{
		capacity: float64(capacity),
		perSec:   float64(perMinute) / 60,
		buckets:  make(map[string]*clientBucket),
	}
}

// Middleware rejects over-limit clients with 429.
func (t *TokenBucket) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !t.take(ip, time.Now()) {
			rateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (t *TokenBucket) take(key string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.buckets[key]
	if !ok {
		b = &clientBucket{tokens: t.capacity}
		t.buckets[key] = b
	} else {
		b.tokens += now.Sub(b.seen).Seconds() * t.perSec
		if b.tokens > t.capacity {
			b.tokens = t.capacity
		}
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
