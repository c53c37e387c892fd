package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"hrdocs/internal/config"
)

// minIdleTTL is the shortest time a tenant bucket survives without traffic.
const minIdleTTL = 10 * time.Minute

type tenantBucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// RateLimiter hands out one token bucket per tenant. Requests without tenant
// context share a single bucket. Buckets idle for longer than the TTL are
// dropped; by then they have refilled, so a fresh bucket behaves the same.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.RWMutex
	buckets   map[string]*tenantBucket
	lastSweep time.Time
	fallback  *rate.Limiter
}

// NewRateLimiter creates a RateLimiter from configuration.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	ttl := minIdleTTL
	if cfg.RPS > 0 {
		if refill := time.Duration(float64(cfg.Burst) / cfg.RPS * float64(time.Second)); refill > ttl {
			ttl = refill
		}
	}
	return &RateLimiter{
		limit:     rate.Limit(cfg.RPS),
		burst:     cfg.Burst,
		idleTTL:   ttl,
		now:       time.Now,
		buckets:   make(map[string]*tenantBucket),
		lastSweep: time.Now(),
		fallback:  rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
	}
}

func (l *RateLimiter) bucket(key string) *rate.Limiter {
	if key == "" {
		return l.fallback
	}
	now := l.now()

	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		b.lastSeen.Store(now.UnixNano())
		return b.limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked(now)
	if b, ok := l.buckets[key]; ok {
		b.lastSeen.Store(now.UnixNano())
		return b.limiter
	}
	b = &tenantBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
	b.lastSeen.Store(now.UnixNano())
	l.buckets[key] = b
	return b.limiter
}

// sweepLocked drops idle buckets, at most once per TTL. l.mu must be held.
func (l *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	l.lastSweep = now
	cutoff := now.Add(-l.idleTTL).UnixNano()
	for key, b := range l.buckets {
		if b.lastSeen.Load() < cutoff {
			delete(l.buckets, key)
		}
	}
}

// Middleware rejects requests over the tenant's budget with HTTP 429.
// It must run after AuthMiddleware to key buckets by tenant.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var key string
		if tenantID, err := GetTenantID(c); err == nil {
			key = tenantID.String()
		}

		if !l.bucket(key).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests",
			})
			return
		}
		c.Next()
	}
}
