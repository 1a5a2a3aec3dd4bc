package utils

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an unused client limiter is kept
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	RPS     float64
	Burst   int
	clients cmap.ConcurrentMap[string, *clientLimiter]
	now     func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{RPS: rps, Burst: burst, clients: cmap.New[*clientLimiter](), now: time.Now}
}

func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	now := rl.now()
	client := rl.clients.Upsert(key, nil, func(exist bool, current *clientLimiter, _ *clientLimiter) *clientLimiter {
		if !exist {
			current = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rl.RPS), rl.Burst)}
		}
		current.lastSeen = now
		return current
	})
	reservation := client.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}
	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Cleanup drops limiters of clients not seen for limiterIdleTTL
func (rl *RateLimiter) Cleanup() {
	cutoff := rl.now().Add(-limiterIdleTTL)
	for _, key := range rl.clients.Keys() {
		rl.clients.RemoveCb(key, func(_ string, client *clientLimiter, exists bool) bool {
			return exists && client.lastSeen.Before(cutoff)
		})
	}
}

// Handler rejects clients over their rate with 429. A non-positive RPS disables limiting.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.RPS <= 0 {
			c.Next()
			return
		}
		ok, retryAfter := rl.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
