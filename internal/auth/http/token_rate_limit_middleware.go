package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// TokenRateLimiter holds per-IP rate limiters with periodic cleanup of stale
// entries. The token issuance endpoint is unauthenticated, so the
// identity-keyed governor cannot apply; a per-IP token bucket via
// golang.org/x/time/rate limits credential stuffing instead.
type TokenRateLimiter struct {
	limiters sync.Map // map[string]*tokenRateLimiterEntry (IP -> limiter)
	rps      float64
	burst    int
}

// tokenRateLimiterEntry holds a rate limiter and last access time for cleanup.
type tokenRateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// NewTokenRateLimiter creates a TokenRateLimiter with the given refill rate
// and burst size.
func NewTokenRateLimiter(rps float64, burst int) *TokenRateLimiter {
	return &TokenRateLimiter{
		rps:   rps,
		burst: burst,
	}
}

// StartCleanup launches a goroutine that periodically removes limiters that
// have not been accessed for an hour. The goroutine stops when ctx is
// cancelled.
func (l *TokenRateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				threshold := time.Now().Add(-1 * time.Hour)
				l.limiters.Range(func(key, value interface{}) bool {
					entry := value.(*tokenRateLimiterEntry)
					entry.mu.Lock()
					shouldDelete := entry.lastAccess.Before(threshold)
					entry.mu.Unlock()

					if shouldDelete {
						l.limiters.Delete(key)
					}
					return true
				})
			}
		}
	}()
}

// Middleware enforces the per-IP limit. Uses c.ClientIP(), which handles
// X-Forwarded-For, X-Real-IP and the direct remote address.
//
// Returns 429 Too Many Requests with a Retry-After header when the bucket is
// empty.
func (l *TokenRateLimiter) Middleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		limiter := l.getLimiter(clientIP)
		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()

			logger.Debug("token rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many token requests from this IP. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getLimiter retrieves or creates a rate limiter for an IP address.
// LoadOrStore keeps concurrent first requests from one IP on a single bucket.
func (l *TokenRateLimiter) getLimiter(ip string) *rate.Limiter {
	entry := &tokenRateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(l.rps), l.burst),
		lastAccess: time.Now(),
	}

	if val, loaded := l.limiters.LoadOrStore(ip, entry); loaded {
		existing := val.(*tokenRateLimiterEntry)
		existing.mu.Lock()
		existing.lastAccess = time.Now()
		existing.mu.Unlock()
		return existing.limiter
	}

	return entry.limiter
}
