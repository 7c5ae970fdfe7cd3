package http

import (
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/queryware/sqlgate/internal/errors"
	"github.com/queryware/sqlgate/internal/httputil"
	"github.com/queryware/sqlgate/internal/metrics"
	"github.com/queryware/sqlgate/internal/ratelimit"
)

// GovernorMiddleware enforces the per-identity fixed request window on
// authenticated routes.
//
// MUST be used after AuthenticationMiddleware (requires a principal in
// context). Admission counts the request against the identity's window
// whether or not later stages succeed, so deliberately invalid queries
// cannot probe quota for free.
//
// Response headers:
//   - X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset on every
//     admitted request
//   - Retry-After additionally on 429 rejections
func GovernorMiddleware(
	governor *ratelimit.Governor,
	gateMetrics metrics.GateMetrics,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok || principal == nil {
			// Authentication middleware should have caught this.
			logger.Error("governor middleware: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, logger)
			c.Abort()
			return
		}

		decision := governor.Allow(principal.Identity, time.Now())
		gateMetrics.RecordAdmission(c.Request.Context(), decision.Admitted)

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

		if !decision.Admitted {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			logger.Debug("rate limit exceeded",
				slog.String("identity", principal.Identity),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			httputil.HandleErrorGin(c, apperrors.ErrRateLimited, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
