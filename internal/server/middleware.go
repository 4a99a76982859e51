package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/splitsies/splitsies/internal/metrics"
	"github.com/splitsies/splitsies/internal/ratelimit"
)

// requestLogger logs every request with method, path, status, and
// duration.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		slog.Info("Request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"remote_addr", c.ClientIP(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// rateLimitMiddleware enforces a per-IP request budget and reports the
// standard rate limit headers.
func rateLimitMiddleware(limiter *ratelimit.Limiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := limiter.Check(c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(ratelimit.DefaultMaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			if m != nil {
				m.IncrementRateLimited()
			}
			c.Header("Retry-After", strconv.Itoa(int(res.ResetIn.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, try again shortly",
			})
			return
		}

		c.Next()
	}
}
