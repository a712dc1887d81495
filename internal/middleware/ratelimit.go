package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/logger"
	"taskboard/internal/ratelimit"
)

// LoginRateLimit throttles attempts per client IP. A successful login clears
// the client's counter. When the limiter itself fails the request is let
// through.
func LoginRateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "login:" + c.ClientIP()
		res, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Get().Warnw("rate limiter unavailable", "error", err, "client_ip", c.ClientIP())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			if res.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			}
			abortWithError(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()

		if c.Writer.Status() == http.StatusOK {
			if err := limiter.Reset(c.Request.Context(), key); err != nil {
				logger.Get().Warnw("failed to reset login rate limit", "error", err, "client_ip", c.ClientIP())
			}
		}
	}
}
