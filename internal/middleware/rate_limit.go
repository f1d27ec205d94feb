// internal/middleware/rate_limit.go
package middleware

import (
	"strconv"

	"estate-portal/internal/pkg/response"
	"estate-portal/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit caps requests per identity within scope. Limiter failures let
// the request through. MUST be used after Auth().
func RateLimit(limiter *session.RateLimiter, scope string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			identity = c.ClientIP()
		}

		allowed, remaining, err := limiter.Allow(c.Request.Context(), scope, identity)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if !allowed {
			response.TooManyRequests(c, "too many refresh requests, slow down")
			return
		}
		c.Next()
	}
}
