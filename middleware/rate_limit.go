package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/skylark-app/feedback-backend/errors"
	"github.com/skylark-app/feedback-backend/logger"
	"github.com/skylark-app/feedback-backend/services"
)

// SubmissionRateLimiter throttles feedback submissions per client IP.
// A failing limiter backend fails open: feedback intake matters more
// than precise throttling.
func SubmissionRateLimiter(limiter services.SubmissionLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), c.ClientIP(), limit, window)
		if err != nil {
			logger.GetLogger().Warnw("Rate limit check failed, allowing request",
				"error", err, "client_ip", c.ClientIP())
			c.Next()
			return
		}

		if !allowed {
			retrySeconds := int(retryAfter.Seconds())
			if retrySeconds < 0 {
				retrySeconds = 0
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retrySeconds))
			_ = c.Error(apperrors.RateLimitExceeded("Too many feedback submissions", retrySeconds))
			c.Abort()
			return
		}

		c.Next()
	}
}
