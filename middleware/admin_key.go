package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	apperrors "github.com/skylark-app/feedback-backend/errors"
)

// AdminKeyMiddleware guards admin routes with a shared X-Admin-Key header.
// An empty configured key disables the guard (development only; production
// config validation rejects it).
func AdminKeyMiddleware(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			c.Next()
			return
		}

		provided := c.GetHeader("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
			_ = c.Error(apperrors.Unauthorized("invalid_admin_key", "admin key missing or invalid"))
			c.Abort()
			return
		}

		c.Next()
	}
}
