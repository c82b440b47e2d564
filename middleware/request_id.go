package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key holding the request id.
// logger.LogHTTPError reads it from there to correlate error logs.
const RequestIDKey = "request_id"

// RequestIDMiddleware tags every request with an id, honoring one already
// assigned upstream by a proxy or load balancer, and echoes it back in the
// X-Request-ID response header so submitters can quote it when reporting
// a failed feedback request.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}
