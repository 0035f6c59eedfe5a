package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"plutus/internal/logger"
	"plutus/internal/uuid"
)

const requestIDKey = "requestID"

// RequestLogging returns a Gin middleware that logs each request with a unique
// request ID, method, path, status code, latency, and client IP using Zap.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := uuid.NewWithPrefix("req")
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)
		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		// The auth middleware runs after this one, so the workspace is only
		// known once the handler chain finished.
		if wsID := c.GetString("workspaceID"); wsID != "" {
			fields = append(fields, "workspace_id", wsID)
		}
		logger.Get().Infow("request", fields...)
	}
}
