package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"functionhall/internal/logger"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates or assigns X-Request-ID and puts it on the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = logger.NewRequestID()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// ErrorLogger writes one access log line per request and recovers from panics.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				logRequest(c, start, slog.LevelError, "panic recovered",
					"error", fmt.Sprint(recovered), "stack", string(debug.Stack()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_SERVER_ERROR",
						"message": "Internal server error",
					},
				})
				return
			}

			switch status := c.Writer.Status(); {
			case len(c.Errors) > 0:
				logRequest(c, start, slog.LevelError, "request failed", "error", c.Errors.String())
			case status >= http.StatusInternalServerError:
				logRequest(c, start, slog.LevelError, "request failed")
			case status >= http.StatusBadRequest:
				logRequest(c, start, slog.LevelWarn, "request rejected")
			default:
				logRequest(c, start, slog.LevelInfo, "request")
			}
		}()

		c.Next()
	}
}

func logRequest(c *gin.Context, start time.Time, level slog.Level, msg string, extra ...any) {
	attrs := append([]any{
		"status", c.Writer.Status(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"query", c.Request.URL.RawQuery,
		"client_ip", c.ClientIP(),
		"role", c.GetString("role"),
		"latency", time.Since(start),
	}, extra...)
	logger.WithContext(c.Request.Context()).Log(c.Request.Context(), level, msg, attrs...)
}
