package middleware

import (
	"net/http"
	"strings"

	"functionhall/internal/logger"

	"github.com/gin-gonic/gin"
)

// MetricsAuth guards the scrape endpoint with a static bearer token and an
// optional client IP allow list. An empty token leaves the endpoint open.
func MetricsAuth(token string, allowedIPs []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ipAllowed(c.ClientIP(), allowedIPs) {
			logAuthFailure(c, http.StatusForbidden, "ip_not_allowed")
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		if token == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logAuthFailure(c, http.StatusUnauthorized, "invalid_auth_format")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if parts[1] != token {
			logAuthFailure(c, http.StatusForbidden, "invalid_token")
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func ipAllowed(clientIP string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, ip := range allowed {
		if ip == clientIP {
			return true
		}
	}
	return false
}

func logAuthFailure(c *gin.Context, status int, reason string) {
	logger.WithContext(c.Request.Context()).Warn("metrics auth failed",
		"status", status, "reason", reason, "client_ip", c.ClientIP())
}
