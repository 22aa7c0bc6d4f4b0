package middleware

import (
	"net/http"
	"strings"

	"functionhall/internal/logger"
	"functionhall/internal/pkg/jwt"
	"functionhall/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// JWTAuth authenticates the bearer token and stores user_id and role on the
// context. WebSocket upgrades may carry the token in ?token= instead, since
// browsers cannot set headers on them.
func JWTAuth(j *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			return
		}

		claims, err := j.ValidateToken(tokenStr)
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Request = c.Request.WithContext(logger.ContextWithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" {
		if isWebSocketUpgrade(c.Request) {
			if tok := strings.TrimSpace(c.Query("token")); tok != "" {
				return tok, true
			}
		}
		response.CustomError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
		return "", false
	}

	if !strings.HasPrefix(h, "Bearer ") {
		response.CustomError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
		return "", false
	}

	tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	if tok == "" {
		response.CustomError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Empty token")
		return "", false
	}
	return tok, true
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

// OptionalAuth sets user_id and role when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(j *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			if claims, err := j.ValidateToken(strings.TrimSpace(tok)); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("role", claims.Role)
			}
		}
		c.Next()
	}
}
