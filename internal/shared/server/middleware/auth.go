package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/shared/server/respond"
)

const userIDKey = "userId"

// Auth validates bearer tokens or guest headers and stores identity in context.
// Session mechanics live at the deployment edge; this only establishes an
// identity string for ownership checks and logging.
func Auth(env, apiToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			if token == "" || (apiToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(apiToken)) != 1) {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			c.Set(userIDKey, "token:"+hashPrefix(token))
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID != "" {
			c.Set(userIDKey, "guest:"+guestID)
			c.Next()
			return
		}

		if env == "dev" || env == "local" {
			c.Set(userIDKey, "dev")
			c.Next()
			return
		}

		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

func hashPrefix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
