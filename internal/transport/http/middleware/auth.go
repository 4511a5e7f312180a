package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/pkg/jwtutil"
)

// ContextUserIDKey holds the verified token subject for downstream handlers.
const ContextUserIDKey = "user_id"

// AuthBearer verifies the Authorization bearer token and stores its subject
// in the request context. Every failure mode gets the same 401 body.
func AuthBearer(secret, algorithm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authentication token"})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		subject, err := jwtutil.ParseToken(secret, algorithm, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authentication token"})
			return
		}

		c.Set(ContextUserIDKey, subject)
		c.Next()
	}
}

// UserID fetches the authenticated subject set by AuthBearer.
func UserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}
