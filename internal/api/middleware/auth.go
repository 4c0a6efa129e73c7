package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/seorap-app/seorap-backend/internal/service"
)

const userIDKey = "userID"

// AuthMiddleware validates the bearer token and stores the user id in the
// request context.
func AuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"status":  http.StatusUnauthorized,
				"message": "missing or malformed authorization header",
			})
			return
		}

		userID, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"status":  http.StatusUnauthorized,
				"message": "invalid or expired token",
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the authenticated user id, or "" outside the protected
// group.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
