package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"patient-portal-server/internal/config"
	"patient-portal-server/internal/utils"
)

const userIDKey = "userID"

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			utils.Unauthorized(c, "No token, authorization denied")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(strings.TrimSpace(tokenString), cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Token is not valid")
			c.Abort()
			return
		}

		// Set user information in context for downstream handlers
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// Helper function to get user ID from context
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := userID.(string)
	return idStr, ok && idStr != ""
}
