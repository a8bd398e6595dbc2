package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"budget_tracker/internal/utils"
)

const (
	AuthUserKey     = "authUser"
	AuthUsernameKey = "authUsername"
	AuthRoleKey     = "authRole"
)

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(AuthUserKey, claims.UserID)
		c.Set(AuthUsernameKey, claims.Username)
		c.Set(AuthRoleKey, claims.Role)

		c.Next()
	}
}
