package middleware

import (
	"net/http"
	"strings"

	"apexbooking/utils"

	"github.com/gin-gonic/gin"
)

// OwnerAuthMiddleware guards the owner-facing endpoints (automations,
// appointment lists). Sign-in itself lives in Firebase; this only verifies
// the ID token and exposes the owner's business ID to handlers. The token
// UID doubles as the business identifier: one owner account per business.
func OwnerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		token, err := utils.AuthClient.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Set("businessID", token.UID)
		c.Next()
	}
}

// GetBusinessID retrieves the authenticated owner's business ID from the context.
func GetBusinessID(c *gin.Context) string {
	if v, exists := c.Get("businessID"); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
