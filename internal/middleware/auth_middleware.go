package middleware

import (
	"net/http"
	"strings"

	"restaurant_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CustomerAuthMiddleware creates a Gin middleware for table session tokens.
// Tables, not staff, log in as customers; the token scopes order reads to
// the table it was issued for.
func CustomerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format. Use Bearer <token>"})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := utils.ValidateCustomerToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			c.Abort()
			return
		}

		// Set table information in the context for downstream handlers
		c.Set("tableID", claims.TableID)
		c.Set("tableName", claims.TableName)

		c.Next()
	}
}
