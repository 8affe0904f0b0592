package middleware

import (
	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the admin flag carried by the caller's token
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check the identity set by JWTAuthMiddleware
		if _, err := RequireAdmin(CurrentIdentity(c)); err != nil {
			// If not admin, abort with unauthorized status
			AbortWithError(c, err)
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
