package middleware

import (
	"strings" // String manipulation

	"receipt_system/internal/apperr" // Error taxonomy
	"receipt_system/internal/domain" // Identity type
	"receipt_system/internal/utils"  // Token service

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// IdentityKey is the gin context key holding the caller identity
const IdentityKey = "identity"

// JWTAuthMiddleware validates bearer tokens and stores the caller identity in the context
func JWTAuthMiddleware(tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			AbortWithError(c, apperr.Unauthorized("Missing or invalid Authorization header"))
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		identity, err := tokens.Decode(tokenStr)              // Decode and validate the token
		if err != nil {
			logrus.WithError(err).Debug("rejected bearer token")
			// If validation fails, abort with unauthorized status
			AbortWithError(c, apperr.Unauthorized("Could not validate credentials"))
			return
		}
		c.Set(IdentityKey, identity) // Store identity in context
		c.Next()                     // Proceed to the next handler
	}
}

// CurrentIdentity returns the identity stored by JWTAuthMiddleware, or nil
func CurrentIdentity(c *gin.Context) *domain.Identity {
	v, exists := c.Get(IdentityKey) // Get identity from context
	if !exists {
		return nil
	}
	identity, _ := v.(*domain.Identity) // Typed identity, nil on mismatch
	return identity
}

// AbortWithError stops the chain and writes the error body for err
func AbortWithError(c *gin.Context, err error) {
	appErr := apperr.From(err) // Resolve into the taxonomy
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.Response())
}
