package api

import (
	"net/http" // HTTP status codes

	"receipt_system/internal/service" // User service

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for login, sent as form fields
type LoginRequest struct {
	Username string `form:"username" binding:"required"` // Username must be provided
	Password string `form:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT token
	TokenType   string `json:"token_type"`   // Always "bearer"
}

// RegisterHandler creates a user account
func RegisterHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.RegisterInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return validation error
			abortWithError(c, bindError(err))
			return
		}
		// Hash the password and create the user
		profile, err := users.Register(c.Request.Context(), req)
		if err != nil {
			// Duplicate email or username is a conflict
			abortWithError(c, err)
			return
		}
		// Return the created profile
		c.JSON(http.StatusCreated, profile)
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind form request to struct
		if err := c.ShouldBind(&req); err != nil {
			// If binding fails, return validation error
			abortWithError(c, bindError(err))
			return
		}
		// Check credentials and issue the token
		token, err := users.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			// Unknown user or wrong password
			abortWithError(c, err)
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}
