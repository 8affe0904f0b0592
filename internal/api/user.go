package api

import (
	"net/http" // HTTP status codes

	"receipt_system/internal/middleware" // Identity helpers
	"receipt_system/internal/service"    // User service

	"github.com/gin-gonic/gin" // Gin web framework
)

// GetUserHandler returns the caller's profile
func GetUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := middleware.RequireAuthenticated(middleware.CurrentIdentity(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		profile, err := users.Get(c.Request.Context(), identity) // Fetch profile
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// ChangePasswordHandler replaces the caller's password
func ChangePasswordHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := middleware.RequireAuthenticated(middleware.CurrentIdentity(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		var req service.ChangePasswordInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, bindError(err))
			return
		}
		// Verify the old password and store the new one
		if err := users.ChangePassword(c.Request.Context(), identity, req); err != nil {
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DeleteUserHandler removes the caller's account
func DeleteUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := middleware.RequireAuthenticated(middleware.CurrentIdentity(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		if err := users.Delete(c.Request.Context(), identity); err != nil {
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
