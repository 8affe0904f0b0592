package api

import (
	"receipt_system/internal/apperr"     // Error taxonomy
	"receipt_system/internal/metrics"    // Prometheus instrumentation
	"receipt_system/internal/middleware" // Custom middleware
	"receipt_system/internal/service"    // Receipt and user services
	"receipt_system/internal/utils"      // Token service
	"receipt_system/internal/validation" // Shared validator setup

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// NewRouter builds the gin engine with every route of the service
func NewRouter(receipts *service.ReceiptService, users *service.UserService, tokens *utils.TokenService) *gin.Engine {
	// Apply custom validators to gin request binding
	if err := validation.RegisterGin(); err != nil {
		logrus.Fatalf("failed to configure validator: %v", err)
	}

	r := gin.Default()                           // Gin router instance
	r.Use(metrics.GinMiddleware())               // Request metrics
	auth := middleware.JWTAuthMiddleware(tokens) // Bearer token check

	// Public routes
	r.GET("/healthy", HealthHandler())                       // Health check endpoint
	r.GET("/metrics", gin.WrapH(metrics.Handler()))          // Prometheus metrics endpoint
	r.POST("/auth/create_user", RegisterHandler(users))      // Registration endpoint
	r.POST("/auth/token", LoginHandler(users))               // Login endpoint
	r.GET("/receipt/:id/text", ReceiptTextHandler(receipts)) // Plain text export link

	// Receipt routes (protected by JWT)
	r.GET("/receipts", auth, ListReceiptsHandler(receipts))                          // All own receipts
	r.GET("/receipts/", auth, ListReceiptsByPaymentTypeHandler(receipts))            // Own receipts by payment type
	r.GET("/receipts/last_month/", auth, ListLastMonthReceiptsHandler(receipts))     // Own receipts of last month
	r.GET("/receipts/:total_amount/", auth, ListReceiptsByMinTotalHandler(receipts)) // Own receipts above a total
	r.POST("/receipt", auth, CreateReceiptHandler(receipts))                         // Create receipt endpoint
	r.GET("/receipt/:id", auth, GetReceiptHandler(receipts))                         // Get receipt endpoint
	r.DELETE("/receipt/:id", auth, DeleteReceiptHandler(receipts))                   // Delete receipt endpoint

	// User routes (protected by JWT)
	userGroup := r.Group("/user")
	userGroup.Use(auth)
	userGroup.GET("", GetUserHandler(users))                 // Profile endpoint
	userGroup.PUT("/password", ChangePasswordHandler(users)) // Password change endpoint
	userGroup.DELETE("/delete", DeleteUserHandler(users))    // Account deletion endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	// Protect admin routes with JWT and AdminOnly middleware
	adminGroup.Use(auth, middleware.AdminOnlyMiddleware())
	adminGroup.GET("/receipts", ListAllReceiptsHandler(receipts))          // List every receipt
	adminGroup.DELETE("/receipt/:id", AdminDeleteReceiptHandler(receipts)) // Delete any receipt

	return r
}

// abortWithError writes the error body for err and stops the handler chain
func abortWithError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

// bindError turns a gin binding failure into a validation error
func bindError(err error) error {
	return apperr.Validation(validation.Message(err))
}
