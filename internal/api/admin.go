package api

import (
	"net/http" // HTTP status codes

	"receipt_system/internal/service" // Receipt service

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListAllReceiptsHandler returns every receipt regardless of owner, newest first
func ListAllReceiptsHandler(receipts *service.ReceiptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		params, ok := bindPage(c) // Page and size from the query string
		if !ok {
			return
		}
		// Fetch the page across all owners
		resp, err := receipts.ListAll(c.Request.Context(), params)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp) // Return the response
	}
}

// AdminDeleteReceiptHandler deletes any receipt by id
func AdminDeleteReceiptHandler(receipts *service.ReceiptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bindReceiptID(c) // Receipt id from the path
		if !ok {
			return
		}
		// Ownership is not checked for admins
		if err := receipts.DeleteAny(c.Request.Context(), id); err != nil {
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
