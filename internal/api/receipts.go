package api

import (
	"net/http" // HTTP status codes

	"receipt_system/internal/apperr"     // Error taxonomy
	"receipt_system/internal/domain"     // Importing domain models
	"receipt_system/internal/formatter"  // Plain text rendering
	"receipt_system/internal/middleware" // Identity helpers
	"receipt_system/internal/pagination" // Page parameters
	"receipt_system/internal/service"    // Receipt service

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Receipt ids
)

// IdempotencyKeyHeader lets clients retry POST /receipt safely
const IdempotencyKeyHeader = "Idempotency-Key"

// receiptURI binds the receipt id path segment, canonical lower-case UUID only
type receiptURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type paymentTypeQuery struct {
	PaymentType domain.PaymentType `form:"payment_type" binding:"required,oneof=cash cashless"`
}

type totalAmountURI struct {
	TotalAmount float64 `uri:"total_amount" binding:"required,gt=0"`
}

type textQuery struct {
	Width int    `form:"max_characters_per_line,default=50" binding:"gt=0,lte=1000"` // Line width, at most formatter.MaxWidth
	Lang  string `form:"lang" binding:"omitempty,oneof=uk en"`                       // Label language
}

// bindReceiptID parses the :id path segment
func bindReceiptID(c *gin.Context) (uuid.UUID, bool) {
	var uri receiptURI
	if err := c.ShouldBindUri(&uri); err != nil {
		abortWithError(c, bindError(err))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(uri.ID)
	if err != nil || id.String() != uri.ID {
		abortWithError(c, apperr.Validation("id must be a lower-case canonical UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// bindPage parses page and size from the query string
func bindPage(c *gin.Context) (pagination.PageParams, bool) {
	var params pagination.PageParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithError(c, bindError(err))
		return params, false
	}
	return params, true
}

// listOwnReceipts answers every owner listing endpoint with the given filter
func listOwnReceipts(c *gin.Context, receipts *service.ReceiptService, filter service.ListFilter) {
	identity, err := middleware.RequireAuthenticated(middleware.CurrentIdentity(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	params, ok := bindPage(c)
	if !ok {
		return
	}
	resp, err := receipts.List(c.Request.Context(), identity.ID, filter, params)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListReceiptsHandler returns the caller's receipts, newest first
func ListReceiptsHandler(receipts *service.ReceiptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		listOwnReceipts(c, receipts, service.ListFilter{})
	}
}

// ListReceiptsByPaymentTypeHandler returns the caller's receipts paid with payment_type
func ListReceiptsByPaymentTypeHandler(receipts *service.ReceiptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q paymentTypeQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			abortWithError(c, bindError(err))
			return
		}
		listOwnReceipts(c, receipts, service.ListFilter{PaymentType: q.PaymentType})
	}
}

// ListLastMonthReceiptsHandler returns the caller's receipts from the previous calendar month
func ListLastMonthReceiptsHandler(receipts *service.ReceiptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		listOwnReceipts(c, receipts, service.ListFilter{LastMonth: true})
	}
}

// ListReceiptsByMinTotalHandler returns the caller's receipts with total >= total_amount
func ListReceiptsByMinTotalHandler(receipts *service.ReceiptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri totalAmountURI
		if err := c.ShouldBindUri(&uri); err != nil {
			abortWithError(c, bindError(err))
			return
		}
		listOwnReceipts(c, receipts, service.ListFilter{MinTotal: &uri.TotalAmount})
	}
}

// CreateReceiptHandler stores a receipt for the caller
func CreateReceiptHandler(receipts *service.ReceiptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := middleware.RequireAuthenticated(middleware.CurrentIdentity(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		var req service.CreateReceiptInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, bindError(err))
			return
		}
		key := c.GetHeader(IdempotencyKeyHeader) // Optional retry key
		receipt, err := receipts.Create(c.Request.Context(), identity.ID, req, key)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, receipt)
	}
}

// GetReceiptHandler returns one of the caller's receipts
func GetReceiptHandler(receipts *service.ReceiptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := middleware.RequireAuthenticated(middleware.CurrentIdentity(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		id, ok := bindReceiptID(c)
		if !ok {
			return
		}
		receipt, err := receipts.Get(c.Request.Context(), identity.ID, id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, receipt)
	}
}

// DeleteReceiptHandler deletes one of the caller's receipts
func DeleteReceiptHandler(receipts *service.ReceiptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := middleware.RequireAuthenticated(middleware.CurrentIdentity(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		id, ok := bindReceiptID(c)
		if !ok {
			return
		}
		// Someone else's receipt is reported as not found
		if err := receipts.Delete(c.Request.Context(), identity.ID, id); err != nil {
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ReceiptTextHandler renders any receipt as plain text. No token is required.
func ReceiptTextHandler(receipts *service.ReceiptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bindReceiptID(c)
		if !ok {
			return
		}
		var q textQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			abortWithError(c, bindError(err))
			return
		}
		text, err := receipts.RenderText(c.Request.Context(), id, q.Width, formatter.LabelsFor(q.Lang))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.String(http.StatusOK, text)
	}
}
