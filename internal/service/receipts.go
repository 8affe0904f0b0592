// Package service holds the receipt and user use cases behind the HTTP handlers.
package service

import (
	"context" // Request context
	"errors"  // Error inspection
	"fmt"     // Key formatting
	"time"    // Clock and key lifetime

	"receipt_system/internal/apperr"     // Error taxonomy
	"receipt_system/internal/domain"     // Importing domain models
	"receipt_system/internal/formatter"  // Plain text rendering
	"receipt_system/internal/metrics"    // Prometheus instrumentation
	"receipt_system/internal/pagination" // Paged listings
	"receipt_system/internal/repository" // Storage interfaces
	"receipt_system/internal/utils"      // Idempotency store
	"receipt_system/internal/validation" // Shared validator

	"github.com/google/uuid"     // Receipt ids
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// IdempotencyTTL is how long a used Idempotency-Key blocks a repeat.
const IdempotencyTTL = 24 * time.Hour

// LineItemInput is one product of a new receipt
type LineItemInput struct {
	Name     string   `json:"name" binding:"required,notblank"`  // Product name
	Price    *float64 `json:"price" binding:"required,gte=0"`    // Unit price, zero allowed
	Quantity *float64 `json:"quantity" binding:"required,gte=0"` // Quantity, zero allowed
}

// PaymentInput is the payment of a new receipt
type PaymentInput struct {
	Type   domain.PaymentType `json:"type" binding:"required,oneof=cash cashless"` // Cash or cashless
	Amount *float64           `json:"amount" binding:"required,gte=0"`             // Amount paid
}

// CreateReceiptInput is the body of POST /receipt.
type CreateReceiptInput struct {
	Products []LineItemInput `json:"products" binding:"required,min=1,dive"` // At least one product
	Payment  PaymentInput    `json:"payment"`                                // Payment details
}

// ListFilter selects which of an owner's receipts are listed.
type ListFilter struct {
	PaymentType domain.PaymentType // Exact payment type, empty for any
	MinTotal    *float64           // Lower bound of the total, nil for none
	LastMonth   bool               // Previous calendar month only
}

// ReceiptService creates, lists, fetches, deletes and renders receipts.
type ReceiptService struct {
	receipts    repository.ReceiptRepository // Receipt storage
	users       repository.UserRepository    // Owner lookup for the issuer line
	idempotency utils.IdempotencyStore       // Optional retry key store
	now         func() time.Time             // Clock
}

// NewReceiptService wires the service. idempotency may be nil, which disables
// Idempotency-Key handling.
func NewReceiptService(receipts repository.ReceiptRepository, users repository.UserRepository, idempotency utils.IdempotencyStore) *ReceiptService {
	return &ReceiptService{
		receipts:    receipts,
		users:       users,
		idempotency: idempotency,
		now:         time.Now,
	}
}

// Create stores a new receipt for ownerID with computed totals.
func (s *ReceiptService) Create(ctx context.Context, ownerID uint, in CreateReceiptInput, idempotencyKey string) (*domain.Receipt, error) {
	// Validate request
	if err := validation.Struct(in); err != nil {
		return nil, apperr.Validation(validation.Message(err))
	}

	var reserved string // Idempotency key held by this request
	// Reserve the retry key when the client sent one and a store is configured
	if idempotencyKey != "" && s.idempotency != nil {
		key := fmt.Sprintf("idempotency:receipt:%d:%s", ownerID, idempotencyKey) // Keys are per owner
		ok, err := s.idempotency.Reserve(ctx, key, IdempotencyTTL)
		if err != nil {
			logrus.WithError(err).Error("idempotency store unavailable")
			return nil, apperr.Internal("Internal server error", err)
		}
		// Key already used within its lifetime
		if !ok {
			return nil, apperr.Conflict("Duplicate receipt request")
		}
		reserved = key
	}

	items := make([]domain.LineItem, len(in.Products)) // Products to store
	for i, p := range in.Products {
		items[i] = domain.LineItem{Name: p.Name, Price: *p.Price, Quantity: *p.Quantity}
	}
	receipt := domain.NewReceipt(ownerID, items, domain.Payment{Type: in.Payment.Type, Amount: *in.Payment.Amount}, s.now()) // Totals are computed here

	// Store receipt in a single transaction
	if err := s.receipts.CreateReceipt(ctx, &receipt); err != nil {
		// Free the key so the client can retry
		if reserved != "" {
			if relErr := s.idempotency.Release(ctx, reserved); relErr != nil {
				logrus.WithError(relErr).Warn("failed to release idempotency key")
			}
		}
		logrus.WithError(err).WithField("owner_id", ownerID).Error("failed to store receipt")
		return nil, apperr.Internal("Internal server error", err)
	}

	metrics.RecordReceiptCreated(string(receipt.Payment.Type)) // Count created receipts
	// Log the new receipt
	logrus.WithFields(logrus.Fields{
		"receipt_id": receipt.ID,
		"owner_id":   ownerID,
		"total":      receipt.Total,
	}).Info("receipt created")
	return &receipt, nil
}

// List returns a page of the owner's receipts, newest first.
func (s *ReceiptService) List(ctx context.Context, ownerID uint, filter ListFilter, params pagination.PageParams) (*pagination.PagedResponse[domain.Receipt], error) {
	f := repository.ReceiptFilter{OwnerID: &ownerID, PaymentType: filter.PaymentType, MinTotal: filter.MinTotal} // Only the owner's receipts
	// Restrict to the previous calendar month
	if filter.LastMonth {
		from, before := LastMonthRange(s.now()) // Month bounds in UTC
		f.CreatedFrom, f.CreatedBefore = &from, &before
	}
	return s.page(ctx, f, params)
}

// ListAll returns a page of every owner's receipts, newest first.
func (s *ReceiptService) ListAll(ctx context.Context, params pagination.PageParams) (*pagination.PagedResponse[domain.Receipt], error) {
	return s.page(ctx, repository.ReceiptFilter{}, params) // No owner restriction
}

func (s *ReceiptService) page(ctx context.Context, f repository.ReceiptFilter, params pagination.PageParams) (*pagination.PagedResponse[domain.Receipt], error) {
	resp, err := pagination.Paginate(ctx, s.receipts.QueryReceipts(f), params, pagination.Identity[domain.Receipt]) // Count and fetch the page
	// Page or size below 1
	if errors.Is(err, pagination.ErrInvalidParams) {
		return nil, apperr.Validation(err.Error())
	}
	if err != nil {
		logrus.WithError(err).Error("failed to list receipts")
		return nil, apperr.Internal("Internal server error", err)
	}
	// An empty page is reported as not found
	if len(resp.Results) == 0 {
		return nil, apperr.NotFound("Receipts not found")
	}
	return resp, nil
}

// Get returns the receipt if ownerID owns it.
func (s *ReceiptService) Get(ctx context.Context, ownerID uint, id uuid.UUID) (*domain.Receipt, error) {
	receipt, err := s.receipts.GetReceipt(ctx, id, &ownerID) // Scoped to the owner
	if err != nil {
		return nil, receiptError(err)
	}
	return receipt, nil
}

// Delete removes the receipt if ownerID owns it. Someone else's receipt is reported
// as not found.
func (s *ReceiptService) Delete(ctx context.Context, ownerID uint, id uuid.UUID) error {
	// Delete only within the owner's receipts
	if err := s.receipts.DeleteReceipt(ctx, id, &ownerID); err != nil {
		return receiptError(err)
	}
	metrics.RecordReceiptDeleted("owner") // Count owner deletes
	logrus.WithFields(logrus.Fields{"receipt_id": id, "owner_id": ownerID}).Info("receipt deleted")
	return nil
}

// DeleteAny removes a receipt regardless of owner.
func (s *ReceiptService) DeleteAny(ctx context.Context, id uuid.UUID) error {
	// Delete without an owner scope
	if err := s.receipts.DeleteReceipt(ctx, id, nil); err != nil {
		return receiptError(err)
	}
	metrics.RecordReceiptDeleted("admin") // Count admin deletes
	logrus.WithField("receipt_id", id).Info("receipt deleted by admin")
	return nil
}

// RenderText looks a receipt up by id alone and formats it as plain text.
// The issuer is the owner's name, or just the business marker once the owner is gone.
func (s *ReceiptService) RenderText(ctx context.Context, id uuid.UUID, width int, labels formatter.Labels) (string, error) {
	receipt, err := s.receipts.GetReceipt(ctx, id, nil) // Any owner, the link is public
	if err != nil {
		return "", receiptError(err)
	}

	issuer := labels.BusinessMarker                         // Issuer for orphaned receipts
	owner, err := s.users.GetUserByID(ctx, receipt.OwnerID) // Owner name for the header
	switch {
	case err == nil:
		issuer = formatter.IssuerName(labels, owner.FirstName, owner.LastName)
	case !errors.Is(err, repository.ErrNotFound):
		logrus.WithError(err).Error("failed to load receipt owner")
		return "", apperr.Internal("Internal server error", err)
	}
	return formatter.Format(*receipt, issuer, width, labels), nil
}

// LastMonthRange returns [first day of the previous month, first day of this month) in UTC.
func LastMonthRange(now time.Time) (from, before time.Time) {
	now = now.UTC()                                                      // Months are calendar months in UTC
	before = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC) // First day of this month
	return before.AddDate(0, -1, 0), before                              // January maps to December
}

// receiptError maps a store failure to the error taxonomy
func receiptError(err error) error {
	// Absent and not owned look the same
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Receipt not found")
	}
	logrus.WithError(err).Error("receipt store failure")
	return apperr.Internal("Internal server error", err)
}
