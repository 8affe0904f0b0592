package repository

import (
	"context" // Request context

	"receipt_system/internal/domain"     // Importing domain models
	"receipt_system/internal/pagination" // Paged queries

	"github.com/google/uuid" // Receipt ids
	"gorm.io/gorm"           // GORM ORM library
)

// CreateReceipt inserts the receipt in a single transaction.
func (r *Repository) CreateReceipt(ctx context.Context, receipt *domain.Receipt) error {
	// Atomic insert
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(receipt).Error // Return error to rollback
	})
	return translate(err)
}

// GetReceipt finds a receipt by id, limited to ownerID when it is set
func (r *Repository) GetReceipt(ctx context.Context, id uuid.UUID, ownerID *uint) (*domain.Receipt, error) {
	var receipt domain.Receipt // Find receipt
	// Query receipt by id and owner
	if err := r.receiptScope(ctx, id, ownerID).First(&receipt).Error; err != nil {
		return nil, translate(err)
	}
	return &receipt, nil
}

// DeleteReceipt deletes by id and, when ownerID is set, by owner in the same statement.
func (r *Repository) DeleteReceipt(ctx context.Context, id uuid.UUID, ownerID *uint) error {
	res := r.receiptScope(ctx, id, ownerID).Delete(&domain.Receipt{}) // Delete matching row
	if res.Error != nil {
		return translate(res.Error)
	}
	// Absent or owned by someone else
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// QueryReceipts returns the filtered listing in ReceiptOrder
func (r *Repository) QueryReceipts(filter ReceiptFilter) pagination.Query[domain.Receipt] {
	return pagination.NewGormQuery[domain.Receipt](r.db, ReceiptOrder, filter.Scopes()...)
}

// receiptScope selects one receipt by id and optional owner
func (r *Repository) receiptScope(ctx context.Context, id uuid.UUID, ownerID *uint) *gorm.DB {
	q := r.db.WithContext(ctx).Where("id = ?", id.String()) // Ids are stored as text
	// Restrict to the owner
	if ownerID != nil {
		q = q.Where("owner_id = ?", *ownerID)
	}
	return q
}
