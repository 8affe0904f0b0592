// Package repository provides gorm-backed persistence for users and receipts.
package repository

import (
	"context" // Request context
	"errors"  // Sentinel errors
	"time"    // Creation time bounds

	"receipt_system/internal/domain"     // Importing domain models
	"receipt_system/internal/pagination" // Paged queries

	"github.com/google/uuid" // Receipt ids
	"gorm.io/gorm"           // GORM ORM library
)

var (
	// ErrNotFound is returned when no row matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository stores user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByID(ctx context.Context, id uint) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUserPassword(ctx context.Context, id uint, hashedPassword string) error
	DeleteUser(ctx context.Context, id uint) error
}

// ReceiptRepository stores receipts. A nil ownerID means any owner.
type ReceiptRepository interface {
	CreateReceipt(ctx context.Context, r *domain.Receipt) error
	GetReceipt(ctx context.Context, id uuid.UUID, ownerID *uint) (*domain.Receipt, error)
	DeleteReceipt(ctx context.Context, id uuid.UUID, ownerID *uint) error
	QueryReceipts(filter ReceiptFilter) pagination.Query[domain.Receipt]
}

// ReceiptFilter narrows a receipt listing. Zero fields do not filter.
type ReceiptFilter struct {
	OwnerID       *uint              // Owner, nil for any
	PaymentType   domain.PaymentType // Exact payment type
	MinTotal      *float64           // Total lower bound
	CreatedFrom   *time.Time         // inclusive
	CreatedBefore *time.Time         // exclusive
}

// Matches reports whether r passes every set condition.
func (f ReceiptFilter) Matches(r domain.Receipt) bool {
	switch {
	case f.OwnerID != nil && r.OwnerID != *f.OwnerID:
		return false
	case f.PaymentType != "" && r.Payment.Type != f.PaymentType:
		return false
	case f.MinTotal != nil && r.Total < *f.MinTotal:
		return false
	case f.CreatedFrom != nil && r.CreatedAt.Before(*f.CreatedFrom):
		return false
	case f.CreatedBefore != nil && !r.CreatedAt.Before(*f.CreatedBefore):
		return false
	}
	return true
}

// Scopes returns the filter as gorm where clauses.
func (f ReceiptFilter) Scopes() []func(*gorm.DB) *gorm.DB {
	var scopes []func(*gorm.DB) *gorm.DB // One scope per set field
	where := func(query string, arg any) {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where(query, arg) })
	}
	// Owner
	if f.OwnerID != nil {
		where("owner_id = ?", *f.OwnerID)
	}
	// Payment type
	if f.PaymentType != "" {
		where("payment_type = ?", f.PaymentType)
	}
	// Minimum total
	if f.MinTotal != nil {
		where("total >= ?", *f.MinTotal)
	}
	// Creation window
	if f.CreatedFrom != nil {
		where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedBefore != nil {
		where("created_at < ?", *f.CreatedBefore)
	}
	return scopes
}

// ReceiptOrder is the listing order, newest first with the id as tie breaker.
const ReceiptOrder = "created_at desc, id desc"

// Repository implements UserRepository and ReceiptRepository on gorm.
type Repository struct {
	db *gorm.DB // Database handle
}

// NewRepository wraps an open gorm connection. The connection should be opened
// with TranslateError so unique violations surface as ErrDuplicate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var (
	_ UserRepository    = (*Repository)(nil)
	_ ReceiptRepository = (*Repository)(nil)
)

// translate maps gorm errors to the repository sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound // No matching row
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate // Unique index violation
	}
	return err // Anything else is passed through
}
