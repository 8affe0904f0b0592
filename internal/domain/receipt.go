package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// PaymentType is how a receipt was paid.
type PaymentType string

const (
	PaymentCash     PaymentType = "cash"
	PaymentCashless PaymentType = "cashless"
)

// Valid reports whether t is one of the known payment types.
func (t PaymentType) Valid() bool {
	return t == PaymentCash || t == PaymentCashless
}

// LineItem is one product row of a receipt. Stored inside the receipt, not normalized.
type LineItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Total    float64 `json:"total"`
}

// Payment is stored as payment_type/payment_amount columns of the receipts table.
type Payment struct {
	Type   PaymentType `gorm:"size:16;not null;index" json:"type"`
	Amount float64     `gorm:"not null" json:"amount"`
}

// Receipt Model
type Receipt struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Products  []LineItem `gorm:"serializer:json;type:json;not null" json:"products"`
	Payment   Payment    `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Total     float64    `gorm:"not null;index" json:"total"`
	Rest      float64    `gorm:"not null" json:"rest"`
	CreatedAt time.Time  `gorm:"not null;index" json:"created_at"`
	OwnerID   uint       `gorm:"not null;index" json:"owner_id"` // no FK constraint: receipts outlive their owner
}

// Round2 rounds a currency amount to 2 decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NewReceipt computes item totals, the receipt total and the change due, and stamps
// a fresh id and creation time.
func NewReceipt(ownerID uint, items []LineItem, payment Payment, now time.Time) Receipt {
	products := make([]LineItem, len(items))
	var sum float64
	for i, item := range items {
		item.Total = Round2(item.Price * item.Quantity)
		sum += item.Total
		products[i] = item
	}
	total := Round2(sum)
	return Receipt{
		ID:        uuid.New(),
		Products:  products,
		Payment:   payment,
		Total:     total,
		Rest:      Round2(payment.Amount - total),
		CreatedAt: now.UTC(),
		OwnerID:   ownerID,
	}
}
