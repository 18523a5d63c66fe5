package entity

import (
	"encoding/json"
	"time"

	"github.com/dukapos/duka-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Receipt is the header of a completed checkout. Receipts and their lines
// are written once at checkout time and never edited afterwards.
type Receipt struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"owner_id"`
	IssuedAt      time.Time         `gorm:"not null;index" json:"issued_at"`
	AmountPaid    int64             `gorm:"not null" json:"-"` // Stored in cents
	DiscountType  enum.DiscountType `gorm:"size:20;default:'none'" json:"discount_type"`
	DiscountValue float64           `gorm:"type:numeric(12,2);default:0" json:"discount_value"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Relationships
	Owner Owner         `gorm:"foreignKey:OwnerID" json:"-"`
	Lines []ReceiptLine `gorm:"foreignKey:ReceiptID" json:"lines,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r Receipt) MarshalJSON() ([]byte, error) {
	type Alias Receipt
	return json.Marshal(&struct {
		Alias
		AmountPaid float64 `json:"amount_paid"`
	}{
		Alias:      Alias(r),
		AmountPaid: float64(r.AmountPaid) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// ReceiptLine is one batch-level deduction within a checkout. A cart item
// split across batches produces one line per batch, each carrying the cart
// item's discount so reporting can recompute the net amount.
type ReceiptLine struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"receipt_id"`
	BatchID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"batch_id"`
	ProductID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity      int               `gorm:"not null" json:"quantity"`
	DiscountType  enum.DiscountType `gorm:"size:20;default:'none'" json:"discount_type"`
	DiscountValue float64           `gorm:"type:numeric(12,2);default:0" json:"discount_value"`
	CreatedAt     time.Time         `json:"created_at"`

	// Relationships
	Receipt Receipt        `gorm:"foreignKey:ReceiptID" json:"-"`
	Batch   InventoryBatch `gorm:"foreignKey:BatchID" json:"-"`
	Product Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt line
func (l *ReceiptLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptLine model
func (ReceiptLine) TableName() string {
	return "receipt_lines"
}
