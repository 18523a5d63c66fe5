package entity

import (
	"time"

	"github.com/dukapos/duka-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryBatch is a discrete quantity of a product's stock received
// together, tracked separately so the oldest-expiring stock is sold first.
// Batches are never deleted; a batch at quantity 0 stays as audit trail.
type InventoryBatch struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	ProductID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	LotNumber  string         `gorm:"size:100" json:"lot_number"`
	Quantity   int            `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	ExpiresAt  *time.Time     `gorm:"index" json:"expires_at,omitempty"`
	ReceivedAt time.Time      `gorm:"not null" json:"received_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new batch
func (b *InventoryBatch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InventoryBatch model
func (InventoryBatch) TableName() string {
	return "inventory_batches"
}

// Expired reports whether the batch has expired as of the given instant.
// A batch without an expiration date never expires.
func (b *InventoryBatch) Expired(asOf time.Time) bool {
	return b.ExpiresAt != nil && !b.ExpiresAt.After(asOf)
}

// DamagedItem records a write-off against an inventory batch. Only records
// with disposition Damaged (or no disposition) count as loss in analytics.
type DamagedItem struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"owner_id"`
	BatchID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"batch_id"`
	Quantity    int               `gorm:"not null" json:"quantity"`
	Date        time.Time         `gorm:"not null;index" json:"date"`
	Reason      string            `gorm:"size:255" json:"reason"`
	Disposition *enum.Disposition `gorm:"size:50" json:"disposition,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`

	// Relationships
	Batch InventoryBatch `gorm:"foreignKey:BatchID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new damaged-item record
func (d *DamagedItem) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DamagedItem model
func (DamagedItem) TableName() string {
	return "damaged_items"
}
