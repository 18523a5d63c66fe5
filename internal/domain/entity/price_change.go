package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceChange is one closed window of a product's price history. The row
// holds the prices that applied during [EffectiveFrom, EffectiveTo); rows
// are appended when a price changes and never mutated afterwards. At most
// one window contains any given instant per product. Instants past the
// newest window resolve to the product's current prices.
type PriceChange struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	ProductID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	SellingPrice  int64      `gorm:"not null" json:"-"` // Stored in cents
	CostPrice     int64      `gorm:"not null" json:"-"` // Stored in cents
	EffectiveFrom time.Time  `gorm:"not null;index" json:"effective_from"`
	EffectiveTo   *time.Time `gorm:"index" json:"effective_to,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new price change
func (p *PriceChange) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PriceChange model
func (PriceChange) TableName() string {
	return "price_changes"
}

// Contains reports whether the window covers the given instant.
// EffectiveTo is exclusive; a nil EffectiveTo means the window is open.
func (p *PriceChange) Contains(at time.Time) bool {
	if at.Before(p.EffectiveFrom) {
		return false
	}
	return p.EffectiveTo == nil || at.Before(*p.EffectiveTo)
}
