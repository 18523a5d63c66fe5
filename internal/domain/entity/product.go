package entity

import (
	"encoding/json"
	"time"

	"github.com/dukapos/duka-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a catalog item. CostPrice and SellingPrice are the
// *current* prices; prices in force at an earlier date are reconstructed
// from the price_changes log.
type Product struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"owner_id"`
	CategoryID   *uuid.UUID         `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Code         string             `gorm:"size:100;not null;uniqueIndex:idx_products_owner_code" json:"code"`
	Name         string             `gorm:"size:255;not null" json:"name"`
	CostPrice    int64              `gorm:"default:0" json:"-"` // Stored in cents
	SellingPrice int64              `gorm:"default:0" json:"-"` // Stored in cents
	StockLimit   int                `gorm:"default:0" json:"stock_limit"`
	Status       enum.ProductStatus `gorm:"size:20;default:'active'" json:"status"`
	VATCategory  enum.VATCategory   `gorm:"size:20;default:'vat_inclusive'" json:"vat_category"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DeletedAt    gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Owner    Owner     `gorm:"foreignKey:OwnerID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		CostPrice    float64 `json:"cost_price"`
		SellingPrice float64 `json:"selling_price"`
	}{
		Alias:        Alias(p),
		CostPrice:    float64(p.CostPrice) / 100,
		SellingPrice: float64(p.SellingPrice) / 100,
	})
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Owner    Owner     `gorm:"foreignKey:OwnerID" json:"-"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
