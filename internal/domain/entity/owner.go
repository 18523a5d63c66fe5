package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Owner is the tenant boundary: every product, batch, receipt and report
// belongs to exactly one owner, and every query is scoped by owner ID.
type Owner struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	StoreName string         `gorm:"size:255;not null" json:"store_name"`
	Email     string         `gorm:"size:255;unique;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new owner
func (o *Owner) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Owner model
func (Owner) TableName() string {
	return "owners"
}
