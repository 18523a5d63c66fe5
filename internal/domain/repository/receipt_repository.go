package repository

import (
	"context"
	"time"

	"github.com/dukapos/duka-api/internal/domain/entity"
	"github.com/dukapos/duka-api/internal/domain/enum"
	"github.com/google/uuid"
)

// SalesLineRow is one receipt line joined with its receipt header and
// product, flattened for the aggregation pipeline. Every column is selected
// explicitly so the query is valid under strict SQL grouping.
type SalesLineRow struct {
	ReceiptID            uuid.UUID
	IssuedAt             time.Time
	ReceiptDiscountType  enum.DiscountType
	ReceiptDiscountValue float64
	LineID               uuid.UUID
	ProductID            uuid.UUID
	CategoryID           *uuid.UUID
	Quantity             int
	LineDiscountType     enum.DiscountType
	LineDiscountValue    float64
}

// ReceiptRepository defines receipt persistence. Receipts and lines are
// append-only; there is no update or void path.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	CreateLines(ctx context.Context, lines []entity.ReceiptLine) error
	GetWithLines(ctx context.Context, ownerID, id uuid.UUID) (*entity.Receipt, error)
	// SalesLines returns the owner's receipt lines issued inside [from, to)
	// as flat join rows ordered by receipt then line ID.
	SalesLines(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]SalesLineRow, error)
}
