package repository

import (
	"context"
	"time"

	"github.com/dukapos/duka-api/internal/domain/entity"
	"github.com/google/uuid"
)

// StockLevel is the current sellable quantity for one product, summed
// across its non-expired batches.
type StockLevel struct {
	ProductID      uuid.UUID
	Quantity       int
	EarliestExpiry *time.Time
}

// InventoryRepository defines batch-level stock persistence. Batches are
// mutated only by checkout deduction and damage write-offs, never deleted.
type InventoryRepository interface {
	CreateBatch(ctx context.Context, batch *entity.InventoryBatch) error
	GetBatch(ctx context.Context, ownerID, id uuid.UUID) (*entity.InventoryBatch, error)
	// ListDeductible returns the product's batches with quantity > 0 that
	// have not expired as of asOf, ordered by expiration ascending with
	// never-expiring batches last. When forUpdate is true the rows are
	// locked for the duration of the surrounding transaction.
	ListDeductible(ctx context.Context, productID uuid.UUID, asOf time.Time, forUpdate bool) ([]entity.InventoryBatch, error)
	// DecrementBatch subtracts qty from a batch, guarded so the stored
	// quantity can never go negative. Returns false when the guard fails.
	DecrementBatch(ctx context.Context, batchID uuid.UUID, qty int) (bool, error)
	AvailableStock(ctx context.Context, productID uuid.UUID, asOf time.Time) (int, error)
	// StockLevels returns current non-expired quantities grouped by
	// product for the whole owner scope.
	StockLevels(ctx context.Context, ownerID uuid.UUID, asOf time.Time) ([]StockLevel, error)
	CreateDamage(ctx context.Context, damage *entity.DamagedItem) error
	// DamagedQuantities sums loss-counting damage (disposition Damaged or
	// null) per product inside [from, to).
	DamagedQuantities(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (map[uuid.UUID]int, error)
}
