package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dukapos/duka-api/internal/domain/entity"
	"github.com/dukapos/duka-api/internal/domain/enum"
	domainRepo "github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) domainRepo.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) CreateBatch(ctx context.Context, batch *entity.InventoryBatch) error {
	return conn(ctx, r.db).Create(batch).Error
}

func (r *inventoryRepository) GetBatch(ctx context.Context, ownerID, id uuid.UUID) (*entity.InventoryBatch, error) {
	var batch entity.InventoryBatch
	err := conn(ctx, r.db).First(&batch, "owner_id = ? AND id = ?", ownerID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &batch, err
}

func (r *inventoryRepository) ListDeductible(ctx context.Context, productID uuid.UUID, asOf time.Time, forUpdate bool) ([]entity.InventoryBatch, error) {
	var batches []entity.InventoryBatch

	query := conn(ctx, r.db).
		Where("product_id = ? AND quantity > 0", productID).
		Where("expires_at IS NULL OR expires_at > ?", asOf).
		Order("expires_at ASC NULLS LAST, received_at ASC")

	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := query.Find(&batches).Error
	return batches, err
}

func (r *inventoryRepository) DecrementBatch(ctx context.Context, batchID uuid.UUID, qty int) (bool, error) {
	// Guarded so a concurrent deduction can never push the quantity negative.
	result := conn(ctx, r.db).Model(&entity.InventoryBatch{}).
		Where("id = ? AND quantity >= ?", batchID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *inventoryRepository) AvailableStock(ctx context.Context, productID uuid.UUID, asOf time.Time) (int, error) {
	var total int64
	err := conn(ctx, r.db).Model(&entity.InventoryBatch{}).
		Where("product_id = ? AND quantity > 0", productID).
		Where("expires_at IS NULL OR expires_at > ?", asOf).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *inventoryRepository) StockLevels(ctx context.Context, ownerID uuid.UUID, asOf time.Time) ([]domainRepo.StockLevel, error) {
	var levels []domainRepo.StockLevel
	err := conn(ctx, r.db).Model(&entity.InventoryBatch{}).
		Where("owner_id = ? AND quantity > 0", ownerID).
		Where("expires_at IS NULL OR expires_at > ?", asOf).
		Select("product_id, SUM(quantity) AS quantity, MIN(expires_at) AS earliest_expiry").
		Group("product_id").
		Scan(&levels).Error
	return levels, err
}

func (r *inventoryRepository) CreateDamage(ctx context.Context, damage *entity.DamagedItem) error {
	return conn(ctx, r.db).Create(damage).Error
}

func (r *inventoryRepository) DamagedQuantities(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (map[uuid.UUID]int, error) {
	type damagedRow struct {
		ProductID uuid.UUID
		Quantity  int
	}

	var rows []damagedRow
	err := conn(ctx, r.db).Model(&entity.DamagedItem{}).
		Joins("JOIN inventory_batches ON inventory_batches.id = damaged_items.batch_id").
		Where("damaged_items.owner_id = ?", ownerID).
		Where("damaged_items.date >= ? AND damaged_items.date < ?", from, to).
		Where("damaged_items.disposition IS NULL OR damaged_items.disposition = ?", enum.DispositionDamaged).
		Select("inventory_batches.product_id AS product_id, SUM(damaged_items.quantity) AS quantity").
		Group("inventory_batches.product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	quantities := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		quantities[row.ProductID] = row.Quantity
	}
	return quantities, nil
}
