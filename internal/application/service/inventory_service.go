package service

import (
	"context"
	"net/http"
	"time"

	"github.com/dukapos/duka-api/internal/domain/entity"
	"github.com/dukapos/duka-api/internal/domain/enum"
	domainRepo "github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/dukapos/duka-api/pkg/apperror"
	"github.com/dukapos/duka-api/pkg/pagination"
	"github.com/google/uuid"
)

// BatchTake records how many units a deduction took from one batch.
type BatchTake struct {
	BatchID  uuid.UUID
	Quantity int
}

// StockSnapshotRow is one product in the inventory overview.
type StockSnapshotRow struct {
	ProductID      uuid.UUID  `json:"product_id"`
	Code           string     `json:"prod_code"`
	Name           string     `json:"product"`
	Category       string     `json:"category,omitempty"`
	Status         string     `json:"status"`
	Available      int        `json:"available"`
	StockLimit     int        `json:"stock_limit"`
	EarliestExpiry *time.Time `json:"earliest_expiry,omitempty"`
	Reorder        bool       `json:"reorder"`
}

// ReceiveBatchInput is a stock delivery for one product.
type ReceiveBatchInput struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	LotNumber string     `json:"lot_number"`
	Quantity  int        `json:"quantity" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// RecordDamageInput is a write-off against one batch.
type RecordDamageInput struct {
	BatchID     uuid.UUID  `json:"batch_id" binding:"required"`
	Quantity    int        `json:"quantity" binding:"required"`
	Date        *time.Time `json:"date"`
	Reason      string     `json:"reason"`
	Disposition *string    `json:"disposition"`
}

// InventoryService manages batch stock levels and damage write-offs.
type InventoryService struct {
	invRepo     domainRepo.InventoryRepository
	productRepo domainRepo.ProductRepository
	txManager   domainRepo.TransactionManager
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	invRepo domainRepo.InventoryRepository,
	productRepo domainRepo.ProductRepository,
	txManager domainRepo.TransactionManager,
) *InventoryService {
	return &InventoryService{
		invRepo:     invRepo,
		productRepo: productRepo,
		txManager:   txManager,
	}
}

// Deduct takes qty units of the product from its batches, consuming the
// batch closest to expiration first, with never-expiring batches last.
// It must run inside a transaction; the deductible batches are locked, so
// a concurrent checkout on the same product waits rather than overselling.
// When available stock is short the whole deduction is refused and nothing
// is mutated.
func (s *InventoryService) Deduct(ctx context.Context, product *entity.Product, qty int, asOf time.Time) ([]BatchTake, error) {
	batches, err := s.invRepo.ListDeductible(ctx, product.ID, asOf, true)
	if err != nil {
		return nil, err
	}

	available := 0
	for _, b := range batches {
		available += b.Quantity
	}
	if available < qty {
		return nil, apperror.NewInsufficientStockError(product.Name, qty, available)
	}

	takes := make([]BatchTake, 0, len(batches))
	remaining := qty
	for _, b := range batches {
		if remaining == 0 {
			break
		}
		take := b.Quantity
		if take > remaining {
			take = remaining
		}
		ok, err := s.invRepo.DecrementBatch(ctx, b.ID, take)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Rows are locked, so the guard failing means the read and
			// the write disagree. Abort the transaction.
			return nil, apperror.NewAppError(http.StatusInternalServerError, "Stock level changed during checkout")
		}
		takes = append(takes, BatchTake{BatchID: b.ID, Quantity: take})
		remaining -= take
	}
	return takes, nil
}

// AvailableStock returns the product's sellable quantity right now.
func (s *InventoryService) AvailableStock(ctx context.Context, ownerID, productID uuid.UUID) (int, error) {
	product, err := s.productRepo.GetByID(ctx, ownerID, productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, apperror.NewNotFoundError("Product")
	}
	return s.invRepo.AvailableStock(ctx, productID, time.Now())
}

// ReceiveBatch records a stock delivery as a new batch.
func (s *InventoryService) ReceiveBatch(ctx context.Context, ownerID uuid.UUID, input *ReceiveBatchInput) (*entity.InventoryBatch, error) {
	if input.Quantity <= 0 {
		return nil, apperror.NewBadRequestError("Batch quantity must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, ownerID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	batch := &entity.InventoryBatch{
		OwnerID:    ownerID,
		ProductID:  input.ProductID,
		LotNumber:  input.LotNumber,
		Quantity:   input.Quantity,
		ExpiresAt:  input.ExpiresAt,
		ReceivedAt: time.Now(),
	}
	if err := s.invRepo.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// Snapshot returns the paginated inventory overview. A product is flagged
// for reorder when its available quantity has fallen to its stock limit.
func (s *InventoryService) Snapshot(ctx context.Context, ownerID uuid.UUID, params *domainRepo.ProductFilterParams) ([]StockSnapshotRow, *pagination.Pagination, error) {
	products, total, err := s.productRepo.List(ctx, ownerID, params)
	if err != nil {
		return nil, nil, err
	}

	levels, err := s.invRepo.StockLevels(ctx, ownerID, time.Now())
	if err != nil {
		return nil, nil, err
	}
	byProduct := make(map[uuid.UUID]domainRepo.StockLevel, len(levels))
	for _, lvl := range levels {
		byProduct[lvl.ProductID] = lvl
	}

	rows := make([]StockSnapshotRow, 0, len(products))
	for _, p := range products {
		lvl := byProduct[p.ID]
		row := StockSnapshotRow{
			ProductID:      p.ID,
			Code:           p.Code,
			Name:           p.Name,
			Status:         string(p.Status),
			Available:      lvl.Quantity,
			StockLimit:     p.StockLimit,
			EarliestExpiry: lvl.EarliestExpiry,
			Reorder:        lvl.Quantity <= p.StockLimit,
		}
		if p.Category != nil {
			row.Category = p.Category.Name
		}
		rows = append(rows, row)
	}

	pg := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return rows, pg, nil
}

// RecordDamage writes off damaged units from a batch. The batch quantity
// and the damage record move together in one transaction.
func (s *InventoryService) RecordDamage(ctx context.Context, ownerID uuid.UUID, input *RecordDamageInput) (*entity.DamagedItem, error) {
	if input.Quantity <= 0 {
		return nil, apperror.NewBadRequestError("Damage quantity must be positive")
	}

	var disposition *enum.Disposition
	if input.Disposition != nil {
		d := enum.Disposition(*input.Disposition)
		if !d.IsValid() {
			return nil, apperror.NewBadRequestError("Invalid disposition")
		}
		disposition = &d
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	var damage *entity.DamagedItem
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		batch, err := s.invRepo.GetBatch(txCtx, ownerID, input.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return apperror.NewNotFoundError("Batch")
		}

		ok, err := s.invRepo.DecrementBatch(txCtx, batch.ID, input.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewBadRequestError("Write-off exceeds remaining batch quantity")
		}

		damage = &entity.DamagedItem{
			OwnerID:     ownerID,
			BatchID:     batch.ID,
			Quantity:    input.Quantity,
			Date:        date,
			Reason:      input.Reason,
			Disposition: disposition,
		}
		return s.invRepo.CreateDamage(txCtx, damage)
	})
	if err != nil {
		return nil, err
	}
	return damage, nil
}
