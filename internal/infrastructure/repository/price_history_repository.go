package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dukapos/duka-api/internal/domain/entity"
	domainRepo "github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type priceHistoryRepository struct {
	db *gorm.DB
}

// NewPriceHistoryRepository creates a new price history repository
func NewPriceHistoryRepository(db *gorm.DB) domainRepo.PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

func (r *priceHistoryRepository) Append(ctx context.Context, change *entity.PriceChange) error {
	return conn(ctx, r.db).Create(change).Error
}

func (r *priceHistoryRepository) Latest(ctx context.Context, productID uuid.UUID) (*entity.PriceChange, error) {
	var change entity.PriceChange
	err := conn(ctx, r.db).
		Where("product_id = ?", productID).
		Order("effective_from DESC").
		First(&change).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &change, err
}

func (r *priceHistoryRepository) ActiveAt(ctx context.Context, productID uuid.UUID, at time.Time) (*entity.PriceChange, error) {
	var change entity.PriceChange
	// Ties on overlapping windows resolve to the latest effective_from.
	err := conn(ctx, r.db).
		Where("product_id = ?", productID).
		Where("effective_from <= ?", at).
		Where("effective_to IS NULL OR effective_to > ?", at).
		Order("effective_from DESC").
		First(&change).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &change, err
}
