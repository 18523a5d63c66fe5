package service

import (
	"context"
	"time"

	"github.com/dukapos/duka-api/internal/domain/entity"
	domainRepo "github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/dukapos/duka-api/pkg/apperror"
	"github.com/google/uuid"
)

// PricePoint is the resolved selling and cost price of a product at a
// moment in time, in cents.
type PricePoint struct {
	SellingPrice int64
	CostPrice    int64
}

// PricingService resolves historical prices and records price changes.
//
// The price history holds one row per closed window, carrying the prices
// that were in effect during [effective_from, effective_to). The product
// row always carries the current prices, so any instant not covered by a
// closed window resolves to the product itself. Rows are appended on each
// price change and never mutated, which keeps past reports stable.
type PricingService struct {
	historyRepo domainRepo.PriceHistoryRepository
	productRepo domainRepo.ProductRepository
	txManager   domainRepo.TransactionManager
}

// NewPricingService creates a new pricing service
func NewPricingService(
	historyRepo domainRepo.PriceHistoryRepository,
	productRepo domainRepo.ProductRepository,
	txManager domainRepo.TransactionManager,
) *PricingService {
	return &PricingService{
		historyRepo: historyRepo,
		productRepo: productRepo,
		txManager:   txManager,
	}
}

// Resolve returns the prices in effect for the product at the given
// instant. A closed history window covering the instant wins; otherwise
// the product's current prices apply.
func (s *PricingService) Resolve(ctx context.Context, ownerID, productID uuid.UUID, at time.Time) (*PricePoint, error) {
	change, err := s.historyRepo.ActiveAt(ctx, productID, at)
	if err != nil {
		return nil, err
	}
	if change != nil {
		return &PricePoint{SellingPrice: change.SellingPrice, CostPrice: change.CostPrice}, nil
	}

	product, err := s.productRepo.GetByID(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return &PricePoint{SellingPrice: product.SellingPrice, CostPrice: product.CostPrice}, nil
}

// RecordChange closes the current price window and moves the product to
// the new prices. The appended history row holds the old prices; its
// window starts where the previous one ended, or at product creation for
// the first change.
func (s *PricingService) RecordChange(ctx context.Context, ownerID, productID uuid.UUID, sellingPrice, costPrice float64) (*entity.Product, error) {
	var product *entity.Product

	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		product, err = s.productRepo.GetByID(txCtx, ownerID, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}

		newSelling := toCents(sellingPrice)
		newCost := toCents(costPrice)
		if newSelling == product.SellingPrice && newCost == product.CostPrice {
			return nil
		}

		from := product.CreatedAt
		latest, err := s.historyRepo.Latest(txCtx, productID)
		if err != nil {
			return err
		}
		if latest != nil && latest.EffectiveTo != nil {
			from = *latest.EffectiveTo
		}

		now := time.Now()
		change := &entity.PriceChange{
			OwnerID:       ownerID,
			ProductID:     productID,
			SellingPrice:  product.SellingPrice,
			CostPrice:     product.CostPrice,
			EffectiveFrom: from,
			EffectiveTo:   &now,
		}
		if err := s.historyRepo.Append(txCtx, change); err != nil {
			return err
		}

		if err := s.productRepo.UpdatePrices(txCtx, ownerID, productID, newSelling, newCost); err != nil {
			return err
		}
		product.SellingPrice = newSelling
		product.CostPrice = newCost
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}
