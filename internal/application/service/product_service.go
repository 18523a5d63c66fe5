package service

import (
	"context"

	"github.com/dukapos/duka-api/internal/domain/entity"
	"github.com/dukapos/duka-api/internal/domain/enum"
	domainRepo "github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/dukapos/duka-api/pkg/apperror"
	"github.com/dukapos/duka-api/pkg/pagination"
	"github.com/google/uuid"
)

// CreateProductInput holds the fields for a new catalog entry. Prices are
// in currency units.
type CreateProductInput struct {
	Code         string     `json:"prod_code" binding:"required"`
	Name         string     `json:"product" binding:"required"`
	CategoryID   *uuid.UUID `json:"category_id"`
	CostPrice    float64    `json:"cost_price"`
	SellingPrice float64    `json:"selling_price"`
	StockLimit   int        `json:"stock_limit"`
	VATCategory  string     `json:"vat_category"`
}

// UpdatePricesInput is a price change request.
type UpdatePricesInput struct {
	SellingPrice float64 `json:"selling_price" binding:"required"`
	CostPrice    float64 `json:"cost_price" binding:"required"`
}

// ProductService manages the catalog.
type ProductService struct {
	productRepo  domainRepo.ProductRepository
	categoryRepo domainRepo.CategoryRepository
	pricing      *PricingService
}

// NewProductService creates a new product service
func NewProductService(
	productRepo domainRepo.ProductRepository,
	categoryRepo domainRepo.CategoryRepository,
	pricing *PricingService,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		pricing:      pricing,
	}
}

// Create adds a product to the owner's catalog.
func (s *ProductService) Create(ctx context.Context, ownerID uuid.UUID, input *CreateProductInput) (*entity.Product, error) {
	if input.SellingPrice < 0 || input.CostPrice < 0 {
		return nil, apperror.NewBadRequestError("Prices cannot be negative")
	}

	existing, err := s.productRepo.GetByCode(ctx, ownerID, input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewAppError(apperror.ErrConflict.Code, "Product code already in use")
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, ownerID, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	vat := enum.VATCategory(input.VATCategory)
	if input.VATCategory == "" {
		vat = enum.VATExempt
	}
	if !vat.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid VAT category")
	}

	product := &entity.Product{
		OwnerID:      ownerID,
		CategoryID:   input.CategoryID,
		Code:         input.Code,
		Name:         input.Name,
		CostPrice:    toCents(input.CostPrice),
		SellingPrice: toCents(input.SellingPrice),
		StockLimit:   input.StockLimit,
		Status:       enum.ProductActive,
		VATCategory:  vat,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// List returns a filtered catalog page.
func (s *ProductService) List(ctx context.Context, ownerID uuid.UUID, params *domainRepo.ProductFilterParams) ([]entity.Product, *pagination.Pagination, error) {
	products, total, err := s.productRepo.List(ctx, ownerID, params)
	if err != nil {
		return nil, nil, err
	}
	pg := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return products, pg, nil
}

// GetByCode looks a product up by its till code.
func (s *ProductService) GetByCode(ctx context.Context, ownerID uuid.UUID, code string) (*entity.Product, error) {
	product, err := s.productRepo.GetByCode(ctx, ownerID, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdatePrices changes a product's prices, recording the old ones in the
// price history so past receipts keep reporting at the price they sold at.
func (s *ProductService) UpdatePrices(ctx context.Context, ownerID, productID uuid.UUID, input *UpdatePricesInput) (*entity.Product, error) {
	if input.SellingPrice < 0 || input.CostPrice < 0 {
		return nil, apperror.NewBadRequestError("Prices cannot be negative")
	}
	return s.pricing.RecordChange(ctx, ownerID, productID, input.SellingPrice, input.CostPrice)
}

// CreateCategory adds a category.
func (s *ProductService) CreateCategory(ctx context.Context, ownerID uuid.UUID, name string) (*entity.Category, error) {
	if name == "" {
		return nil, apperror.NewBadRequestError("Category name is required")
	}
	category := &entity.Category{OwnerID: ownerID, Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns the owner's categories.
func (s *ProductService) ListCategories(ctx context.Context, ownerID uuid.UUID) ([]entity.Category, error) {
	return s.categoryRepo.List(ctx, ownerID)
}
