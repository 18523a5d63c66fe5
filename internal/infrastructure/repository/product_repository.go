package repository

import (
	"context"
	"errors"

	"github.com/dukapos/duka-api/internal/domain/entity"
	domainRepo "github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).
		Preload("Category").
		First(&product, "owner_id = ? AND id = ?", ownerID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByCode(ctx context.Context, ownerID uuid.UUID, code string) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).
		Preload("Category").
		First(&product, "owner_id = ? AND code = ?", ownerID, code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByCodes(ctx context.Context, ownerID uuid.UUID, codes []string) ([]entity.Product, error) {
	if len(codes) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := conn(ctx, r.db).
		Where("owner_id = ? AND code IN ?", ownerID, codes).
		Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Save(product).Error
}

func (r *productRepository) UpdatePrices(ctx context.Context, ownerID, id uuid.UUID, sellingPrice, costPrice int64) error {
	return conn(ctx, r.db).Model(&entity.Product{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(map[string]interface{}{
			"selling_price": sellingPrice,
			"cost_price":    costPrice,
		}).Error
}

func (r *productRepository) List(ctx context.Context, ownerID uuid.UUID, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := conn(ctx, r.db).Model(&entity.Product{}).Where("owner_id = ?", ownerID)

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Category").
		Order("name ASC").
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) ListAll(ctx context.Context, ownerID uuid.UUID, categoryID *uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	query := conn(ctx, r.db).Where("owner_id = ?", ownerID)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	err := query.Preload("Category").Order("id ASC").Find(&products).Error
	return products, err
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return conn(ctx, r.db).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	err := conn(ctx, r.db).First(&category, "owner_id = ? AND id = ?", ownerID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) List(ctx context.Context, ownerID uuid.UUID) ([]entity.Category, error) {
	var categories []entity.Category
	err := conn(ctx, r.db).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&categories).Error
	return categories, err
}
