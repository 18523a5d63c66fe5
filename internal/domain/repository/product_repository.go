package repository

import (
	"context"

	"github.com/dukapos/duka-api/internal/domain/entity"
	"github.com/dukapos/duka-api/internal/domain/enum"
	"github.com/dukapos/duka-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProductFilterParams holds filtering parameters for product listing
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.ProductStatus
	CategoryID *uuid.UUID
}

// ProductRepository defines catalog persistence. Every read is scoped by
// owner ID, passed explicitly rather than carried in ambient context.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Product, error)
	GetByCode(ctx context.Context, ownerID uuid.UUID, code string) (*entity.Product, error)
	// GetByCodes retrieves multiple products by code in a single query.
	GetByCodes(ctx context.Context, ownerID uuid.UUID, codes []string) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdatePrices(ctx context.Context, ownerID, id uuid.UUID, sellingPrice, costPrice int64) error
	List(ctx context.Context, ownerID uuid.UUID, params *ProductFilterParams) ([]entity.Product, int64, error)
	// ListAll returns every non-deleted product for the owner, optionally
	// restricted to one category, ordered by ID. Used by analytics so that
	// products with zero sales still appear in reports.
	ListAll(ctx context.Context, ownerID uuid.UUID, categoryID *uuid.UUID) ([]entity.Product, error)
}

// CategoryRepository defines category persistence
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Category, error)
	// List returns the owner's categories ordered by ID.
	List(ctx context.Context, ownerID uuid.UUID) ([]entity.Category, error)
}
