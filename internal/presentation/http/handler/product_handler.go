package handler

import (
	"github.com/dukapos/duka-api/internal/application/service"
	"github.com/dukapos/duka-api/internal/domain/enum"
	"github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/dukapos/duka-api/internal/presentation/http/dto/response"
	"github.com/dukapos/duka-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles catalog requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	ownerID := GetOwnerID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Owner not authenticated")
		return
	}

	paginationParams := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(paginationParams); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	paginationParams.Validate()

	params := &repository.ProductFilterParams{
		Pagination: paginationParams,
		Search:     c.Query("search"),
	}
	if v := c.Query("status"); v != "" {
		status := enum.ProductStatus(v)
		if !status.IsValid() {
			response.BadRequest(c, "Invalid product status")
			return
		}
		params.Status = &status
	}
	if v := c.Query("category_id"); v != "" {
		categoryID, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid category ID")
			return
		}
		params.CategoryID = &categoryID
	}

	products, pg, err := h.productService.List(c.Request.Context(), *ownerID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", pagination.NewPaginatedResult(products, pg))
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	ownerID := GetOwnerID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Owner not authenticated")
		return
	}

	var req service.CreateProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), *ownerID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product by till code
func (h *ProductHandler) Get(c *gin.Context) {
	ownerID := GetOwnerID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Owner not authenticated")
		return
	}

	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, "Product code is required")
		return
	}

	product, err := h.productService.GetByCode(c.Request.Context(), *ownerID, code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// UpdatePrices handles a price change
func (h *ProductHandler) UpdatePrices(c *gin.Context) {
	ownerID := GetOwnerID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Owner not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req service.UpdatePricesInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.UpdatePrices(c.Request.Context(), *ownerID, productID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Prices updated successfully", product)
}

// ListCategories handles listing categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	ownerID := GetOwnerID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Owner not authenticated")
		return
	}

	categories, err := h.productService.ListCategories(c.Request.Context(), *ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}

// CreateCategory handles creating a category
func (h *ProductHandler) CreateCategory(c *gin.Context) {
	ownerID := GetOwnerID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Owner not authenticated")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.productService.CreateCategory(c.Request.Context(), *ownerID, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Category created successfully", category)
}
