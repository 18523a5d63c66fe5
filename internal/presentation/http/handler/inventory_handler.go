package handler

import (
	"github.com/dukapos/duka-api/internal/application/service"
	"github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/dukapos/duka-api/internal/presentation/http/dto/response"
	"github.com/dukapos/duka-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler handles stock level and write-off requests
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Snapshot returns the paginated stock overview
func (h *InventoryHandler) Snapshot(c *gin.Context) {
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
	if v := c.Query("category_id"); v != "" {
		categoryID, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid category ID")
			return
		}
		params.CategoryID = &categoryID
	}

	rows, pg, err := h.inventoryService.Snapshot(c.Request.Context(), *ownerID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Inventory retrieved successfully", pagination.NewPaginatedResult(rows, pg))
}

// Stock returns the available quantity for one product
func (h *InventoryHandler) Stock(c *gin.Context) {
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

	available, err := h.inventoryService.AvailableStock(c.Request.Context(), *ownerID, productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock retrieved successfully", gin.H{
		"product_id": productID,
		"available":  available,
	})
}

// ReceiveBatch records a stock delivery
func (h *InventoryHandler) ReceiveBatch(c *gin.Context) {
	ownerID := GetOwnerID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Owner not authenticated")
		return
	}

	var req service.ReceiveBatchInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	batch, err := h.inventoryService.ReceiveBatch(c.Request.Context(), *ownerID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Batch received successfully", batch)
}

// RecordDamage writes off damaged stock
func (h *InventoryHandler) RecordDamage(c *gin.Context) {
	ownerID := GetOwnerID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Owner not authenticated")
		return
	}

	var req service.RecordDamageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	damage, err := h.inventoryService.RecordDamage(c.Request.Context(), *ownerID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Damage recorded successfully", damage)
}
