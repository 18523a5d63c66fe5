package handler

import (
	"time"

	"github.com/dukapos/duka-api/internal/application/service"
	"github.com/dukapos/duka-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalyticsHandler handles monthly report requests
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// ReportRequest selects the month to report on. A missing month or year
// defaults to the current one.
type ReportRequest struct {
	Month      int        `json:"month"`
	Year       int        `json:"year"`
	CategoryID *uuid.UUID `json:"category_id"`
}

// reportWindow binds the request body and fills in defaults.
func reportWindow(c *gin.Context) (*ReportRequest, bool) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return nil, false
	}

	now := time.Now()
	if req.Year == 0 {
		req.Year = now.Year()
	}
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	return &req, true
}

// CategorySales returns the monthly per-category sales report
func (h *AnalyticsHandler) CategorySales(c *gin.Context) {
	ownerID := GetOwnerID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Owner not authenticated")
		return
	}

	req, ok := reportWindow(c)
	if !ok {
		return
	}

	rows, err := h.analyticsService.CategorySales(c.Request.Context(), *ownerID, req.Year, req.Month)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category sales retrieved successfully", rows)
}

// ProductPerformance returns the monthly per-product performance report
func (h *AnalyticsHandler) ProductPerformance(c *gin.Context) {
	ownerID := GetOwnerID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Owner not authenticated")
		return
	}

	req, ok := reportWindow(c)
	if !ok {
		return
	}

	rows, err := h.analyticsService.ProductPerformance(c.Request.Context(), *ownerID, req.Year, req.Month, req.CategoryID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product performance retrieved successfully", rows)
}

// Dashboard returns the current month summary
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	ownerID := GetOwnerID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Owner not authenticated")
		return
	}

	summary, err := h.analyticsService.Dashboard(c.Request.Context(), *ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard retrieved successfully", summary)
}
