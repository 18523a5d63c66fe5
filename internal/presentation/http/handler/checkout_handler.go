package handler

import (
	"github.com/dukapos/duka-api/internal/application/service"
	"github.com/dukapos/duka-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CheckoutHandler handles checkout and receipt requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Checkout handles a till sale
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	ownerID := GetOwnerID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Owner not authenticated")
		return
	}

	var req service.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.OwnerID = *ownerID

	result, err := h.checkoutService.Checkout(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed successfully", result)
}

// GetReceipt returns one receipt with its lines
func (h *CheckoutHandler) GetReceipt(c *gin.Context) {
	ownerID := GetOwnerID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Owner not authenticated")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.checkoutService.GetReceipt(c.Request.Context(), *ownerID, receiptID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}
