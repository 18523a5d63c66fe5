package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetOwnerID extracts the authenticated owner ID from the Gin context
func GetOwnerID(c *gin.Context) *uuid.UUID {
	ownerIDVal, exists := c.Get("owner_id")
	if !exists {
		return nil
	}
	ownerID, ok := ownerIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &ownerID
}
