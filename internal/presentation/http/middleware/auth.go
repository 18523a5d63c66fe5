package middleware

import (
	"strings"

	"github.com/dukapos/duka-api/internal/presentation/http/dto/response"
	"github.com/dukapos/duka-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and puts the owner identity in
// the request context. Every store-scoped route sits behind it.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("owner_id", claims.OwnerID)
		c.Set("owner_email", claims.Email)
		c.Set("store_name", claims.StoreName)

		c.Next()
	}
}
