package routes

import (
	"github.com/dukapos/duka-api/internal/config"
	"github.com/dukapos/duka-api/internal/presentation/http/handler"
	"github.com/dukapos/duka-api/internal/presentation/http/middleware"
	"github.com/dukapos/duka-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Inventory *handler.InventoryHandler
	Checkout  *handler.CheckoutHandler
	Analytics *handler.AnalyticsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewOwnerRateLimiter(
			float64(deps.Cfg.RateLimit.Requests)/float64(deps.Cfg.RateLimit.Duration),
			deps.Cfg.RateLimit.Requests,
		)
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Dashboard
	protected.GET("/dashboard", h.Analytics.Dashboard)

	// Catalog
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:code", h.Product.Get)
		products.PUT("/:id/prices", h.Product.UpdatePrices)
	}

	categories := protected.Group("/categories")
	{
		categories.GET("", h.Product.ListCategories)
		categories.POST("", h.Product.CreateCategory)
	}

	// Inventory
	inventory := protected.Group("/inventory")
	{
		inventory.GET("", h.Inventory.Snapshot)
		inventory.GET("/products/:id/stock", h.Inventory.Stock)
		inventory.POST("/batches", h.Inventory.ReceiveBatch)
		inventory.POST("/damages", h.Inventory.RecordDamage)
	}

	// Checkout
	protected.POST("/checkout", h.Checkout.Checkout)
	protected.GET("/receipts/:id", h.Checkout.GetReceipt)

	// Reports
	reports := protected.Group("/reports")
	{
		reports.POST("/category-sales", h.Analytics.CategorySales)
		reports.POST("/product-performance", h.Analytics.ProductPerformance)
	}
}
