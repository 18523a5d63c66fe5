package main

import (
	"context"
	"log"

	"github.com/dukapos/duka-api/internal/application/service"
	"github.com/dukapos/duka-api/internal/config"
	"github.com/dukapos/duka-api/internal/infrastructure/cache"
	"github.com/dukapos/duka-api/internal/infrastructure/database"
	"github.com/dukapos/duka-api/internal/infrastructure/repository"
	"github.com/dukapos/duka-api/internal/presentation/http/handler"
	"github.com/dukapos/duka-api/internal/presentation/http/routes"
	"github.com/dukapos/duka-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	txManager := repository.NewTransactionManager(db)
	ownerRepo := repository.NewOwnerRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	priceHistoryRepo := repository.NewPriceHistoryRepository(db)

	// Initialize report cache, falling back to no caching when Redis is
	// not configured
	var reportCache cache.ReportCache = cache.NoopReportCache{}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisReportCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Printf("Warning: Redis unreachable, reports will not be cached: %v", err)
		} else {
			reportCache = redisCache
			defer redisCache.Close()
		}
	}

	// Initialize services
	authService := service.NewAuthService(ownerRepo, jwtManager)
	pricingService := service.NewPricingService(priceHistoryRepo, productRepo, txManager)
	productService := service.NewProductService(productRepo, categoryRepo, pricingService)
	inventoryService := service.NewInventoryService(inventoryRepo, productRepo, txManager)
	checkoutService := service.NewCheckoutService(receiptRepo, productRepo, inventoryService, txManager)
	analyticsService := service.NewAnalyticsService(
		receiptRepo,
		productRepo,
		categoryRepo,
		inventoryRepo,
		pricingService,
		reportCache,
		cfg.Redis.ReportTTL,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Checkout:  handler.NewCheckoutHandler(checkoutService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
