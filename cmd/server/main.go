package main

import (
	"log"

	"go.uber.org/zap"

	"mirror_shop/internal/analytics"
	"mirror_shop/internal/config"
	"mirror_shop/internal/database"
	"mirror_shop/internal/handlers"
	"mirror_shop/internal/logger"
	"mirror_shop/internal/repository"
	"mirror_shop/internal/sampledata"
	"mirror_shop/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.Initialize(cfg)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	// Initialize repositories
	var (
		productRepo  repository.ProductRepository
		orderRepo    repository.OrderRepository
		customerRepo repository.CustomerRepository
	)
	switch cfg.StoreDriver {
	case "postgres":
		db, err := database.Initialize(cfg.DatabaseURL)
		if err != nil {
			zlog.Fatal("Failed to connect to database", zap.Error(err))
		}
		productRepo = repository.NewProductRepository(db)
		orderRepo = repository.NewOrderRepository(db)
		customerRepo = repository.NewCustomerRepository(db)
	case "memory", "":
		productRepo = repository.NewMemoryProductRepository(sampledata.Products())
		orderRepo = repository.NewMemoryOrderRepository(sampledata.Orders())
		customerRepo = repository.NewMemoryCustomerRepository(sampledata.Customers())
	default:
		zlog.Fatal("Unknown store driver", zap.String("driver", cfg.StoreDriver))
	}

	// Initialize services
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo)
	customerService := services.NewCustomerService(customerRepo)

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(
		productService,
		orderService,
		customerService,
		cfg.LowStockThreshold,
		analytics.KPIOptions{CalendarMonth: cfg.CalendarMonthRevenue},
	)

	// Setup routes
	router := handlers.NewRouter(apiHandler, zlog)

	// Start server
	zlog.Info("Server starting", zap.String("port", cfg.ServerPort), zap.String("store", cfg.StoreDriver))
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}
