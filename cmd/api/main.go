package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/weicheng-hsu/truckbooks-api/internal/application/service"
	"github.com/weicheng-hsu/truckbooks-api/internal/config"
	"github.com/weicheng-hsu/truckbooks-api/internal/infrastructure/database"
	"github.com/weicheng-hsu/truckbooks-api/internal/infrastructure/repository"
	"github.com/weicheng-hsu/truckbooks-api/internal/presentation/http/handler"
	"github.com/weicheng-hsu/truckbooks-api/internal/presentation/http/routes"
	"github.com/weicheng-hsu/truckbooks-api/pkg/utils"
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

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	driverRepo := repository.NewDriverRepository(db)
	waybillRepo := repository.NewWaybillRepository(db)
	feeSplitRepo := repository.NewFeeSplitRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	collectionRepo := repository.NewCollectionRequestRepository(db)
	settlementRepo := repository.NewDriverSettlementRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, jwtManager)
	waybillService := service.NewWaybillService(waybillRepo, companyRepo, driverRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, waybillRepo, companyRepo)
	collectionService := service.NewCollectionService(collectionRepo, waybillRepo, companyRepo)
	settlementService := service.NewSettlementService(settlementRepo, driverRepo, waybillRepo, feeSplitRepo)
	companyService := service.NewCompanyService(companyRepo)
	driverService := service.NewDriverService(driverRepo)
	dashboardService := service.NewDashboardService(analyticsRepo)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Waybill:    handler.NewWaybillHandler(waybillService),
		Invoice:    handler.NewInvoiceHandler(invoiceService),
		Collection: handler.NewCollectionHandler(collectionService),
		Settlement: handler.NewSettlementHandler(settlementService),
		Company:    handler.NewCompanyHandler(companyService),
		Driver:     handler.NewDriverHandler(driverService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		User:       handler.NewUserHandler(userService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
