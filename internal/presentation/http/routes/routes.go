package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weicheng-hsu/truckbooks-api/internal/config"
	domainRepo "github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"github.com/weicheng-hsu/truckbooks-api/internal/presentation/http/handler"
	"github.com/weicheng-hsu/truckbooks-api/internal/presentation/http/middleware"
	"github.com/weicheng-hsu/truckbooks-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth       *handler.AuthHandler
	Waybill    *handler.WaybillHandler
	Invoice    *handler.InvoiceHandler
	Collection *handler.CollectionHandler
	Settlement *handler.SettlementHandler
	Company    *handler.CompanyHandler
	Driver     *handler.DriverHandler
	Dashboard  *handler.DashboardHandler
	User       *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
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
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboard.Use(middleware.RequirePermission("view-dashboard"))
	{
		dashboard.GET("", h.Dashboard.GetStats)
	}

	// Waybills
	registerWaybillRoutes(protected, h)

	// Invoices
	registerInvoiceRoutes(protected, h, deps)

	// Collection requests
	registerCollectionRoutes(protected, h, deps)

	// Settlements
	registerSettlementRoutes(protected, h)

	// Companies
	registerCompanyRoutes(protected, h)

	// Drivers
	registerDriverRoutes(protected, h)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Roles (Admin)
	registerRoleRoutes(protected, h)

	// Permissions (Admin)
	registerPermissionRoutes(protected, h)
}

func registerWaybillRoutes(protected *gin.RouterGroup, h *Handlers) {
	waybills := protected.Group("/waybills")
	waybills.Use(middleware.RequirePermission("manage-waybills"))
	{
		waybills.GET("", h.Waybill.List)
		waybills.POST("", h.Waybill.Create)
		waybills.GET("/:id", h.Waybill.Get)
		waybills.PUT("/:id", h.Waybill.Update)
		waybills.DELETE("/:id", h.Waybill.Delete)
		waybills.POST("/:id/no-invoice", h.Waybill.MarkNoInvoiceNeeded)
		waybills.POST("/:id/need-tax", h.Waybill.MarkNeedTax)
		waybills.POST("/:id/toggle-payment", h.Waybill.ToggleCashPayment)
		waybills.POST("/:id/restore", h.Waybill.Restore)

		// Fee splits hang off the waybill they divide
		waybills.GET("/:id/splits", h.Settlement.ListSplits)
		waybills.POST("/:id/splits", h.Settlement.ApplySplit)
		waybills.DELETE("/:id/splits/:splitId", h.Settlement.RemoveSplit)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	invoices := protected.Group("/invoices")
	invoices.Use(middleware.RequirePermission("manage-invoices"))
	{
		invoices.GET("", h.Invoice.List)
		// Invoice creation uses idempotency middleware to prevent duplicates
		invoices.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Invoice.Create)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("/:id/void", h.Invoice.Void)
		invoices.POST("/:id/restore", h.Invoice.Restore)
		invoices.POST("/:id/pay", h.Invoice.MarkPaid)
		invoices.DELETE("/:id", h.Invoice.Delete)
	}
}

func registerCollectionRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	collections := protected.Group("/collections")
	collections.Use(middleware.RequirePermission("manage-collections"))
	{
		collections.GET("", h.Collection.List)
		collections.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Collection.Create)
		collections.GET("/:id", h.Collection.Get)
		collections.POST("/:id/pay", h.Collection.MarkPaid)
		collections.POST("/:id/cancel", h.Collection.Cancel)
		collections.DELETE("/:id", h.Collection.Delete)
	}
}

func registerSettlementRoutes(protected *gin.RouterGroup, h *Handlers) {
	settlements := protected.Group("/settlements")
	settlements.Use(middleware.RequirePermission("manage-settlements"))
	{
		settlements.GET("", h.Settlement.List)
		settlements.POST("", h.Settlement.Create)
		settlements.POST("/initialize", h.Settlement.Initialize)
		settlements.PUT("", h.Settlement.Save)
		settlements.GET("/income/:driverId", h.Settlement.MonthlyIncome)
		settlements.GET("/:id", h.Settlement.Get)
		settlements.DELETE("/:id", h.Settlement.Delete)
	}
}

func registerCompanyRoutes(protected *gin.RouterGroup, h *Handlers) {
	companies := protected.Group("/companies")
	companies.Use(middleware.RequirePermission("manage-companies"))
	{
		companies.GET("", h.Company.List)
		companies.POST("", h.Company.Create)
		companies.GET("/:id", h.Company.Get)
		companies.PUT("/:id", h.Company.Update)
		companies.DELETE("/:id", h.Company.Delete)
	}
}

func registerDriverRoutes(protected *gin.RouterGroup, h *Handlers) {
	drivers := protected.Group("/drivers")
	drivers.Use(middleware.RequirePermission("manage-drivers"))
	{
		drivers.GET("", h.Driver.List)
		drivers.POST("", h.Driver.Create)
		drivers.GET("/:id", h.Driver.Get)
		drivers.PUT("/:id", h.Driver.Update)
		drivers.DELETE("/:id", h.Driver.Delete)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerRoleRoutes(protected *gin.RouterGroup, h *Handlers) {
	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerPermissionRoutes(protected *gin.RouterGroup, h *Handlers) {
	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequirePermission("manage-users"))
	{
		permissions.GET("", h.User.ListPermissions)
	}
}
