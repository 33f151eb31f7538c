package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/docgen-api/internal/config"
	domainRepo "github.com/sangkips/docgen-api/internal/domain/repository"
	"github.com/sangkips/docgen-api/internal/presentation/http/handler"
	"github.com/sangkips/docgen-api/internal/presentation/http/middleware"
	"github.com/sangkips/docgen-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Quotation *handler.QuotationHandler
	Invoice   *handler.InvoiceHandler
	Delivery  *handler.DeliveryHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// RateLimiter is optional; nil disables per-user limiting
	RateLimiter *middleware.UserRateLimiter
	Logger      *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.POST("/auth/login", h.Auth.Login)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps, logger)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps, logger *zap.Logger) {
	protected.GET("/auth/me", h.Auth.Me)

	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		Logger: logger,
	})

	registerQuotationRoutes(protected, h, idempotency)
	registerInvoiceRoutes(protected, h, idempotency)
	registerDeliveryRoutes(protected, h, idempotency)

	// Users (Admin)
	registerUserRoutes(protected, h)
}

func registerQuotationRoutes(protected *gin.RouterGroup, h *Handlers, idempotency gin.HandlerFunc) {
	quotations := protected.Group("/quotations")
	{
		quotations.POST("", idempotency, h.Quotation.Create)
		quotations.GET("", h.Quotation.List)
		quotations.GET("/:id", h.Quotation.Get)
		quotations.PUT("/:id", h.Quotation.Update)
		quotations.DELETE("/:id", h.Quotation.Delete)
		quotations.GET("/:id/pdf", h.Quotation.PDF)
		quotations.GET("/:id/pdf/download", h.Quotation.DownloadPDF)
		quotations.GET("/:id/xlsx", h.Quotation.Workbook)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, idempotency gin.HandlerFunc) {
	invoices := protected.Group("/invoices")
	{
		invoices.POST("", idempotency, h.Invoice.Create)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.GET("/:id/pdf", h.Invoice.PDF)
		invoices.GET("/:id/pdf/download", h.Invoice.DownloadPDF)
		invoices.GET("/:id/xlsx", h.Invoice.Workbook)
	}
}

func registerDeliveryRoutes(protected *gin.RouterGroup, h *Handlers, idempotency gin.HandlerFunc) {
	deliveries := protected.Group("/deliveries")
	{
		deliveries.POST("", idempotency, h.Delivery.Create)
		deliveries.GET("", h.Delivery.List)
		deliveries.GET("/:id", h.Delivery.Get)
		deliveries.PUT("/:id", h.Delivery.Update)
		deliveries.DELETE("/:id", h.Delivery.Delete)
		deliveries.GET("/:id/pdf", h.Delivery.PDF)
		deliveries.GET("/:id/pdf/download", h.Delivery.DownloadPDF)
		deliveries.GET("/:id/xlsx", h.Delivery.Workbook)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireAdmin())
	{
		users.POST("", h.User.Create)
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
		users.PUT("/:id/signature", h.User.SetSignature)
		users.GET("/:id/signature", h.User.GetSignature)
	}
}
