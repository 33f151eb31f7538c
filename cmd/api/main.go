package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/docgen-api/internal/application/service"
	"github.com/sangkips/docgen-api/internal/bootstrap"
	"github.com/sangkips/docgen-api/internal/config"
	domainRepo "github.com/sangkips/docgen-api/internal/domain/repository"
	"github.com/sangkips/docgen-api/internal/infrastructure/database"
	"github.com/sangkips/docgen-api/internal/infrastructure/repository"
	"github.com/sangkips/docgen-api/internal/presentation/http/handler"
	"github.com/sangkips/docgen-api/internal/presentation/http/middleware"
	"github.com/sangkips/docgen-api/internal/presentation/http/routes"
	"github.com/sangkips/docgen-api/pkg/logger"
	"github.com/sangkips/docgen-api/pkg/utils"
)

const idempotencyCleanupInterval = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		OutputPath: cfg.Log.OutputPath,
		Format:     cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, appLogger); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Seed default admin
	if err := database.SeedAdmin(db, cfg.Admin, appLogger); err != nil {
		appLogger.Warn("Failed to seed admin user", zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	deliveryRepo := repository.NewDeliveryNoteRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Document generation: templates, headless Chrome, spreadsheets
	stack, err := bootstrap.NewStack(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize document generator", zap.Error(err))
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo, stack.Assets, appLogger)
	quotationService := service.NewQuotationService(quotationRepo, stack.Generator, appLogger)
	invoiceService := service.NewInvoiceService(invoiceRepo, stack.Generator, appLogger)
	deliveryService := service.NewDeliveryService(deliveryRepo, userRepo, stack.Generator, appLogger)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Quotation: handler.NewQuotationHandler(quotationService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Delivery:  handler.NewDeliveryHandler(deliveryService),
	}

	rateLimiter := middleware.NewUserRateLimiter(
		middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          appLogger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go purgeIdempotencyKeys(ctx, idempotencyRepo, appLogger)

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting server",
			zap.String("name", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	// in-flight renders are bounded by the settle and export timeouts
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Renderer.ExportTimeout+cfg.Renderer.SettleTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	appLogger.Info("Server exited")
}

// purgeIdempotencyKeys removes expired idempotency records until ctx is done
func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log *zap.Logger) {
	ticker := time.NewTicker(idempotencyCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Warn("Failed to purge idempotency keys", zap.Error(err))
				continue
			}
			if removed > 0 {
				log.Info("Purged idempotency keys", zap.Int64("removed", removed))
			}
		}
	}
}
