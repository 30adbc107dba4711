package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"whimsicalfrog/internal/caching"
	"whimsicalfrog/internal/common"
	"whimsicalfrog/internal/handlers"
	"whimsicalfrog/internal/jobs"
	"whimsicalfrog/internal/jobs/background"
	appmiddleware "whimsicalfrog/internal/middleware"
	"whimsicalfrog/internal/repositories"
	"whimsicalfrog/internal/services"
	"whimsicalfrog/pkg/database"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file, using environment")
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(env("LOG_LEVEL", "info")); err == nil {
		logrus.SetLevel(level)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logrus.Fatal("DATABASE_URL is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}
	adminToken := os.Getenv("ADMIN_API_TOKEN")

	ctx := context.Background()
	pool, err := database.NewPool(ctx, dsn)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	redisDB, _ := strconv.Atoi(env("REDIS_DB", "0"))
	cache := caching.NewRedisCacheService(env("REDIS_ADDR", "localhost:6379"), os.Getenv("REDIS_PASSWORD"), redisDB)

	// Repositories
	itemRepo := repositories.NewItemRepo(pool)
	colorRepo := repositories.NewItemColorRepo(pool)
	sizeRepo := repositories.NewItemSizeRepo(pool)
	costRepo := repositories.NewCostFactorRepo(pool)
	priceRepo := repositories.NewPriceFactorRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	orderItemRepo := repositories.NewOrderItemRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	imageRepo := repositories.NewItemImageRepo(pool)
	discountRepo := repositories.NewDiscountCodeRepo(pool)
	auditRepo := repositories.NewAuditLogsRepo(pool)

	// Services
	stockService := services.NewStockService(pool, cache)
	pricingService := services.NewPricingService(itemRepo, costRepo, priceRepo)
	factorService := services.NewFactorService(costRepo, priceRepo, pricingService)
	itemService := services.NewItemService(itemRepo, orderItemRepo, cache)
	variantService := services.NewVariantService(colorRepo, sizeRepo, stockService)
	upsellService := services.NewUpsellService(orderItemRepo, stockService, cache)
	discountService := services.NewDiscountService(discountRepo)
	orderService := services.NewOrderService(orderRepo, orderItemRepo, itemRepo, stockService, discountService)
	authService := services.NewAuthService(userRepo, jwtSecret)
	accountService := services.NewAccountService(userRepo)
	auditService := services.NewAuditService(auditRepo)

	minioSSL := env("MINIO_USE_SSL", "false") == "true"
	imageService, err := services.NewImageService(
		env("MINIO_ENDPOINT", "localhost:9000"),
		os.Getenv("MINIO_ACCESS_KEY"),
		os.Getenv("MINIO_SECRET_KEY"),
		env("MINIO_BUCKET", "wf-item-images"),
		minioSSL,
		imageRepo, itemRepo,
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize object storage")
	}

	// Handlers
	healthHandlers := handlers.NewHealthHandlers(pool)
	authHandlers := handlers.NewAuthHandlers(authService)
	accountHandlers := handlers.NewAccountHandlers(accountService)
	inventoryHandlers := handlers.NewInventoryHandlers(itemService, stockService, auditService)
	variantHandlers := handlers.NewVariantHandlers(variantService)
	factorHandlers := handlers.NewFactorHandlers(factorService, pricingService)
	orderHandlers := handlers.NewOrderHandlers(orderService)
	upsellHandlers := handlers.NewUpsellHandlers(upsellService)
	imageHandlers := handlers.NewImageHandlers(imageService)
	discountHandlers := handlers.NewDiscountHandlers(discountService)
	auditHandlers := handlers.NewAuditHandlers(auditService)

	e := echo.New()
	e.HideBanner = true
	e.Validator = common.NewRequestValidator()
	e.Use(middleware.Recover())
	e.Use(appmiddleware.RequestLogger())

	e.GET("/health", healthHandlers.Health)

	// Public storefront surface
	api := e.Group("/api")
	api.POST("/auth/register", authHandlers.Register)
	api.POST("/auth/login", authHandlers.Login)
	api.GET("/items", inventoryHandlers.SearchItems)
	api.GET("/items/:sku", inventoryHandlers.GetItem)
	api.GET("/items/:sku/stock", inventoryHandlers.GetStockLevel)
	api.GET("/items/:sku/stock/breakdown", inventoryHandlers.GetStockBreakdown)
	api.GET("/items/:sku/colors", variantHandlers.ListColors)
	api.GET("/items/:sku/sizes", variantHandlers.ListSizes)
	api.GET("/items/:sku/images", imageHandlers.ListImages)
	api.GET("/images/:id/url", imageHandlers.GetImageURL)
	api.POST("/cart/upsells", upsellHandlers.ResolveCartUpsells)
	api.POST("/discounts/validate", discountHandlers.ValidateCode)

	// Authenticated customer surface
	auth := api.Group("", appmiddleware.JWTAuth(jwtSecret))
	auth.GET("/me", accountHandlers.GetProfile)
	auth.PUT("/me", accountHandlers.UpdateProfile)
	auth.PUT("/me/password", accountHandlers.ChangePassword)
	auth.POST("/orders", orderHandlers.PlaceOrder)
	auth.GET("/orders", orderHandlers.ListMyOrders)
	auth.GET("/orders/:id", orderHandlers.GetOrder)

	// Admin back office
	admin := api.Group("/admin", appmiddleware.AdminAuth(jwtSecret, adminToken))
	admin.POST("/items", inventoryHandlers.CreateItem)
	admin.PUT("/items/:sku", inventoryHandlers.UpdateItem)
	admin.PATCH("/items/:sku", inventoryHandlers.InlineEditItem)
	admin.POST("/items/:sku/archive", inventoryHandlers.ArchiveItem)
	admin.POST("/items/:sku/restore", inventoryHandlers.RestoreItem)
	admin.DELETE("/items/:sku", inventoryHandlers.DeleteItem)
	admin.GET("/items/next-sku", inventoryHandlers.NextSKU)

	admin.POST("/items/:sku/colors", variantHandlers.AddColor)
	admin.PUT("/colors/:id", variantHandlers.UpdateColor)
	admin.DELETE("/colors/:id", variantHandlers.DeleteColor)
	admin.POST("/items/:sku/sizes", variantHandlers.AddSize)
	admin.PUT("/sizes/:id", variantHandlers.UpdateSize)
	admin.DELETE("/sizes/:id", variantHandlers.DeleteSize)

	admin.GET("/items/:sku/cost-breakdown", factorHandlers.GetCostBreakdown)
	admin.POST("/items/:sku/cost-factors", factorHandlers.AddCostFactor)
	admin.PUT("/cost-factors/:id", factorHandlers.UpdateCostFactor)
	admin.DELETE("/cost-factors/:id", factorHandlers.DeleteCostFactor)
	admin.DELETE("/items/:sku/cost-factors", factorHandlers.ClearCostFactors)
	admin.POST("/items/:sku/sync-cost", factorHandlers.SyncCostPrice)

	admin.GET("/items/:sku/price-factors", factorHandlers.ListPriceFactors)
	admin.POST("/items/:sku/price-factors", factorHandlers.AddPriceFactor)
	admin.PUT("/price-factors/:id", factorHandlers.UpdatePriceFactor)
	admin.DELETE("/price-factors/:id", factorHandlers.DeletePriceFactor)
	admin.DELETE("/items/:sku/price-factors", factorHandlers.ClearPriceFactors)
	admin.POST("/items/:sku/sync-retail", factorHandlers.SyncRetailPrice)

	admin.POST("/items/:sku/images", imageHandlers.UploadImage)
	admin.POST("/items/:sku/images/:id/primary", imageHandlers.SetPrimaryImage)
	admin.DELETE("/images/:id", imageHandlers.DeleteImage)

	admin.PUT("/orders/:id/status", orderHandlers.UpdateOrderStatus)
	admin.POST("/upsells/regenerate", upsellHandlers.RegenerateRules)

	admin.POST("/discounts", discountHandlers.CreateCode)
	admin.PUT("/discounts/:id", discountHandlers.UpdateCode)
	admin.DELETE("/discounts/:id", discountHandlers.DeleteCode)
	admin.GET("/discounts", discountHandlers.ListCodes)

	admin.GET("/users", accountHandlers.ListUsers)
	admin.PUT("/users/:id", accountHandlers.AdminUpdateProfile)
	admin.PUT("/users/:id/password", accountHandlers.AdminResetPassword)
	admin.GET("/users/:id/orders", orderHandlers.ListUserOrders)
	admin.GET("/activity", auditHandlers.ListActivity)

	// Background jobs
	alertService := jobs.NewLowStockAlertService(itemRepo)
	reconciliationService := jobs.NewStockReconciliationService(colorRepo, sizeRepo, stockService)
	scheduler, err := background.NewJobScheduler(alertService, reconciliationService, upsellService, cache)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create job scheduler")
	}
	scheduler.Start()

	go func() {
		addr := ":" + env("PORT", "8080")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")
	if err := scheduler.Stop(); err != nil {
		logrus.WithError(err).Warn("scheduler shutdown failed")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Fatal("forced shutdown")
	}
}
