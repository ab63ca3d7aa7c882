package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"juicepos/config"
	"juicepos/internal/billing"
	"juicepos/internal/database"
	"juicepos/internal/handlers"
	"juicepos/internal/middleware"
	"juicepos/internal/notify"
	"juicepos/internal/repository"
	"juicepos/internal/storage"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	rdb := config.NewRedisClient(cfg.Redis)
	feed := notify.NewRedisFeed(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runCacheInvalidator(ctx, feed, rdb)

	menuRepo := repository.NewMenuRepository(db, rdb, feed)
	categoryRepo := repository.NewCategoryRepository(db, rdb, feed)
	billRepo := repository.NewBillRepository(db, feed)

	billingService := billing.NewService(billRepo, cfg.POS.ParcelCharge, cfg.POS.BusinessDayCutoverHour)

	menuHandler := handlers.NewMenuHandler(menuRepo)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	billingHandler := handlers.NewBillingHandler(billingService, menuRepo)
	historyHandler := handlers.NewHistoryHandler(billRepo, cfg.POS.BusinessDayCutoverHour)
	dashboardHandler := handlers.NewDashboardHandler(billRepo, menuRepo, cfg.POS.BusinessDayCutoverHour)
	paymentsHandler := handlers.NewPaymentsHandler(cfg.UPI)

	var uploadHandler *handlers.UploadHandler
	if cfg.Storage.AccessKeyID != "" {
		uploader, err := storage.NewUploader(ctx, cfg.Storage)
		if err != nil {
			log.Printf("Warning: image storage unavailable: %v", err)
		} else {
			uploadHandler = handlers.NewUploadHandler(uploader)
		}
	}

	r := gin.Default()

	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.RateLimit("300-M"))

	api := r.Group("/api/v1")
	{
		menu := api.Group("/menu-items")
		{
			menu.GET("", menuHandler.List)
			menu.POST("", menuHandler.Create)
			menu.PUT("/:id", menuHandler.Update)
			menu.DELETE("/:id", menuHandler.Delete)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:id", categoryHandler.Rename)
			categories.DELETE("/:id", categoryHandler.Delete)
		}

		bills := api.Group("/bills")
		{
			bills.POST("", billingHandler.Create)
			bills.GET("", historyHandler.List)
			bills.GET("/:id/items", historyHandler.Items)
		}

		api.GET("/dashboard", dashboardHandler.Get)
		api.GET("/payments/upi-qr", paymentsHandler.UPIQR)

		uploads := api.Group("/uploads")
		{
			if uploadHandler != nil {
				uploads.POST("/menu-image", uploadHandler.MenuImage)
			} else {
				uploads.POST("/menu-image", serviceUnavailableHandler("Image storage"))
			}
		}
	}

	r.GET("/health", healthCheckHandler(db, rdb))

	addr := ":" + cfg.Server.Port
	log.Printf("Starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// runCacheInvalidator reacts to change notifications from other
// writers by dropping the cached reference data. The payload is never
// inspected; any event on a table invalidates its cache.
func runCacheInvalidator(ctx context.Context, feed notify.Feed, rdb *redis.Client) {
	events, cancel := feed.Subscribe(ctx, notify.TableMenuItems, notify.TableCategories)
	defer cancel()

	for {
		select {
		case table, ok := <-events:
			if !ok {
				return
			}
			repository.DropCaches(ctx, rdb, table)
		case <-ctx.Done():
			return
		}
	}
}

func serviceUnavailableHandler(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"message": serviceName + " is currently unavailable",
			"error":   "SERVICE_UNAVAILABLE",
		})
	}
}

func healthCheckHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		httpStatus := http.StatusOK
		services := gin.H{"database": "healthy", "redis": "healthy"}

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			services["database"] = "unavailable"
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			services["redis"] = "unavailable"
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"services":  services,
			"timestamp": time.Now(),
		})
	}
}
