package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smokestack/backend/internal/application/checkout"
	"github.com/smokestack/backend/internal/application/export"
	"github.com/smokestack/backend/internal/infrastructure/config"
	"github.com/smokestack/backend/internal/infrastructure/logger"
	"github.com/smokestack/backend/internal/infrastructure/menustore"
	"github.com/smokestack/backend/internal/infrastructure/persistence"
	"github.com/smokestack/backend/internal/infrastructure/posclient"
	"github.com/smokestack/backend/internal/interfaces/http/handler"
	"github.com/smokestack/backend/internal/interfaces/http/middleware"
	"github.com/smokestack/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	env := cfg.ResolveEnvironment()
	log.Info("Starting Smokestack Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("pos_environment", env.String()),
		zap.String("port", cfg.App.Port),
	)

	// Initialize mapping store
	db, err := persistence.NewSQLiteDatabase(cfg.Store.Path)
	if err != nil {
		log.Fatal("Failed to open mapping database", zap.Error(err))
	}
	defer closeDatabase(db, log)
	mappingStore := persistence.NewGormMappingStore(db, cfg.Store.Path)

	// Initialize catalog reader
	snapshotReader := menustore.NewFileSnapshotReader(cfg.Menu.SnapshotPath)

	// Initialize POS client for the resolved environment
	posClient, err := posclient.NewHTTPClient(&posclient.Config{
		Environment:    env,
		BaseURL:        cfg.POSBaseURL(env),
		AccessToken:    cfg.POSAccessToken(env),
		TimeoutSeconds: cfg.POS.TimeoutSeconds,
	})
	if err != nil {
		log.Fatal("Failed to initialize POS client", zap.Error(err))
	}

	// Initialize application services
	exportService := export.NewService(snapshotReader, mappingStore, posClient, log)
	checkoutService := checkout.NewService(
		mappingStore, posClient, decimal.NewFromFloat(cfg.Order.TaxRate), log,
	)

	// Initialize HTTP handlers
	menuHandler := handler.NewMenuHandler(snapshotReader, log)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, log)
	exportHandler := handler.NewExportHandler(exportService, cfg.Admin.ExportToken, log)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Env)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging, CORS
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(menuHandler)
	r.Register(checkoutHandler)
	r.Register(exportHandler)
	r.Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"time":   time.Now().Format(time.RFC3339),
				"store":  "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"store":  "ok",
		})
	}
}

// closeDatabase closes the underlying sql.DB
func closeDatabase(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("Error closing mapping database", zap.Error(err))
	}
}
