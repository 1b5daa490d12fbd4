package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billapp "github.com/billtrack/backend/internal/application/billing"
	orgapp "github.com/billtrack/backend/internal/application/organization"
	"github.com/billtrack/backend/internal/domain/billing"
	"github.com/billtrack/backend/internal/domain/organization"
	"github.com/billtrack/backend/internal/infrastructure/cache"
	"github.com/billtrack/backend/internal/infrastructure/config"
	"github.com/billtrack/backend/internal/infrastructure/logger"
	"github.com/billtrack/backend/internal/infrastructure/persistence"
	"github.com/billtrack/backend/internal/infrastructure/scheduler"
	"github.com/billtrack/backend/internal/interfaces/http/handler"
	"github.com/billtrack/backend/internal/interfaces/http/middleware"
	"github.com/billtrack/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting BillTrack Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// Initialize repositories
	var orgRepo organization.Repository = persistence.NewGormOrganizationRepository(db.DB)
	var billRepo billing.BillRepository = persistence.NewGormBillRepository(db.DB)

	// Wrap repositories with cache-aside decorators. With caching
	// disabled the factory hands back a no-op backend, so the wiring
	// is identical either way.
	cacheFactory := cache.NewFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log))
	cacheBackend, err := cacheFactory.CreateBackend()
	if err != nil {
		log.Fatal("Failed to initialize cache backend", zap.Error(err))
	}
	defer func() {
		if closer, ok := cacheBackend.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Error("Error closing cache backend", zap.Error(err))
			}
		}
	}()

	registry := cache.NewKeyRegistry()
	cacheOpts := cacheFactory.Options()
	orgRepo = cache.NewCachedOrganizationRepository(orgRepo, cacheBackend, registry, cacheOpts, cfg.Cache.Namespace, log)
	billRepo = cache.NewCachedBillRepository(billRepo, cacheBackend, registry, cacheOpts, cfg.Cache.Namespace, log)
	log.Info("Cache layer initialized", zap.Bool("enabled", cfg.Cache.Enabled))

	// Initialize application services
	orgService := orgapp.NewService(orgRepo)
	billService := billapp.NewService(billRepo, orgRepo)

	// Initialize and start the bill reconciliation worker
	reconciler := scheduler.NewBillReconciler(
		scheduler.ReconcilerConfig{
			Enabled:     cfg.Reconciler.Enabled,
			TickTimeout: cfg.Reconciler.TickTimeout,
		},
		orgRepo,
		billRepo,
		log,
	)
	if err := reconciler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start bill reconciler", zap.Error(err))
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer stopCancel()
		if err := reconciler.Stop(stopCtx); err != nil {
			log.Error("Error stopping bill reconciler", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	orgHandler := handler.NewOrganizationHandler(orgService)
	billHandler := handler.NewBillHandler(billService)
	reconcilerHandler := handler.NewReconcilerHandler(reconciler)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	orgRoutes := router.NewDomainGroup("organizations", "/organizations")
	orgRoutes.POST("", orgHandler.Create)
	orgRoutes.GET("", orgHandler.List)
	orgRoutes.GET("/:id", orgHandler.GetByID)
	orgRoutes.PUT("/:id", orgHandler.Update)
	orgRoutes.DELETE("/:id", orgHandler.Delete)
	orgRoutes.GET("/:id/bills", billHandler.ListByOrganization)

	billRoutes := router.NewDomainGroup("bills", "/bills")
	billRoutes.POST("", billHandler.Create)
	billRoutes.GET("/:id", billHandler.GetByID)
	billRoutes.PUT("/:id", billHandler.Update)
	billRoutes.POST("/:id/pay", billHandler.Pay)
	billRoutes.POST("/:id/cancel", billHandler.Cancel)
	billRoutes.DELETE("/:id", billHandler.Delete)

	reconcilerRoutes := router.NewDomainGroup("reconciler", "/reconciler")
	reconcilerRoutes.GET("/status", reconcilerHandler.GetStatus)
	reconcilerRoutes.POST("/trigger", reconcilerHandler.Trigger)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(orgRoutes).
		Register(billRoutes).
		Register(reconcilerRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
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
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
