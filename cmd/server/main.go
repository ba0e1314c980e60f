package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	inventoryapp "github.com/consite/backend/internal/application/inventory"
	"github.com/consite/backend/internal/infrastructure/cache"
	"github.com/consite/backend/internal/infrastructure/config"
	"github.com/consite/backend/internal/infrastructure/logger"
	"github.com/consite/backend/internal/infrastructure/persistence"
	"github.com/consite/backend/internal/infrastructure/telemetry"
	"github.com/consite/backend/internal/interfaces/http/handler"
	"github.com/consite/backend/internal/interfaces/http/middleware"
	"github.com/consite/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting ConSite Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	db := openDatabase(cfg, log)
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	engine := buildEngine(cfg, log, db)
	registerRoutes(engine, cfg, log, db)

	runServer(engine, cfg, log)
}

func openDatabase(cfg *config.Config, log *zap.Logger) *persistence.Database {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	return db
}

// buildEngine assembles the gin engine with the middleware chain:
// request ID, tracing, span error marking, panic recovery, request
// logging, security headers, CORS, and the body size limit.
func buildEngine(cfg *config.Config, log *zap.Logger, db *persistence.Database) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health and ping sit outside API versioning.
	engine.GET("/health", healthHandler(db))
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	return engine
}

func registerRoutes(engine *gin.Engine, cfg *config.Config, log *zap.Logger, db *persistence.Database) {
	// Availability snapshots come from redis when it is reachable; the
	// service degrades to an in-process cache otherwise
	var availabilityCache inventoryapp.AvailabilityCache
	if redisCache, err := cache.NewRedisAvailabilityCache(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory availability cache", zap.Error(err))
		availabilityCache = cache.NewInMemoryAvailabilityCache(cfg.Redis.CacheTTL)
	} else {
		availabilityCache = redisCache
		log.Info("Redis availability cache connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// All services share one transaction scope over the same gorm
	// connection.
	scope := persistence.NewGormTransactionScope(db.DB, log)
	masterDataService := inventoryapp.NewMasterDataService(scope, log)
	purchaseService := inventoryapp.NewPurchaseService(scope, log)
	allocationService := inventoryapp.NewAllocationService(scope, log)
	requestService := inventoryapp.NewRequestService(scope, allocationService, log)
	availabilityService := inventoryapp.NewAvailabilityService(scope, availabilityCache, log)

	masterDataHandler := handler.NewMasterDataHandler(masterDataService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService, availabilityService)
	allocationHandler := handler.NewAllocationHandler(allocationService, availabilityService)
	requestHandler := handler.NewRequestHandler(requestService, availabilityService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	systemHandler := handler.NewSystemHandler()

	// Inventory domain: master data, purchases, availability, ledger
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.POST("/items", masterDataHandler.CreateItem)
	inventoryRoutes.GET("/items", masterDataHandler.ListItems)
	inventoryRoutes.GET("/items/:id", masterDataHandler.GetItem)
	inventoryRoutes.GET("/items/:id/availability", availabilityHandler.Get)
	inventoryRoutes.GET("/items/:id/transactions", allocationHandler.ListItemTransactions)
	inventoryRoutes.POST("/godowns", masterDataHandler.CreateGodown)
	inventoryRoutes.GET("/godowns", masterDataHandler.ListGodowns)
	inventoryRoutes.GET("/godowns/:id/stocks", masterDataHandler.ListGodownStock)
	inventoryRoutes.POST("/purchases", purchaseHandler.Record)

	// Allocation domain: direct allocations and the request workflow
	allocationRoutes := router.NewDomainGroup("allocations", "/allocations")
	allocationRoutes.POST("", allocationHandler.Allocate)
	allocationRoutes.GET("/projects/:project_id", allocationHandler.ListByProject)
	allocationRoutes.POST("/requests", requestHandler.Create)
	allocationRoutes.GET("/requests", requestHandler.List)
	allocationRoutes.GET("/requests/:id", requestHandler.GetByID)
	allocationRoutes.POST("/requests/:id/approve", requestHandler.Approve)
	allocationRoutes.POST("/requests/:id/reject", requestHandler.Reject)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(inventoryRoutes).
		Register(allocationRoutes).
		Register(systemRoutes).
		Setup()
}

func runServer(engine *gin.Engine, cfg *config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
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
