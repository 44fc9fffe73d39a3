package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/propdesk/backend/internal/application/audit"
	cascadeapp "github.com/propdesk/backend/internal/application/cascade"
	leasingapp "github.com/propdesk/backend/internal/application/leasing"
	paymentapp "github.com/propdesk/backend/internal/application/payment"
	propertyapp "github.com/propdesk/backend/internal/application/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/cache"
	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/propdesk/backend/internal/infrastructure/event"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/infrastructure/notify"
	"github.com/propdesk/backend/internal/infrastructure/persistence"
	"github.com/propdesk/backend/internal/infrastructure/scheduler"
	"github.com/propdesk/backend/internal/infrastructure/telemetry"
	"github.com/propdesk/backend/internal/interfaces/http/handler"
	"github.com/propdesk/backend/internal/interfaces/http/middleware"
	"github.com/propdesk/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			PropDesk Backend API
//	@version		1.0
//	@description	Property management back office API

//	@host		localhost:8080
//	@BasePath	/api/v1

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

	log.Info("Starting PropDesk Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing (if enabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database query tracing (otelgorm)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			SlowQueryThresh: 200 * time.Millisecond,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	reminderRepo := persistence.NewGormReminderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	requestRepo := persistence.NewGormMaintenanceRequestRepository(db.DB)
	approvalRepo := persistence.NewGormApprovalRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	paymentScope := persistence.NewGormPaymentTransactionScope(db.DB)

	// Initialize application services
	occupancyService := propertyapp.NewOccupancyService(propertyRepo, unitRepo, tenantRepo, log)
	propertyService := propertyapp.NewPropertyService(propertyRepo, unitRepo, tenantRepo, expenseRepo, occupancyService, log)
	tenantService := leasingapp.NewTenantService(tenantRepo, propertyRepo, unitRepo, occupancyService, log)
	paymentService := paymentapp.NewPaymentService(paymentScope, log)
	paymentService.SetNotifier(notify.NewLoggingNotifier(log))
	cascadeService := cascadeapp.NewCascadeService(
		propertyRepo, unitRepo, tenantRepo, reminderRepo,
		paymentRepo, receiptRepo, expenseRepo, requestRepo, approvalRepo, log,
	)

	// Usage limits (per-organization plan quotas)
	limits := map[string]int64{
		propertyapp.ResourceTypeProperty: cfg.Leasing.MaxProperties,
		leasingapp.ResourceTypeTenant:    cfg.Leasing.MaxTenants,
	}
	if cfg.Redis.Enabled {
		idempotencyStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := idempotencyStore.Close(); err != nil {
				log.Error("Error closing Redis idempotency store", zap.Error(err))
			}
		}()
		redisLimiter := cache.NewRedisUsageLimiter(idempotencyStore.GetClient(), limits)
		propertyService.SetUsageLimitChecker(redisLimiter)
		tenantService.SetUsageLimitChecker(redisLimiter)
		wireEventBus(cfg, log, idempotencyStore,
			propertyService, occupancyService, tenantService, paymentService, cascadeService,
			reminderRepo, auditRepo)
	} else {
		inMemoryStore := cache.NewInMemoryIdempotencyStore()
		defer func() {
			_ = inMemoryStore.Close()
		}()
		memoryLimiter := cache.NewInMemoryUsageLimiter(limits)
		propertyService.SetUsageLimitChecker(memoryLimiter)
		tenantService.SetUsageLimitChecker(memoryLimiter)
		wireEventBus(cfg, log, inMemoryStore,
			propertyService, occupancyService, tenantService, paymentService, cascadeService,
			reminderRepo, auditRepo)
	}

	// Overdue sweeper (marks stale active tenants late)
	sweeper := scheduler.NewOverdueSweeper(tenantService, tenantRepo, log, scheduler.OverdueSweeperConfig{
		Enabled:      cfg.Leasing.OverdueSweepEnabled,
		Interval:     cfg.Leasing.OverdueSweepInterval,
		SweepTimeout: 10 * time.Minute,
	})
	if err := sweeper.Start(context.Background()); err != nil {
		log.Fatal("Failed to start overdue sweeper", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sweeper.Stop(stopCtx); err != nil {
			log.Error("Error stopping overdue sweeper", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	propertyHandler := handler.NewPropertyHandler(propertyService, occupancyService, cascadeService)
	tenantHandler := handler.NewTenantHandler(tenantService, cascadeService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

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

	// Middleware stack: request ID, recovery, logging, tracing, security,
	// CORS, body limit, rate limit, org resolution.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Org resolution for API routes
	engine.Use(middleware.OptionalOrgMiddleware())
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingAttributeInjector())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Portfolio domain (properties and their units)
	portfolioRoutes := router.NewDomainGroup("portfolio", "/portfolio")
	portfolioRoutes.POST("/properties", propertyHandler.Create)
	portfolioRoutes.GET("/properties", propertyHandler.List)
	portfolioRoutes.GET("/properties/:id", propertyHandler.GetByID)
	portfolioRoutes.PUT("/properties/:id", propertyHandler.Update)
	portfolioRoutes.DELETE("/properties/:id", propertyHandler.Delete)
	portfolioRoutes.GET("/properties/:id/units", propertyHandler.ListUnits)
	portfolioRoutes.POST("/properties/:id/units/:unitNumber/reserve", propertyHandler.ReserveUnit)
	portfolioRoutes.PUT("/properties/:id/units/:unitNumber/rent", propertyHandler.SetUnitRent)
	portfolioRoutes.POST("/properties/:id/resize", propertyHandler.Resize)
	portfolioRoutes.POST("/properties/:id/occupancy/recompute", propertyHandler.RecomputeOccupancy)
	portfolioRoutes.POST("/properties/:id/expenses", propertyHandler.RecordExpense)
	portfolioRoutes.POST("/properties/:id/archive", propertyHandler.Archive)
	portfolioRoutes.POST("/properties/:id/restore", propertyHandler.Restore)

	// Leasing domain (tenants and their lifecycle)
	leasingRoutes := router.NewDomainGroup("leasing", "/leasing")
	leasingRoutes.POST("/tenants", tenantHandler.Create)
	leasingRoutes.GET("/tenants", tenantHandler.List)
	leasingRoutes.GET("/tenants/:id", tenantHandler.GetByID)
	leasingRoutes.DELETE("/tenants/:id", tenantHandler.Delete)
	leasingRoutes.POST("/tenants/:id/discount", tenantHandler.ApplyDiscount)
	leasingRoutes.DELETE("/tenants/:id/discount", tenantHandler.ClearDiscount)
	leasingRoutes.POST("/tenants/:id/archive", tenantHandler.Archive)
	leasingRoutes.POST("/tenants/:id/restore", tenantHandler.Restore)
	leasingRoutes.POST("/tenants/overdue/sweep", tenantHandler.SweepOverdue)

	// Billing domain (payments and receipts)
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.POST("/payments", paymentHandler.Record)
	billingRoutes.GET("/payments/:id", paymentHandler.GetByID)
	billingRoutes.POST("/payments/:id/settle", paymentHandler.Settle)
	billingRoutes.GET("/tenants/:id/payments", paymentHandler.ListByTenant)

	r.Register(portfolioRoutes).
		Register(leasingRoutes).
		Register(billingRoutes)

	// Register system routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

// wireEventBus starts the in-memory event bus, registers the side-effect
// handlers behind the idempotency wrapper and injects the bus into the
// services that publish events.
func wireEventBus(
	cfg *config.Config,
	log *zap.Logger,
	store shared.IdempotencyStore,
	propertyService *propertyapp.PropertyService,
	occupancyService *propertyapp.OccupancyService,
	tenantService *leasingapp.TenantService,
	paymentService *paymentapp.PaymentService,
	cascadeService *cascadeapp.CascadeService,
	reminderRepo *persistence.GormReminderRepository,
	auditRepo *persistence.GormAuditRepository,
) {
	eventBus := event.NewInMemoryEventBus(log)

	handlers := []shared.EventHandler{
		leasingapp.NewTenantAddedHandler(reminderRepo, log),
		auditapp.NewAuditTrailHandler(auditRepo, log),
	}
	if cfg.Event.IdempotencyEnabled {
		handlers = event.WrapHandlersWithIdempotency(handlers, store, log,
			event.WithIdempotencyConfig(shared.IdempotencyConfig{
				Enabled: true,
				TTL:     cfg.Event.IdempotencyTTL,
			}),
		)
	}
	for _, h := range handlers {
		eventBus.Subscribe(h)
	}

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	propertyService.SetEventPublisher(eventBus)
	occupancyService.SetEventPublisher(eventBus)
	tenantService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)
	cascadeService.SetEventPublisher(eventBus)

	log.Info("Event handlers registered",
		zap.Int("handlers", len(handlers)),
		zap.Bool("idempotency", cfg.Event.IdempotencyEnabled))
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
