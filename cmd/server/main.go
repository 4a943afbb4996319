package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	approvalapp "github.com/tenancy/backend/internal/application/approval"
	discussionapp "github.com/tenancy/backend/internal/application/discussion"
	settlementapp "github.com/tenancy/backend/internal/application/settlement"
	"github.com/tenancy/backend/internal/infrastructure/auth"
	"github.com/tenancy/backend/internal/infrastructure/config"
	"github.com/tenancy/backend/internal/infrastructure/event"
	"github.com/tenancy/backend/internal/infrastructure/inspection"
	"github.com/tenancy/backend/internal/infrastructure/logger"
	"github.com/tenancy/backend/internal/infrastructure/notification"
	"github.com/tenancy/backend/internal/infrastructure/persistence"
	"github.com/tenancy/backend/internal/infrastructure/rendering"
	"github.com/tenancy/backend/internal/interfaces/http/handler"
	"github.com/tenancy/backend/internal/interfaces/http/middleware"
	"github.com/tenancy/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Tenancy Settlement API
//	@version		1.0
//	@description	End-of-tenancy liability resolution service: comparison reports, tenant approvals and report discussion threads.

//	@contact.name	API Support
//	@contact.url	https://github.com/tenancy/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	log.Info("Starting Tenancy Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

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

	// Initialize repositories
	reportRepo := persistence.NewGormReportRepository(db.DB)
	approvalRepo := persistence.NewGormApprovalRepository(db.DB)
	commentRepo := persistence.NewGormCommentRepository(db.DB)

	// Inspection collaborator (source of flagged comparison entries)
	var inspections settlementapp.InspectionService
	if cfg.Inspection.Stub {
		inspections = inspection.NewStubInspectionClient(log)
	} else {
		inspections = inspection.NewHTTPInspectionClient(cfg.Inspection.BaseURL, cfg.Inspection.Timeout, log)
	}

	// PDF renderer backed by Chrome DevTools Protocol
	pdfRenderer, err := rendering.NewChromedpRenderer(&rendering.ChromedpConfig{
		DefaultTimeout: cfg.Rendering.Timeout,
		RemoteURL:      cfg.Rendering.ChromeURL,
		Headless:       true,
		DisableGPU:     true,
		NoSandbox:      true,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()
	reportRenderer := rendering.NewReportRenderer(pdfRenderer, log)

	// Finance notification gateway
	var notifier settlementapp.FinanceNotifier
	if cfg.Notification.Stub {
		notifier = notification.NewLogFinanceNotifier(cfg.Notification.FinanceEmail, log)
	} else {
		notifier = notification.NewHTTPFinanceNotifier(
			cfg.Notification.Endpoint,
			cfg.Notification.FinanceEmail,
			cfg.Notification.Timeout,
			log,
		)
	}

	// Initialize application services
	reportService := settlementapp.NewReportService(reportRepo, inspections)
	exportService := settlementapp.NewExportService(reportRepo, reportRenderer, notifier)
	approvalService := approvalapp.NewService(approvalRepo, cfg.Approval.DefaultWindow)
	commentService := discussionapp.NewCommentService(commentRepo, reportRepo)

	// Token validation (tokens are minted by the account platform)
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize event bus and subscribe the report audit trail
	eventBus := event.NewInMemoryEventBus(log)
	auditHandler := event.NewReportAuditHandler(log)
	eventBus.Subscribe(auditHandler)
	log.Info("Event handlers registered",
		zap.Strings("report_audit_events", auditHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	reportService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	reportHandler := handler.NewReportHandler(reportService, exportService)
	commentHandler := handler.NewCommentHandler(commentService)
	approvalHandler := handler.NewApprovalHandler(approvalService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Configure request validation to report JSON field names
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/health"))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	operatorOnly := middleware.RequireRole(auth.RoleOperator, auth.RoleAdmin, auth.RoleAgent)
	tenantOnly := middleware.RequireRole(auth.RoleTenant)

	// Settlement report routes
	reportRoutes := router.NewDomainGroup("settlement", "/settlement-reports")
	reportRoutes.POST("", operatorOnly, reportHandler.Generate)
	reportRoutes.GET("", operatorOnly, reportHandler.List)
	reportRoutes.GET("/:id", reportHandler.GetByID)
	reportRoutes.PATCH("/:id/status", operatorOnly, reportHandler.ChangeStatus)
	reportRoutes.PATCH("/items/:id", operatorOnly, reportHandler.PatchItem)
	reportRoutes.POST("/:id/sign", reportHandler.Sign)
	reportRoutes.POST("/:id/pdf", operatorOnly, reportHandler.RenderPDF)
	reportRoutes.POST("/:id/send-to-finance", operatorOnly, reportHandler.SendToFinance)

	// Report discussion routes
	reportRoutes.POST("/:id/comments", commentHandler.Add)
	reportRoutes.GET("/:id/comments", commentHandler.List)

	// Tenant approval routes keyed by check-in
	approvalRoutes := router.NewDomainGroup("approval", "/checkins")
	approvalRoutes.POST("/:id/approval", operatorOnly, approvalHandler.Create)
	approvalRoutes.GET("/:id/approval", approvalHandler.Get)
	approvalRoutes.POST("/:id/tenant-approve", tenantOnly, approvalHandler.Approve)
	approvalRoutes.POST("/:id/tenant-dispute", tenantOnly, approvalHandler.Dispute)
	approvalRoutes.PATCH("/:id/tenant-comments", tenantOnly, approvalHandler.UpdateComments)

	// Register all domain groups
	r.Register(reportRoutes).
		Register(approvalRoutes)

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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
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
