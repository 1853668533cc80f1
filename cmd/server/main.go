package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/fourtravels/b2b-backend/internal/auth"
	"github.com/fourtravels/b2b-backend/internal/config"
	"github.com/fourtravels/b2b-backend/internal/database"
	"github.com/fourtravels/b2b-backend/internal/handlers"
	"github.com/fourtravels/b2b-backend/internal/middleware"
	"github.com/fourtravels/b2b-backend/internal/services"
	"github.com/fourtravels/b2b-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting FourTravels B2B Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Repositories
	userRepo := database.NewUserRepository(db)
	reservationRepo := database.NewReservationRepository(db)
	requestRepo := database.NewRequestRepository(db)
	topupRepo := database.NewTopUpRepository(db)
	supplierRepo := database.NewSupplierRepository(db)
	touristRepo := database.NewTouristRepository(db)
	expenseRepo := database.NewExpenseRepository(db)
	settingRepo := database.NewSettingRepository(db)

	// Services
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	auditService := services.NewAuditService(db, cfg.Security.EnableAuditLog)
	exportService := services.NewExportService()

	if err := seedAdmin(userRepo, cfg, logger); err != nil {
		logger.Fatalf("Failed to seed admin account: %v", err)
	}

	if cfg.Security.EnableAuditLog {
		go auditRetentionLoop(auditService, logger)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(
		userRepo,
		jwtService,
		auditService,
		cfg.Security.BcryptCost,
		int(cfg.JWT.AccessTokenExpiry.Seconds()),
		logger,
	)
	userHandler := handlers.NewUserHandler(userRepo, topupRepo, auditService, cfg.Security.BcryptCost, logger)
	topupHandler := handlers.NewTopUpHandler(topupRepo, userRepo, auditService, logger)
	reservationHandler := handlers.NewReservationHandler(
		reservationRepo,
		userRepo,
		supplierRepo,
		settingRepo,
		exportService,
		logger,
	)
	requestHandler := handlers.NewRequestHandler(requestRepo, cfg.Uploads, logger)
	statisticsHandler := handlers.NewStatisticsHandler(reservationRepo, logger)
	settingsHandler := handlers.NewSettingsHandler(settingRepo, logger)
	supplierHandler := handlers.NewSupplierHandler(supplierRepo, logger)
	touristHandler := handlers.NewTouristHandler(touristRepo, logger)
	expenseHandler := handlers.NewExpenseHandler(expenseRepo, userRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(db))

	api := router.Group("/api")
	{
		// Public authentication routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.RefreshToken)
		}

		// Everything below requires a valid access token
		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(jwtService))
		{
			authed.GET("/auth/me", authHandler.Me)
			authed.POST("/auth/change-password", authHandler.ChangePassword)

			// Account management (admin)
			users := authed.Group("")
			users.Use(middleware.RequirePermission(auth.PermManageUsers))
			{
				users.POST("/auth/register", authHandler.Register)
				users.GET("/users", userHandler.List)
				users.GET("/users/:id", userHandler.Get)
				users.PUT("/users/:id", userHandler.Update)
				users.DELETE("/users/:id", userHandler.Delete)
				users.POST("/users/:id/topup-balance", userHandler.TopUpBalance)
			}

			// Top-up ledger (admin)
			topups := authed.Group("/topups")
			topups.Use(middleware.RequirePermission(auth.PermManageTopUps))
			{
				topups.GET("", topupHandler.List)
				topups.PUT("/:id", topupHandler.Update)
				topups.DELETE("/:id", topupHandler.Delete)
			}

			// Reservations: listing is scoped per role inside the handler,
			// mutations are admin only
			authed.GET("/reservations", reservationHandler.List)
			authed.GET("/reservations/export", reservationHandler.Export)
			authed.GET("/reservations/:id", reservationHandler.Get)

			reservations := authed.Group("/reservations")
			reservations.Use(middleware.RequirePermission(auth.PermManageReservations))
			{
				reservations.POST("", reservationHandler.Create)
				reservations.PUT("/:id", reservationHandler.Update)
				reservations.DELETE("/:id", reservationHandler.Delete)
				reservations.POST("/:id/mark-paid", reservationHandler.MarkPaid)
			}

			// Quote requests
			authed.GET("/requests", requestHandler.List)
			authed.POST("/requests", requestHandler.Create)
			authed.GET("/requests/:id", requestHandler.Get)
			authed.PUT("/requests/:id",
				middleware.RequirePermission(auth.PermUpdateRequests), requestHandler.UpdateStatuses)
			authed.GET("/requests/:id/comments", requestHandler.ListComments)
			authed.POST("/requests/:id/comments", requestHandler.CreateComment)
			authed.GET("/requests/:id/documents", requestHandler.ListDocuments)
			authed.POST("/requests/:id/documents",
				middleware.RequirePermission(auth.PermUploadDocuments), requestHandler.UploadDocument)
			authed.GET("/requests/:id/documents/:docId/download", requestHandler.DownloadDocument)

			// Statistics (revenue fields are stripped for sub-agencies)
			authed.GET("/statistics", statisticsHandler.Get)

			// Settings
			authed.GET("/settings", settingsHandler.Get)
			authed.PUT("/settings",
				middleware.RequirePermission(auth.PermManageSettings), settingsHandler.Update)

			// Supplier registry (admin)
			suppliers := authed.Group("/suppliers")
			suppliers.Use(middleware.RequirePermission(auth.PermManageSuppliers))
			{
				suppliers.GET("", supplierHandler.List)
				suppliers.POST("", supplierHandler.Create)
				suppliers.DELETE("/:id", supplierHandler.Delete)
			}

			// Tourist registry (admin), plus the name autocomplete list
			authed.GET("/tourist-names",
				middleware.RequirePermission(auth.PermManageTourists), touristHandler.Names)
			tourists := authed.Group("/tourists")
			tourists.Use(middleware.RequirePermission(auth.PermManageTourists))
			{
				tourists.GET("", touristHandler.List)
				tourists.POST("", touristHandler.Create)
				tourists.PUT("/:id", touristHandler.Update)
				tourists.DELETE("/:id", touristHandler.Delete)
			}

			// Expenses: sub-agencies see their own, mutations are admin only
			authed.GET("/expenses", expenseHandler.List)
			authed.POST("/expenses",
				middleware.RequirePermission(auth.PermManageExpenses), expenseHandler.Create)
			authed.DELETE("/expenses/:id",
				middleware.RequirePermission(auth.PermManageExpenses), expenseHandler.Delete)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// auditRetentionLoop prunes audit logs older than 90 days, once a day.
func auditRetentionLoop(auditService *services.AuditService, logger *logrus.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		deleted, err := auditService.CleanupOldAuditLogs(90 * 24 * time.Hour)
		if err != nil {
			logger.WithError(err).Error("Failed to cleanup old audit logs")
			continue
		}
		if deleted > 0 {
			logger.Infof("Pruned %d old audit log entries", deleted)
		}
	}
}

// seedAdmin creates the configured admin account on first boot so the
// back office is reachable before any user exists.
func seedAdmin(userRepo *database.UserRepository, cfg *config.Config, logger *logrus.Logger) error {
	count, err := userRepo.CountAdmins()
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}
	if cfg.Admin.Email == "" {
		logger.Warn("No admin account exists and ADMIN_EMAIL is not set")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), cfg.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user, err := userRepo.CreateUser(cfg.Admin.Name, cfg.Admin.Email, string(hash), "", "admin", "en")
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("Seeded admin account")
	return nil
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
			fields["role"] = userCtx.Role
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
