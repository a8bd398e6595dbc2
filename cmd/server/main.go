package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"budget_tracker/internal/backend"
	"budget_tracker/internal/config"
	"budget_tracker/internal/handler"
	"budget_tracker/internal/logger"
	"budget_tracker/internal/middleware"
	"budget_tracker/internal/scheduler"
	"budget_tracker/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.InitJSONLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// --- Storage ---
	stores, err := backend.Open(context.Background(), cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to open data backend", zap.String("backend", cfg.DataBackend), zap.Error(err))
	}
	defer stores.Close()

	// --- Services ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecretKey, cfg.JWTExpirationHours)
	services := backend.NewServices(stores, cfg, jwtUtil, zlog)

	// --- Background resync ---
	var resync *scheduler.ResyncScheduler
	if cfg.ResyncSchedule != "" {
		resync = scheduler.NewResyncScheduler(services.Goals, cfg.Location(), zlog.Named("scheduler"))
		if err := resync.Start(cfg.ResyncSchedule); err != nil {
			zlog.Fatal("Failed to start goal resync", zap.Error(err))
		}
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(services.Auth, zlog)
	transactionHandler := handler.NewTransactionHandler(services.Transactions, cfg.DefaultPageSize, zlog)
	goalHandler := handler.NewGoalHandler(services.Goals, zlog)
	reportHandler := handler.NewReportHandler(services.Reports, cfg.DefaultPageSize, zlog)
	settingsHandler := handler.NewSettingsHandler(services.Settings, zlog)

	// --- Router ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(zlog.Named("http")), middleware.CORS())

	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil)
	adminRoleMW := middleware.AdminMiddleware()

	apiGroup := router.Group("/api/v1")
	authHandler.RegisterAuthRoutes(apiGroup)
	transactionHandler.RegisterTransactionRoutes(apiGroup, jwtAuthMW)
	goalHandler.RegisterGoalRoutes(apiGroup, jwtAuthMW, adminRoleMW)
	reportHandler.RegisterReportRoutes(apiGroup, jwtAuthMW)
	settingsHandler.RegisterSettingsRoutes(apiGroup, jwtAuthMW, adminRoleMW)

	router.GET("/health", func(c *gin.Context) {
		if err := stores.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy", "backend": cfg.DataBackend})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Server starting", zap.String("port", cfg.Port), zap.String("backend", cfg.DataBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("listen", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server...")

	if resync != nil {
		resync.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server exiting")
}
