package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/courtlog/handball-tracker/internal/api"
	"github.com/courtlog/handball-tracker/internal/api/handlers"
	"github.com/courtlog/handball-tracker/internal/api/middleware"
	"github.com/courtlog/handball-tracker/internal/services"
	"github.com/courtlog/handball-tracker/pkg/config"
	"github.com/courtlog/handball-tracker/pkg/database"
	"github.com/courtlog/handball-tracker/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger()
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis. The cache is optional: a bench laptop without
	// Redis still scores matches, just without cached stats reads.
	var cacheService *services.CacheService
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logrus.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logrus.Warnf("Redis unreachable, running without cache: %v", err)
			redisClient = nil
		} else {
			cacheService = services.NewCacheService(redisClient)
			defer redisClient.Close()
		}
	}

	// WebSocket hub for live match feeds
	webSocketHub := services.NewWebSocketHub()
	go webSocketHub.Run()

	// Final score notifications
	var notifier *services.Notifier
	if cfg.EnableNotifications {
		var sms services.SMSService
		if cfg.SMSProvider == "twilio" {
			rateLimiter := services.NewSMSRateLimiter(cfg.SMSRateLimit, time.Hour)
			sms = services.NewTwilioSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken,
				cfg.TwilioFromNumber, cfg.CircuitBreakerThreshold, rateLimiter, log)
		} else {
			sms = services.NewMockSMSService(log)
		}
		notifier = services.NewNotifier(sms, cfg.SMSRecipients, log)
	}

	matchService := services.NewMatchService(db, cacheService, webSocketHub, notifier, cfg.DefaultHalfDuration, log)

	// Background persistence and retention sweeps
	autosave := services.NewAutosaveService(matchService, db, cfg.AutosaveInterval, cfg.SessionRetention, log)
	if cfg.EnableAutosave {
		if err := autosave.Start(); err != nil {
			logrus.Errorf("Failed to start autosave: %v", err)
		}
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))
	router.Use(middleware.RateLimit(cfg.APIRateLimit))

	// Health check endpoints
	healthHandler := handlers.NewHealthHandler(db, redisClient)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, db, cacheService, webSocketHub, matchService, cfg)

	// Setup WebSocket endpoint at root level (not under /api/v1)
	wsHandler := handlers.NewWebSocketHandler(webSocketHub)
	router.GET("/ws", middleware.OptionalAuth(cfg.JWTSecret), wsHandler.HandleWebSocket)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Unsaved sessions flush before the process exits.
	if cfg.EnableAutosave {
		autosave.Stop()
	} else {
		matchService.FlushDirty()
	}

	logrus.Info("Server exited")
}
