package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/leaguehq/draftsim/internal/adp"
	"github.com/leaguehq/draftsim/internal/api"
	"github.com/leaguehq/draftsim/internal/api/handlers"
	"github.com/leaguehq/draftsim/internal/api/middleware"
	"github.com/leaguehq/draftsim/internal/behavior"
	"github.com/leaguehq/draftsim/internal/predictor"
	"github.com/leaguehq/draftsim/internal/profile"
	"github.com/leaguehq/draftsim/internal/providers"
	"github.com/leaguehq/draftsim/internal/services"
	"github.com/leaguehq/draftsim/internal/storage"
	"github.com/leaguehq/draftsim/pkg/config"
	"github.com/leaguehq/draftsim/pkg/database"
	"github.com/leaguehq/draftsim/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger("", cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	recordStore := storage.NewRecordStore(db, log)
	if err := recordStore.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	wsHub := services.NewWebSocketHub(log)
	go wsHub.Run()

	seed := cfg.PredictionSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	valueSource := behavior.NewValueSource(rand.New(rand.NewSource(seed)))
	pickPredictor := predictor.New(log, rand.New(rand.NewSource(seed)))

	profileService := services.NewProfileService(
		recordStore,
		cacheService,
		profile.NewBuilder(log),
		behavior.NewBuilder(log, valueSource),
		time.Duration(cfg.ProfileCacheTTL)*time.Second,
		log,
	)

	// ADP sources and scheduled reconciliation
	primary := providers.NewHTTPADPClient("primary", cfg.ADPPrimaryURL, cfg.ADPRateLimit, log)
	secondary := providers.NewHTTPADPClient("secondary", cfg.ADPSecondaryURL, cfg.ADPRateLimit, log)
	refresher := services.NewADPRefresher(
		primary,
		secondary,
		adp.NewReconciler(log),
		cacheService,
		time.Duration(cfg.PoolCacheTTL)*time.Second,
		log,
	)
	refreshInterval, err := time.ParseDuration(cfg.ADPRefreshInterval)
	if err != nil {
		log.Warnf("Invalid ADP refresh interval, using default 6h: %v", err)
		refreshInterval = 6 * time.Hour
	}
	if cfg.ADPPrimaryURL != "" && cfg.ADPSecondaryURL != "" {
		if err := refresher.Start(refreshInterval); err != nil {
			log.Errorf("Failed to start ADP refresher: %v", err)
		}
		defer refresher.Stop()
	} else {
		log.Warn("ADP source URLs not configured; pool refresh disabled")
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(db, redisClient)
	router.GET("/health", healthHandler.GetHealth)

	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, api.Deps{
		DB:          db,
		RedisClient: redisClient,
		Registry:    services.NewSessionRegistry(),
		Profiles:    profileService,
		Refresher:   refresher,
		Autopick:    services.NewAutopickDriver(pickPredictor, log),
		Predictor:   pickPredictor,
		WSHub:       wsHub,
		Config:      cfg,
		Logger:      log,
	})

	// WebSocket endpoint for live draft updates
	router.GET("/ws/drafts/:id", wsHub.HandleWebSocket)

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
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	log.Info("Server exited")
}
