// backend-go/cmd/server/main.go
package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/smartgestion/backend-go/internal/api"
	"github.com/andresuchdata/smartgestion/backend-go/internal/cache"
	"github.com/andresuchdata/smartgestion/backend-go/internal/config"
	"github.com/andresuchdata/smartgestion/backend-go/internal/insights"
	"github.com/andresuchdata/smartgestion/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/smartgestion/backend-go/internal/scheduler"
	"github.com/andresuchdata/smartgestion/backend-go/internal/service"
	"github.com/andresuchdata/smartgestion/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Configure(cfg.Server.LogFormat, cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	// Initialize caches
	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report cache unavailable, continuing without it")
		reportCache = cache.NewNoopReportCache()
	}
	alertState, err := cache.NewAlertStateStore(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Alert state store unavailable, using in-process state")
		alertState = cache.NewMemoryAlertStateStore()
	}

	// Initialize services
	engine := insights.NewEngine(cfg.Analytics.Thresholds(), randomSource(cfg.Analytics.RandomSeed))
	insightService := service.NewInsightService(
		postgres.NewSnapshotRepository(db),
		postgres.NewNotificationRepository(db),
		engine,
		reportCache,
		alertState,
	)

	alertScheduler := scheduler.NewAlertRefreshScheduler(insightService, cfg.Scheduler)
	if err := alertScheduler.Start(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to start alert scheduler")
	}

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		InsightService: insightService,
		Scheduler:      alertScheduler,
	}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-ctx.Done()
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
		os.Exit(1)
	}

	logger.Log.Info().Msg("Server exiting")
}

// randomSource returns a reproducible source when a seed is configured
func randomSource(seed int64) insights.RandomSource {
	if seed == 0 {
		return insights.NewTimeSeededSource()
	}
	return rand.New(rand.NewSource(seed))
}
