package main

import (
	"context"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/starydv7/puzzle/internal/achievement"
	"github.com/starydv7/puzzle/internal/api"
	"github.com/starydv7/puzzle/internal/catalog"
	"github.com/starydv7/puzzle/internal/config"
	"github.com/starydv7/puzzle/internal/db"
	"github.com/starydv7/puzzle/internal/jobs"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/puzzle"
	"github.com/starydv7/puzzle/internal/repository/sqlite"
	"github.com/starydv7/puzzle/internal/services"
	"github.com/starydv7/puzzle/internal/snake"
	"github.com/starydv7/puzzle/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()

	log.Info("===========================================")
	log.Info("Puzzle Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", loc)
	log.Debug("retry_worker_count=%d", cfg.RetryWorkerCount)
	log.Debug("retry_queue_size=%d", cfg.RetryQueueSize)
	log.Debug("retry_max_attempts=%d", cfg.RetryMaxAttempts)
	log.Debug("retry_initial_delay=%v", cfg.RetryInitialDelay)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open database
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()
	store := sqlite.NewKVStore(database.DB)

	// Load content
	content, err := catalog.Load()
	if err != nil {
		log.Error("failed to load puzzle catalog: %v", err)
		os.Exit(1)
	}
	log.Debug("catalog version %d loaded", content.Version())
	engine := puzzle.NewEngine(content, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))

	// Retry queue for failed progress writes
	retryPool := worker.NewPool(cfg.RetryWorkerCount, cfg.RetryQueueSize)
	retryPool.Start(ctx)
	retry := jobs.NewWorkerQueue(retryPool, cfg.RetryMaxAttempts, cfg.RetryInitialDelay)

	// Initialize services
	calendar := services.NewCalendar(loc)
	progressService := services.NewProgressService(store, content)
	streakService := services.NewStreakService(store, calendar)
	storyService := services.NewStoryService(content, progressService)
	dailyService := services.NewDailyChallengeService(store, engine, calendar)
	adaptiveService := services.NewAdaptiveService(store, content, progressService, calendar)
	achievementService := services.NewAchievementService(store, progressService,
		achievement.NewEvaluator(streakService, storyService))
	snakeService := services.NewSnakeService(store, snake.SharedRand)

	srv := &api.Server{
		Store:        store,
		Catalog:      content,
		Progress:     progressService,
		Streak:       streakService,
		Daily:        dailyService,
		Achievements: achievementService,
		Adaptive:     adaptiveService,
		Story:        storyService,
		Settings:     services.NewSettingsService(store),
		Play: services.NewPlayService(services.PlayDeps{
			Engine:       engine,
			Progress:     progressService,
			Streak:       streakService,
			Adaptive:     adaptiveService,
			Daily:        dailyService,
			Achievements: achievementService,
			Retry:        retry,
		}),
		Snake:          snakeService,
		Bunny:          services.NewBunnyService(store, content),
		Rand:           snake.SharedRand,
		RequestTimeout: 15 * time.Second,
	}

	// Configure HTTP server. WriteTimeout stays unset so snake streams
	// are not cut off; other routes are bounded by RequestTimeout.
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping snake runs")
	snakeService.Shutdown()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping retry pool")
	cancel()
	retryPool.Stop()

	log.Info("===========================================")
	log.Info("Puzzle Server Stopped")
	log.Info("===========================================")
}
