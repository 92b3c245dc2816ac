package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"jobsift/internal/api/routes"
	"jobsift/internal/config"
	"jobsift/internal/llm"
	"jobsift/internal/logging"
	"jobsift/internal/metrics"
	"jobsift/internal/orchestrator"
	"jobsift/internal/pipeline/extract"
	"jobsift/internal/store"
	"jobsift/internal/workers"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging before anything else so every component logs
	// through the same adapters
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger := logging.GetGlobalLogger()
	logger.Info("Starting jobsift ingestion service")

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{"error": err.Error()})
	}

	// Initialize metrics collector
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
		collector.StartFlusher(cfg.Metrics.FlushInterval)
	}

	// Initialize the extraction pipeline and worker pool
	extractor := extract.NewExtractor(cfg, llmManager, collector)
	pool := workers.NewWorkerPool(cfg, extractor, collector)
	if err := pool.Start(); err != nil {
		logger.Fatal("Failed to start worker pool", map[string]interface{}{"error": err.Error()})
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Postgres and Redis are optional: without them the service still
	// serves /extract and /classify, it just cannot persist or dedupe
	var pg *store.PostgresStore
	if cfg.Postgres.DSN != "" {
		pg, err = store.NewPostgresStore(startupCtx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Postgres", map[string]interface{}{"error": err.Error()})
		}
	} else {
		logger.Warn("POSTGRES_DSN not set, running without persistence")
	}

	// The seen-cache only short-circuits duplicate work; Postgres upserts stay
	// correct without it, so a missing Redis degrades instead of failing startup
	var cache *store.RedisCache
	if cfg.Redis.URL != "" {
		cache, err = store.NewRedisCache(startupCtx, cfg)
		if err != nil {
			logger.Warn("Redis unavailable, running without the seen-cache", map[string]interface{}{"error": err.Error()})
			cache = nil
		}
	}

	// Initialize the crawl orchestrator and its schedule
	orch := orchestrator.New(cfg, pool, pg, cache, collector)
	scheduler := orchestrator.NewScheduler(orch)
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if err := scheduler.Start(schedulerCtx); err != nil {
		logger.Fatal("Failed to start crawl scheduler", map[string]interface{}{"error": err.Error()})
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	routes.SetupRoutes(e, routes.Dependencies{
		Config:     cfg,
		Pool:       pool,
		Extractor:  extractor,
		LLMManager: llmManager,
		Collector:  collector,
		Postgres:   pg,
		Cache:      cache,
		Scheduler:  scheduler,
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Stopping crawl scheduler...")
		schedulerCancel()
		scheduler.Stop()

		logger.Info("Stopping worker pool...")
		if err := pool.Stop(); err != nil {
			logger.Error("Error stopping worker pool", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Stopping LLM manager...")
		if err := llmManager.Stop(); err != nil {
			logger.Error("Error stopping LLM manager", map[string]interface{}{"error": err.Error()})
		}

		if collector != nil {
			collector.Stop()
		}
		if pg != nil {
			pg.Close()
		}
		if cache != nil {
			if err := cache.Close(); err != nil {
				logger.Error("Error closing Redis connection", map[string]interface{}{"error": err.Error()})
			}
		}

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
		logging.CloseLogging()
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil {
		logger.Info("Server stopped", map[string]interface{}{"reason": err.Error()})
	}
}
