package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"jobsift/internal/api/handlers"
	"jobsift/internal/api/middleware"
	"jobsift/internal/config"
	"jobsift/internal/llm"
	"jobsift/internal/metrics"
	"jobsift/internal/orchestrator"
	"jobsift/internal/pipeline/extract"
	"jobsift/internal/store"
	"jobsift/internal/workers"
)

// Dependencies bundles the collaborators the REST surface exposes
type Dependencies struct {
	Config     *config.Config
	Pool       *workers.WorkerPool
	Extractor  *extract.Extractor
	LLMManager *llm.Manager
	Collector  *metrics.Collector
	Postgres   *store.PostgresStore
	Cache      *store.RedisCache
	Scheduler  *orchestrator.Scheduler
}

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	e.Use(middleware.TimeoutConfig(deps.Config.Server.WriteTimeout))

	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(deps.Pool, deps.LLMManager, deps.Postgres, deps.Cache))
		health.GET("/live", handlers.LivenessHandler)
	}

	v1 := e.Group("/api/v1")
	{
		v1.POST("/extract", handlers.ExtractHandler(deps.Config, deps.Pool, deps.Extractor))
		v1.POST("/classify", handlers.ClassifyHandler(deps.Config, deps.Pool))
		v1.GET("/metrics", handlers.MetricsHandler(deps.Collector))

		workerRoutes := v1.Group("/workers")
		{
			workerRoutes.GET("/stats", handlers.WorkerStatsHandler(deps.Pool))
		}

		domains := v1.Group("/domains")
		{
			domains.GET("/:domain/stats", handlers.DomainStatsHandler(deps.Pool))
		}

		crawl := v1.Group("/crawl")
		{
			crawl.POST("/:org", handlers.CrawlTriggerHandler(deps.Scheduler))
			crawl.GET("/outcomes", handlers.CrawlOutcomesHandler(deps.Cache))
		}
	}

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "jobsift",
			"status":  "running",
		})
	})
}
