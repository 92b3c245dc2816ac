package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobsift/internal/llm"
	"jobsift/internal/store"
	"jobsift/internal/workers"
	"jobsift/pkg/models"
)

var startTime = time.Now()

// HealthHandler handles basic health check requests
func HealthHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   models.PipelineVersion,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler reports whether the service's collaborators are reachable
func ReadinessHandler(pool *workers.WorkerPool, llmManager *llm.Manager, pg *store.PostgresStore, cache *store.RedisCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		checks := map[string]string{"api": "ok"}
		status := "ready"
		code := http.StatusOK

		if pool != nil && pool.IsRunning() {
			checks["workers"] = "ok"
		} else {
			checks["workers"] = "not_running"
			status = "not_ready"
			code = http.StatusServiceUnavailable
		}

		if llmManager != nil && llmManager.IsHealthy() {
			checks["llm"] = "ok"
		} else {
			// AI fallback is optional; its absence degrades, not fails
			checks["llm"] = "unavailable"
		}

		if pg != nil {
			if err := pg.Ping(ctx); err != nil {
				checks["postgres"] = "unreachable"
				status = "not_ready"
				code = http.StatusServiceUnavailable
			} else {
				checks["postgres"] = "ok"
			}
		}

		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				checks["redis"] = "unreachable"
			} else {
				checks["redis"] = "ok"
			}
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   models.PipelineVersion,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   models.PipelineVersion,
		Uptime:    time.Since(startTime),
	})
}
