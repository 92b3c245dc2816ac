package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobsift/internal/workers"
)

// WorkerStatsHandler reports worker pool throughput statistics
func WorkerStatsHandler(pool *workers.WorkerPool) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats := pool.GetStats()

		return c.JSON(http.StatusOK, map[string]interface{}{
			"running":                 pool.IsRunning(),
			"jobs_queued":             stats.JobsQueued,
			"jobs_processed":          stats.JobsProcessed,
			"jobs_successful":         stats.JobsSuccessful,
			"jobs_failed":             stats.JobsFailed,
			"average_processing_time": stats.AverageProcessingTime.String(),
		})
	}
}

// DomainStatsHandler reports rate limiter state for a single domain
func DomainStatsHandler(pool *workers.WorkerPool) echo.HandlerFunc {
	return func(c echo.Context) error {
		domain := c.Param("domain")
		all := pool.GetRateLimiterStats()

		stats, ok := all[domain]
		if !ok {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "no stats for domain: " + domain,
			})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"domain": domain,
			"stats":  stats,
		})
	}
}
