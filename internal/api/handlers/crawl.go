package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobsift/internal/orchestrator"
	"jobsift/internal/store"
	"jobsift/pkg/models"
)

// CrawlTriggerHandler runs an immediate crawl of one configured source
func CrawlTriggerHandler(scheduler *orchestrator.Scheduler) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID, _ := c.Get("request_id").(string)
		orgName := c.Param("org")

		outcome, err := scheduler.TriggerSource(c.Request().Context(), orgName)
		if err != nil {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:     "unknown_source",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, outcome)
	}
}

// CrawlOutcomesHandler lists recent crawl outcomes across sources
func CrawlOutcomesHandler(cache *store.RedisCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		if cache == nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"error": "crawl outcome tracking is disabled",
			})
		}

		outcomes, err := cache.RecentCrawlOutcomes(c.Request().Context(), 50)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": err.Error(),
			})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"outcomes": outcomes,
		})
	}
}
