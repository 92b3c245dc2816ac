package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobsift/internal/metrics"
)

// MetricsHandler returns a point-in-time snapshot of pipeline counters
func MetricsHandler(collector *metrics.Collector) echo.HandlerFunc {
	return func(c echo.Context) error {
		if collector == nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"error": "metrics collection is disabled",
			})
		}
		return c.JSON(http.StatusOK, collector.GetSnapshot())
	}
}
