package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobsift/pkg/models"
	"jobsift/pkg/utils"
)

// maxRequestBody bounds POST bodies; raw-HTML extraction requests can be
// large but not unbounded
const maxRequestBody = 8 * 1024 * 1024

// RequestValidation middleware assigns request IDs and rejects oversized
// bodies
func RequestValidation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := utils.GenerateRequestID()
			c.Set("request_id", requestID)
			c.Response().Header().Set("X-Request-ID", requestID)

			if c.Request().Method == http.MethodPost {
				if c.Request().ContentLength > maxRequestBody {
					return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
						Error:     "request_too_large",
						Message:   "Request body too large",
						RequestID: requestID,
						Timestamp: time.Now(),
					})
				}
			}

			return next(c)
		}
	}
}
