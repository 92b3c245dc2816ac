package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"jobsift/internal/config"
	"jobsift/internal/logging"
	"jobsift/internal/pipeline/classify"
	"jobsift/internal/pipeline/extract"
	"jobsift/internal/workers"
	"jobsift/pkg/models"
)

var validate = validator.New()

// ExtractHandler runs the full pipeline for one URL or raw HTML body
func ExtractHandler(cfg *config.Config, pool *workers.WorkerPool, extractor *extract.Extractor) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID, _ := c.Get("request_id").(string)
		logger := logging.LogWithRequestID(requestID)

		var req models.ExtractRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if req.URL == "" && req.HTML == "" {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   "Either url or html must be provided",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		ctx := c.Request().Context()

		// Raw HTML skips the fetch and worker pool entirely
		if req.HTML != "" {
			result := extractor.Extract(ctx, req.HTML, req.URL, req.ParserHint)
			return c.JSON(http.StatusOK, models.ExtractResponse{
				Success:        true,
				Result:         result,
				ProcessingTime: time.Since(startTime),
				Engine:         "inline",
				RequestID:      requestID,
			})
		}

		logger.Info("Extract request received", map[string]interface{}{
			"url": req.URL,
		})

		pageResult, err := pool.SubmitPage(ctx, req.URL, req.OrgName, req.ParserHint, req.Options)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ExtractResponse{
				Success:        false,
				Error:          err.Error(),
				ProcessingTime: time.Since(startTime),
				RequestID:      requestID,
			})
		}
		if pageResult.Error != nil {
			return c.JSON(http.StatusBadGateway, models.ExtractResponse{
				Success:        false,
				Error:          pageResult.Error.Error(),
				ProcessingTime: time.Since(startTime),
				RequestID:      requestID,
			})
		}

		engine := ""
		if pageResult.Page != nil {
			engine = pageResult.Page.Engine
		}

		return c.JSON(http.StatusOK, models.ExtractResponse{
			Success:        true,
			Result:         pageResult.Result,
			ProcessingTime: time.Since(startTime),
			Engine:         engine,
			RequestID:      requestID,
		})
	}
}

// ClassifyHandler runs classification only, for raw HTML or a fetched URL
func ClassifyHandler(cfg *config.Config, pool *workers.WorkerPool) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID, _ := c.Get("request_id").(string)

		var req models.ClassifyRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if req.HTML == "" && req.URL == "" {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   "Either url or html must be provided",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		html := req.HTML
		if html == "" {
			pageResult, err := pool.SubmitPage(c.Request().Context(), req.URL, "", "", nil)
			if err != nil || pageResult.Error != nil {
				if err == nil {
					err = pageResult.Error
				}
				return c.JSON(http.StatusBadGateway, models.ErrorResponse{
					Error:     "fetch_failed",
					Message:   err.Error(),
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
			return c.JSON(http.StatusOK, models.ClassifyResponse{
				IsJob:     pageResult.Result.IsJob,
				Score:     pageResult.Result.ClassifierScore,
				RequestID: requestID,
			})
		}

		isJob, score := classify.Classify(html, req.URL)
		return c.JSON(http.StatusOK, models.ClassifyResponse{
			IsJob:     isJob,
			Score:     score,
			RequestID: requestID,
		})
	}
}
