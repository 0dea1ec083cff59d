package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/cmd/api/trace"
	"inkwell/dto"
	"inkwell/errs"
	"inkwell/internal/logger"
)

// respond writes the success envelope.
func respond(c *gin.Context, statusCode int, data any, message string) {
	c.JSON(statusCode, dto.NewAPIResponse(statusCode, data, message))
}

// respond400 rejects a malformed request body.
func respond400(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewAPIErrorResponse(http.StatusBadRequest, message))
}

// respondError maps an error to the error envelope. ApiErr values carry
// their own status code; anything else is an internal error and the real
// cause stays in the log, not the response.
func respondError(c *gin.Context, err error) {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, dto.NewAPIErrorResponse(apiErr.StatusCode, apiErr.Error()))
		return
	}

	logger.ErrorWithFields("request failed", logger.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"request_id": trace.RequestIDFromContext(c.Request.Context()),
		"error":      err.Error(),
	})
	c.JSON(http.StatusInternalServerError,
		dto.NewAPIErrorResponse(http.StatusInternalServerError, "Internal server error"))
}
