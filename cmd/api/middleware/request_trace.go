package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/cmd/api/trace"
	"inkwell/internal/logger"
)

const headerRequestID = "X-Request-Id"

// RequestTrace guarantees every inbound request has a request id, echoes it
// on the response, and logs one structured line per completed request.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		requestID := req.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}

		c.Request = req.WithContext(trace.WithRequestID(req.Context(), requestID))
		c.Writer.Header().Set(headerRequestID, requestID)

		// Multi-valued query params are preserved as-is in the log line.
		queryParams := map[string][]string{}
		for key, values := range req.URL.Query() {
			if len(values) > 0 {
				queryParams[key] = values
			}
		}

		c.Next()

		logger.InfoWithFields("completed request", logger.Fields{
			"method":       req.Method,
			"path":         req.URL.Path,
			"query_params": queryParams,
			"status":       c.Writer.Status(),
			"duration":     time.Since(start).String(),
			"request_id":   requestID,
		})
	}
}
