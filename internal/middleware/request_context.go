package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/goalgrid-backend/internal/pkg/ctxutil"
	"github.com/yungbote/goalgrid-backend/internal/pkg/logger"
)

// AttachRequestContext seeds every request with trace data so downstream
// logs can be correlated.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   uuid.New().String(),
			RequestID: requestID,
		})
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLog logs one line per request with latency and status.
func RequestLog(log *logger.Logger) gin.HandlerFunc {
	requestLogger := log.With("middleware", "RequestLog")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		td := ctxutil.GetTraceData(c.Request.Context())
		requestID := ""
		if td != nil {
			requestID = td.RequestID
		}
		requestLogger.Info("Request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", requestID,
		)
	}
}
