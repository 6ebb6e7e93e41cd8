package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scoutdb/codescout/internal/pkg/logutil"
)

const ContextRequestIDKey = "request_id"

// RequestLog tags every request with an id, scopes a logger into the
// request context and writes one completion line.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = newRequestID()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Writer.Header().Set("X-Request-Id", requestID)

		logger := logutil.GetLogger(c.Request.Context()).With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(logutil.WithLogger(c.Request.Context(), logger))

		start := time.Now()
		c.Next()

		logger.Info("request done",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("cost", time.Since(start)),
		)
	}
}

func newRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
