package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

type RequestLogger struct {
	log *logger.Logger
}

func NewRequestLogger(baseLog *logger.Logger) *RequestLogger {
	return &RequestLogger{log: baseLog.With("middleware", "RequestLogger")}
}

func (m *RequestLogger) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
