package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"nvcoach-backend/logger"
)

// RequestLogger logs each request with method, path, status and latency
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		log.Info("request",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}
