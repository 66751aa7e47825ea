package middleware

import (
	"strings"
	"time"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestLogger tags every request with an id, stores a request scoped logger
// in the request context and writes one access line when the handler returns.
// /health and /metrics are not logged.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(logger.Into(c.Request.Context(), logger.WithRequestID(requestID)))

		c.Next()

		path := c.Request.URL.Path
		if path == "/health" || path == "/metrics" {
			return
		}
		status := c.Writer.Status()
		log := logger.FromContext(c.Request.Context())
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}

		v := GetViewer(c)
		event.
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Uint64("user_id", GetUserID(c)).
			Str("role", string(v.Role)).
			Str("language", GetLanguage(c)).
			Msg("request")
	}
}
