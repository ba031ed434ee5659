package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/fundgraph/internal/platform/logger"
)

// RequestLogger writes one line per request once the handler chain has finished. Server
// errors log at error level and client errors at warn.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"latency", time.Since(start).String(),
			KeyRequestID, c.GetString(KeyRequestID),
			KeyTraceID, c.GetString(KeyTraceID),
		}
		if tenant := c.GetString(KeyTenantID); tenant != "" {
			kv = append(kv, KeyTenantID, tenant)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("request served", kv...)
		case status >= 400:
			log.Warn("request served", kv...)
		default:
			log.Info("request served", kv...)
		}
	}
}
