// internal/interfaces/http/middleware/logger.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger logs one line per request through the backend's logrus logger.
// Health probes only show up at debug level.
func Logger(logger *logrus.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		fields := logrus.Fields{
			"request_id": param.Keys[RequestIDKey],
			"method":     param.Method,
			"path":       param.Path,
			"status":     param.StatusCode,
			"latency_ms": param.Latency.Milliseconds(),
			"client_ip":  param.ClientIP,
			"bytes":      param.BodySize,
		}
		if userID, ok := param.Keys["user_id"]; ok {
			fields["user_id"] = userID
		}
		entry := logger.WithFields(fields)

		if param.ErrorMessage != "" {
			entry = entry.WithField("error", param.ErrorMessage)
		}

		switch {
		case param.Path == "/health":
			entry.Debug("Health check")
		case param.StatusCode >= 500:
			entry.Error("Request failed")
		case param.StatusCode >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request served")
		}

		return ""
	})
}
