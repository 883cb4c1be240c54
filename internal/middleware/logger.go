package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one structured entry per request.
func RequestLogger(skipPaths ...string) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: skipPaths,
		Formatter: func(param gin.LogFormatterParams) string {
			entry := logrus.WithFields(logrus.Fields{
				"status_code": param.StatusCode,
				"latency":     param.Latency.String(),
				"client_ip":   param.ClientIP,
				"method":      param.Method,
				"path":        param.Path,
			})
			if param.ErrorMessage != "" {
				entry = entry.WithField("error", param.ErrorMessage)
			}

			switch {
			case param.StatusCode >= 500:
				entry.Error("http request")
			case param.StatusCode >= 400:
				entry.Warn("http request")
			default:
				entry.Info("http request")
			}
			return ""
		},
	})
}
