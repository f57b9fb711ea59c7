package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func LoggerMiddleware() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health", "/metrics"},
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
			if param.StatusCode >= 500 {
				entry.Error("HTTP Request")
			} else {
				entry.Info("HTTP Request")
			}
			return ""
		},
	})
}
