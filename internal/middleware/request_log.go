package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RequestLogger emits one structured log line per request. Health checks
// are skipped to keep probe noise out of the logs.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/health" {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			fields := logrus.Fields{
				"method":  c.Request().Method,
				"path":    c.Path(),
				"status":  c.Response().Status,
				"latency": time.Since(start).String(),
				"ip":      c.RealIP(),
			}
			if err != nil {
				logrus.WithFields(fields).WithError(err).Warn("request failed")
				return err
			}
			logrus.WithFields(fields).Info("request")
			return nil
		}
	}
}
