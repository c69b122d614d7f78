package middleware

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"plantcare/pkg/platform/logger"
)

const HeaderRequestID = "X-Request-Id"

// RequestLogger tags each request with an id and logs it by status class.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			id := strings.TrimSpace(c.Request().Header.Get(HeaderRequestID))
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, id)

			err := next(c)
			if err != nil {
				// let echo's error handler pick the status before it is logged
				c.Error(err)
			}
			if log == nil {
				return nil
			}

			status := c.Response().Status
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			fields := []interface{}{
				"request_id", id,
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"bytes", c.Response().Size,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				fields = append(fields, "error", err)
			}
			switch {
			case status >= 500:
				log.Error("HTTP request", fields...)
			case status >= 400:
				log.Warn("HTTP request", fields...)
			default:
				log.Info("HTTP request", fields...)
			}
			return nil
		}
	}
}
