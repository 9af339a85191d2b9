package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// AccessLogMiddleware emits one structured log line per request: method,
// path, status, duration, response size, client IP, and request ID. 4xx logs
// at warn, 5xx and handler errors at error.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		logger := LoggerFromCtx(c.UserContext()).With(
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes_out", len(c.Response().Body()),
			"ip", c.IP(),
		)

		switch {
		case err != nil:
			logger.Error("request failed", "error", err)
		case status >= 500:
			logger.Error("request")
		case status >= 400:
			logger.Warn("request")
		default:
			logger.Info("request")
		}

		return err
	}
}
