package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"uptime": time.Since(startedAt).Round(time.Second).String(),
		})
	}
}

// ReadyHandler probes the backing services. The route cache lives in
// Postgres, so the database is load-bearing; NATS and Valkey degrade the
// service but do not break it, except a disconnected NATS which means events
// are being dropped.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	type probe struct {
		name     string
		required bool
		check    func(ctx context.Context) error
	}

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()

		probes := []probe{
			{name: "database", required: true, check: func(ctx context.Context) error {
				if deps.DB == nil {
					return errNotConfigured
				}
				return deps.DB.Ping(ctx)
			}},
			{name: "nats", check: func(ctx context.Context) error {
				if deps.NATS == nil {
					return errNotConfigured
				}
				if !deps.NATS.IsConnected() {
					return errDisconnected
				}
				return nil
			}},
			{name: "cache", check: func(ctx context.Context) error {
				if deps.Cache == nil {
					return errNotConfigured
				}
				return deps.Cache.Ping(ctx)
			}},
		}

		checks := make(map[string]string, len(probes))
		ready := true
		for _, p := range probes {
			err := p.check(ctx)
			switch {
			case err == nil:
				checks[p.name] = "ok"
			case err == errNotConfigured:
				checks[p.name] = "not configured"
				ready = ready && !p.required
			default:
				checks[p.name] = "error: " + err.Error()
				ready = ready && !p.required && err != errDisconnected
			}
		}

		status, code := "ready", fiber.StatusOK
		if !ready {
			status, code = "not ready", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}

var (
	errNotConfigured = errors.New("not configured")
	errDisconnected  = errors.New("disconnected")
)
