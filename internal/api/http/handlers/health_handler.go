package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// HealthHandler answers liveness and readiness probes for the intake pipeline.
type HealthHandler struct {
	serviceName string
	version     string
	startedAt   time.Time
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		startedAt:   time.Now(),
		postgres:    postgres,
		redis:       redis,
	}
}

// Live reports that the process is up and serving requests.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":         "ok",
		"service":        h.serviceName,
		"version":        h.version,
		"time":           time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}

// Ready verifies the ticket store and the routing prior cache are reachable.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{
		"ticket_store": pingResult(ctx, h.postgres.Ping),
		"prior_cache":  pingResult(ctx, h.redis.Ping),
	}
	for _, outcome := range checks {
		if outcome != "ok" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "DEPENDENCY_UNAVAILABLE",
					"message": "one or more dependencies unavailable",
					"details": checks,
				},
			})
		}
	}

	return c.JSON(fiber.Map{
		"status": "ready",
		"checks": checks,
	})
}

func pingResult(ctx context.Context, ping func(context.Context) error) string {
	if err := ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
