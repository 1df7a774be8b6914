package handler

import (
	"context"
	"time"

	"majormatch/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck is one dependency reported by GET /health. Only Required checks
// can turn the service status to down.
type HealthCheck struct {
	Name     string
	Pinger   Pinger
	Required bool
}

type HealthHandler struct {
	checks  []HealthCheck
	timeout time.Duration
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	data := fiber.Map{"status": "up"}
	status := fiber.StatusOK
	if len(h.checks) > 0 {
		deps := fiber.Map{}
		for _, chk := range h.checks {
			if chk.Pinger == nil {
				continue
			}
			if err := chk.Pinger.Ping(ctx); err != nil {
				deps[chk.Name] = "down"
				if chk.Required {
					data["status"] = "down"
					status = fiber.StatusServiceUnavailable
				}
				continue
			}
			deps[chk.Name] = "up"
		}
		if len(deps) > 0 {
			data["dependencies"] = deps
		}
	}

	return response.Success(c, status, "", data)
}
