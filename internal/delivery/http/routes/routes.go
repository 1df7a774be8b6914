package routes

import (
	"majormatch/internal/delivery/http/handler"
	v1 "majormatch/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	health *handler.HealthHandler
	v1     v1.Handlers
}

func NewRegistry(health *handler.HealthHandler, h v1.Handlers) *Registry {
	if health == nil {
		health = handler.NewHealthHandler()
	}
	return &Registry{health: health, v1: h}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1)
}
