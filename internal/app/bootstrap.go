package app

import (
	"context"
	"fmt"
	"strings"

	"majormatch/internal/config"
	"majormatch/internal/delivery/http/handler"
	"majormatch/internal/delivery/http/middleware"
	"majormatch/internal/delivery/http/routes"
	v1 "majormatch/internal/delivery/http/routes/v1"
	"majormatch/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	cfg := c.Config
	f := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimit,
	})

	registerGlobalMiddleware(f, c.Log)
	routes.NewRegistry(healthHandler(c), v1.Handlers{
		Majors:          handler.NewMajorHandler(c.Catalog),
		Recommendations: handler.NewRecommendationHandler(c.Recommender),
	}).Register(f)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(ctx context.Context, cfg config.Config, log logger.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log logger.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func healthHandler(c *Container) *handler.HealthHandler {
	var checks []handler.HealthCheck
	if c.DB != nil {
		checks = append(checks, handler.HealthCheck{Name: "postgres", Pinger: c.DB, Required: true})
	}
	if c.Cache != nil {
		checks = append(checks, handler.HealthCheck{Name: "redis", Pinger: c.Cache})
	}
	return handler.NewHealthHandler(checks...)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
