package v1

import (
	"majormatch/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Majors          *handler.MajorHandler
	Recommendations *handler.RecommendationHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Majors != nil {
		h.Majors.RegisterRoutes(r)
	}
	if h.Recommendations != nil {
		h.Recommendations.RegisterRoutes(r)
	}
}
