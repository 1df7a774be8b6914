package handler

import (
	"majormatch/internal/delivery/http/dto"
	"majormatch/internal/pkg/response"
	"majormatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MajorHandler struct {
	uc usecase.CatalogUsecase
}

func NewMajorHandler(uc usecase.CatalogUsecase) *MajorHandler {
	return &MajorHandler{uc: uc}
}

func (h *MajorHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/majors", h.List)
}

func (h *MajorHandler) List(c fiber.Ctx) error {
	items, err := h.uc.ListMajors(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMajorListResponse(items))
}
