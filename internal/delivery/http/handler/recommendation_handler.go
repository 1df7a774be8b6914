package handler

import (
	"fmt"
	"strconv"
	"strings"

	"majormatch/internal/delivery/http/dto"
	"majormatch/internal/delivery/http/middleware"
	"majormatch/internal/domain/majorfit"
	"majormatch/internal/pkg/response"
	"majormatch/internal/render"
	"majormatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	transcriptField    = "transcript"
	desiredIncomeField = "desired_income"
	formatMarkdown     = "markdown"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/recommendations")
	grp.Post("/", h.FromTranscript)
	grp.Post("/courses", h.FromCourses)
}

// FromTranscript takes a multipart form with an optional "transcript" file
// (.csv or .xlsx) plus survey fields named after each interest dimension and
// desired_income.
func (h *RecommendationHandler) FromTranscript(c fiber.Ctx) error {
	interests := map[string]int{}
	for _, d := range majorfit.Dimensions() {
		v, ok, err := formInt(c, string(d))
		if err != nil {
			return err
		}
		if ok {
			interests[string(d)] = v
		}
	}
	var desired *int
	income, ok, err := formInt(c, desiredIncomeField)
	if err != nil {
		return err
	}
	if ok {
		desired = &income
	}

	survey, err := usecase.NewSurvey(interests, desired)
	if err != nil {
		return mapUsecaseError(err)
	}

	upload := usecase.TranscriptUpload{}
	if fh, err := c.FormFile(transcriptField); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "transcript could not be opened", nil, err)
		}
		defer func() {
			_ = f.Close()
		}()
		upload = usecase.TranscriptUpload{Filename: fh.Filename, Body: f}
	}

	res, err := h.uc.RecommendFromTranscript(c.Context(), upload, survey)
	if err != nil {
		return mapUsecaseError(err)
	}
	return h.respond(c, res)
}

func (h *RecommendationHandler) FromCourses(c fiber.Ctx) error {
	var req dto.CoursesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}

	survey, err := usecase.NewSurvey(req.Interests, req.DesiredIncome)
	if err != nil {
		return mapUsecaseError(err)
	}

	courses := req.Courses
	if courses != nil {
		courses = trimCourses(courses)
	}

	res, err := h.uc.RecommendFromCourses(c.Context(), courses, survey)
	if err != nil {
		return mapUsecaseError(err)
	}
	return h.respond(c, res)
}

func (h *RecommendationHandler) respond(c fiber.Ctx, res usecase.RecommendationResult) error {
	if strings.EqualFold(c.Query("format"), formatMarkdown) {
		md, err := render.MarkdownString(res)
		if err != nil {
			return err
		}
		return response.Markdown(c, fiber.StatusOK, md)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRecommendationResultResponse(res, render.WaitingMessage))
}

func formInt(c fiber.Ctx, field string) (int, bool, error) {
	raw := strings.TrimSpace(c.FormValue(field))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, middleware.NewAppError(
			fiber.StatusBadRequest,
			fmt.Sprintf("%s must be an integer", field),
			fiber.Map{"field": field},
			err,
		)
	}
	return v, true, nil
}

// trimCourses drops blank entries. Codes are otherwise matched exactly as sent.
func trimCourses(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
