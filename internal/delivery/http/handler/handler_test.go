package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"majormatch/internal/dataset"
	"majormatch/internal/delivery/http/middleware"
	"majormatch/internal/pkg/logger"
	"majormatch/internal/render"
	"majormatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	ds  dataset.Dataset
	err error
}

func (s staticSource) LoadDataset(context.Context) (dataset.Dataset, error) {
	return s.ds, s.err
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type resultBody struct {
	State           string         `json:"state"`
	Message         string         `json:"message"`
	DesiredIncome   int            `json:"desired_income"`
	Interests       map[string]int `json:"interests"`
	CourseCount     int            `json:"course_count"`
	Recommendations []struct {
		Major             string   `json:"major"`
		CompletionPercent int      `json:"completion_percent"`
		EstimatedSalary   *int     `json:"estimated_salary"`
		Remaining         []string `json:"remaining"`
	} `json:"recommendations"`
}

func newApp(t *testing.T, src usecase.DatasetSource) *fiber.App {
	t.Helper()
	log := logger.NewTestLogger(t)

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
	NewHealthHandler().RegisterRoutes(app)

	v1 := app.Group("/api/v1")
	NewMajorHandler(usecase.NewCatalogUsecase(src, log)).RegisterRoutes(v1)
	NewRecommendationHandler(usecase.NewRecommender(src, log)).RegisterRoutes(v1)
	return app
}

func defaultApp(t *testing.T) *fiber.App {
	ds, err := dataset.Default()
	require.NoError(t, err)
	return newApp(t, staticSource{ds: ds})
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var env envelope
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func multipartRequest(t *testing.T, target string, fields map[string]string, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile(transcriptField, filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, target, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, target string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, target, bytes.NewReader(b))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestHealth(t *testing.T) {
	resp, env := do(t, defaultApp(t), httptest.NewRequest(fiber.MethodGet, "/health", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", env.Message)
	assert.JSONEq(t, `{"status":"up"}`, string(env.Data))
}

type pingStub struct{ err error }

func (p pingStub) Ping(context.Context) error { return p.err }

func TestHealth_Dependencies(t *testing.T) {
	app := fiber.New()
	NewHealthHandler(
		HealthCheck{Name: "postgres", Pinger: pingStub{err: errors.New("refused")}, Required: true},
		HealthCheck{Name: "redis", Pinger: pingStub{}},
	).RegisterRoutes(app)

	resp, env := do(t, app, httptest.NewRequest(fiber.MethodGet, "/health", nil))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `{"status":"down","dependencies":{"postgres":"down","redis":"up"}}`, string(env.Data))

	app = fiber.New()
	NewHealthHandler(HealthCheck{Name: "redis", Pinger: pingStub{err: errors.New("refused")}}).RegisterRoutes(app)
	resp, env = do(t, app, httptest.NewRequest(fiber.MethodGet, "/health", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"up","dependencies":{"redis":"down"}}`, string(env.Data))
}

func TestMajors_List(t *testing.T) {
	resp, env := do(t, defaultApp(t), httptest.NewRequest(fiber.MethodGet, "/api/v1/majors", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var majors []struct {
		Name            string             `json:"name"`
		EstimatedIncome *int               `json:"estimated_income"`
		InterestWeights map[string]float64 `json:"interest_weights"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &majors))
	require.Len(t, majors, 8)
	assert.Equal(t, "Accounting", majors[0].Name)
	assert.Equal(t, 0.4, majors[0].InterestWeights["business"])
	assert.Equal(t, "Biology", majors[7].Name)
	assert.Nil(t, majors[7].EstimatedIncome)
}

func TestMajors_DatasetDown(t *testing.T) {
	app := newApp(t, staticSource{err: errors.New("dial tcp: refused")})
	resp, env := do(t, app, httptest.NewRequest(fiber.MethodGet, "/api/v1/majors", nil))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "service unavailable", env.Message)
}

func TestRecommendations_Transcript(t *testing.T) {
	req := multipartRequest(t, "/api/v1/recommendations",
		map[string]string{"numbers": "10", "business": "10", "desired_income": "75000"},
		"transcript.csv",
		"Term,Course,Grade\nF23,ACCT 2004,A\nF23,ACCT 2013,B\nS24,MATH 1203,A\n",
	)
	resp, env := do(t, defaultApp(t), req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body resultBody
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "ready", body.State)
	assert.Equal(t, 3, body.CourseCount)
	assert.Equal(t, 75000, body.DesiredIncome)
	assert.Equal(t, 10, body.Interests["numbers"])
	assert.Equal(t, 5, body.Interests["tech"])
	require.Len(t, body.Recommendations, 3)

	completion := map[string]int{}
	for _, r := range body.Recommendations {
		completion[r.Major] = r.CompletionPercent
	}
	assert.Equal(t, map[string]int{
		"Accounting":              50,
		"Business Administration": 40,
		"Computer Science":        20,
	}, completion)
}

func TestRecommendations_NoTranscriptWaits(t *testing.T) {
	req := multipartRequest(t, "/api/v1/recommendations", map[string]string{"tech": "7"}, "", "")
	resp, env := do(t, defaultApp(t), req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body resultBody
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "waiting_for_input", body.State)
	assert.Equal(t, render.WaitingMessage, body.Message)
	assert.Empty(t, body.Recommendations)
}

func TestRecommendations_MissingCourseColumnWaits(t *testing.T) {
	req := multipartRequest(t, "/api/v1/recommendations", nil, "t.csv", "Code\nACCT 2004\n")
	_, env := do(t, defaultApp(t), req)

	var body resultBody
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "waiting_for_input", body.State)
}

func TestRecommendations_InvalidSurvey(t *testing.T) {
	cases := map[string]map[string]string{
		"out of range":   {"numbers": "11"},
		"not a number":   {"people": "lots"},
		"income too low": {"desired_income": "1000"},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			req := multipartRequest(t, "/api/v1/recommendations", fields, "t.csv", "Course\nACCT 2004\n")
			resp, env := do(t, defaultApp(t), req)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, fiber.StatusBadRequest, env.Status)
		})
	}
}

func TestRecommendations_Markdown(t *testing.T) {
	req := multipartRequest(t, "/api/v1/recommendations?format=markdown", nil, "t.csv", "Course\nACCT 2004\n")
	resp, err := defaultApp(t).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/markdown")
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "# Your Recommended Majors")
	assert.Contains(t, string(b), "<details>")
}

func TestRecommendations_Courses(t *testing.T) {
	req := jsonRequest(t, "/api/v1/recommendations/courses", map[string]any{
		"courses":        []string{"CSCE 2004", "CSCE 2014", "MATH 2554", "ENGL 1013", " "},
		"interests":      map[string]int{"tech": 10, "numbers": 10},
		"desired_income": 90000,
	})
	resp, env := do(t, defaultApp(t), req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body resultBody
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "ready", body.State)
	assert.Equal(t, 4, body.CourseCount)

	var majors []string
	for _, r := range body.Recommendations {
		majors = append(majors, r.Major)
	}
	assert.Contains(t, majors, "Computer Science")
}

func TestRecommendations_CoursesOmittedWaits(t *testing.T) {
	req := jsonRequest(t, "/api/v1/recommendations/courses", map[string]any{"interests": map[string]int{}})
	_, env := do(t, defaultApp(t), req)

	var body resultBody
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "waiting_for_input", body.State)
	assert.Equal(t, 60000, body.DesiredIncome)
}

func TestRecommendations_CoursesBadInput(t *testing.T) {
	req := jsonRequest(t, "/api/v1/recommendations/courses", map[string]any{
		"courses":   []string{},
		"interests": map[string]int{"sports": 4},
	})
	resp, _ := do(t, defaultApp(t), req)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	bad := httptest.NewRequest(fiber.MethodPost, "/api/v1/recommendations/courses", strings.NewReader("{not json"))
	bad.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, _ = do(t, defaultApp(t), bad)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
