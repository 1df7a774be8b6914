package app

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"majormatch/internal/config"
	"majormatch/internal/pkg/logger"
	"majormatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embeddedConfig() config.Config {
	return config.Config{
		App:     config.AppConfig{Name: "majormatch", HTTPPort: "8080", BodyLimit: 1 << 20},
		Dataset: config.DatasetConfig{Source: config.DatasetSourceEmbedded},
	}
}

func TestBootstrap_EmbeddedDataset(t *testing.T) {
	a, cleanup, err := Bootstrap(context.Background(), embeddedConfig(), logger.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, cleanup()) }()

	assert.Nil(t, a.Container.DB)
	assert.Nil(t, a.Container.Cache)

	resp, err := a.Fiber.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = a.Fiber.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/majors", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestBootstrap_MetricsEndpoint(t *testing.T) {
	a, cleanup, err := Bootstrap(context.Background(), embeddedConfig(), nil)
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	_, err = a.Container.Recommender.RecommendFromCourses(context.Background(), []string{"ACCT 2004"}, defaultSurvey(t))
	require.NoError(t, err)

	resp, err := a.Fiber.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "majormatch_recommendations_total")
}

func TestBootstrap_FileDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "majors.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"majors":[{"name":"Nursing","requirements":["NURS 1XXX"]}]}`), 0o600))

	cfg := embeddedConfig()
	cfg.Dataset = config.DatasetConfig{Source: config.DatasetSourceFile, Path: path}

	c, err := NewContainer(context.Background(), cfg, nil)
	require.NoError(t, err)
	majors, err := c.Catalog.ListMajors(context.Background())
	require.NoError(t, err)
	require.Len(t, majors, 1)
	assert.Equal(t, "Nursing", majors[0].Name)

	cfg.Dataset.Path = filepath.Join(t.TempDir(), "missing.json")
	_, err = NewContainer(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("8080")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	addr, err = ListenAddr(":9090")
	require.NoError(t, err)
	assert.Equal(t, ":9090", addr)

	_, err = ListenAddr(" ")
	assert.Error(t, err)
}

func defaultSurvey(t *testing.T) usecase.Survey {
	t.Helper()
	s, err := usecase.NewSurvey(nil, nil)
	require.NoError(t, err)
	return s
}
