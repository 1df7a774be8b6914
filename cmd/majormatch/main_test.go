package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp()
	a.Writer = &out
	a.ErrWriter = &out
	full := append([]string{"majormatch", "--config", t.TempDir(), "--log-level", "error"}, args...)
	err := a.Run(full)
	return out.String(), err
}

func writeTranscript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.csv")
	body := "Term,Course,Grade\nFall,ACCT 2004,A\nFall,ACCT 2013,B\nSpring,ECON 2003,A\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRecommend_Markdown(t *testing.T) {
	out, err := runCLI(t, "recommend", "--transcript", writeTranscript(t), "--numbers", "9", "--business", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "# Your Recommended Majors")
	assert.Contains(t, out, "## 1.")
	assert.Contains(t, out, "Completed")
}

func TestRecommend_JSON(t *testing.T) {
	out, err := runCLI(t, "recommend", "--transcript", writeTranscript(t), "--format", "json", "--income", "70000")
	require.NoError(t, err)

	var body struct {
		State           string           `json:"state"`
		DesiredIncome   int              `json:"desired_income"`
		CourseCount     int              `json:"course_count"`
		Recommendations []map[string]any `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "ready", body.State)
	assert.Equal(t, 70000, body.DesiredIncome)
	assert.Equal(t, 3, body.CourseCount)
	assert.NotEmpty(t, body.Recommendations)
}

func TestRecommend_WithoutTranscriptWaits(t *testing.T) {
	out, err := runCLI(t, "recommend")
	require.NoError(t, err)
	assert.Contains(t, out, "Upload a transcript to see major recommendations.")
}

func TestRecommend_RejectsOutOfRangeInput(t *testing.T) {
	_, err := runCLI(t, "recommend", "--income", "1000")
	assert.Error(t, err)

	_, err = runCLI(t, "recommend", "--tech", "11")
	assert.Error(t, err)

	_, err = runCLI(t, "recommend", "--format", "yaml")
	assert.Error(t, err)
}

func TestMajors_ListsCatalog(t *testing.T) {
	out, err := runCLI(t, "majors")
	require.NoError(t, err)
	assert.Contains(t, out, "MAJOR")
	assert.Contains(t, out, "Accounting")

	path := filepath.Join(t.TempDir(), "majors.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"majors":[{"name":"Nursing","requirements":["NURS 1XXX"]}]}`), 0o600))
	out, err = runCLI(t, "majors", "--dataset", path, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Nursing"`)
	assert.NotContains(t, out, "Accounting")
}

func TestDatasetForSeed(t *testing.T) {
	ds, err := datasetForSeed("")
	require.NoError(t, err)
	assert.NotEmpty(t, ds.Majors)

	_, err = datasetForSeed(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
