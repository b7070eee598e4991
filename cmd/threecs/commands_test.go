package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestScore(t *testing.T) {
	out, err := run(t, "score", "--culture", "7", "--competence", "4", "--commitment", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Rating:    56 / 100")
	assert.Contains(t, out, "Grade:     B (")
	assert.Contains(t, out, "Strong Contributor (strong_contributor)")
	assert.Contains(t, out, "Primary Coaching Focus")
}

func TestScoreJSON(t *testing.T) {
	out, err := run(t, "score", "--culture", "10", "--competence", "5", "--commitment", "3", "--json")
	require.NoError(t, err)

	var body struct {
		FinalRating int    `json:"finalRating"`
		Grade       string `json:"grade"`
		Guidance    struct {
			Key string `json:"key"`
		} `json:"guidance"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, 100, body.FinalRating)
	assert.Equal(t, "A+", body.Grade)
	assert.Equal(t, "high_confidence_fit", body.Guidance.Key)
}

func TestScoreRejectsOutOfRange(t *testing.T) {
	_, err := run(t, "score", "--culture", "11", "--competence", "4", "--commitment", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestScoreRequiresAllFlags(t *testing.T) {
	_, err := run(t, "score", "--culture", "7")
	assert.Error(t, err)
}

func TestMatrix(t *testing.T) {
	out, err := run(t, "matrix")
	require.NoError(t, err)

	assert.Contains(t, out, "CULTURE")
	assert.Regexp(t, regexp.MustCompile(`(?m)^10\s+5\s+3\s+100\s+A\+\s+high_confidence_fit$`), out)
	assert.Regexp(t, regexp.MustCompile(`(?m)^1\s+1\s+1\s+1\s+D\s+low_culture_low_commitment$`), out)
	assert.Regexp(t, regexp.MustCompile(`(?m)^high_confidence_fit\s+4$`), out)
	assert.Regexp(t, regexp.MustCompile(`(?m)^strong_contributor\s+4$`), out)
	assert.Regexp(t, regexp.MustCompile(`(?m)^TOTAL\s+150$`), out)
}

func TestMatrixDistributionOnly(t *testing.T) {
	out, err := run(t, "matrix", "--distribution")
	require.NoError(t, err)
	assert.NotContains(t, out, "CULTURE")
	assert.Contains(t, out, "ARCHETYPE")
}

func TestLabels(t *testing.T) {
	out, err := run(t, "labels")
	require.NoError(t, err)
	assert.Contains(t, out, "Culture")
	assert.Contains(t, out, "Exceptional — fully embodies the culture")
	assert.Contains(t, out, "Fully invested — demonstrates ownership and initiative")
	assert.Contains(t, out, "Grades")
}

func TestReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ada.pdf")
	out, err := run(t, "report", "--name", "Ada Lovelace", "--culture", "9", "--competence", "5", "--commitment", "3",
		"--assessor", "lead@example.com", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestReportRequiresName(t *testing.T) {
	_, err := run(t, "report", "--name", "  ", "--culture", "9", "--competence", "5", "--commitment", "3")
	assert.Error(t, err)
}
