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

const sampleYAML = `
title: Sample
themes:
  - id: personal
    title: Personal Information
  - id: professional
    title: Professional Experience
questions:
  - id: q1
    themeId: personal
    type: multiple-choice
    text: Are you currently employed?
    options: ["Yes", "No"]
    conditionalQuestions:
      - id: q1a
        themeId: personal
        type: open-ended
        text: What is your current job title?
        dependsOn:
          questionId: q1
          answer: "Yes"
  - id: q2
    themeId: personal
    type: open-ended
    text: What are your career goals?
`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	path := writeCatalog(t, sampleYAML)

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "personal")
	assert.Contains(t, out, "2 questions (1 conditional)")
}

func TestValidateRejectsBadCatalog(t *testing.T) {
	path := writeCatalog(t, `
themes:
  - id: t1
    title: T1
questions:
  - id: a
    themeId: t1
    type: multiple-choice
    text: No options
`)

	_, err := run(t, "validate", path)
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	path := writeCatalog(t, sampleYAML)

	tests := []struct {
		name       string
		args       []string
		questions  []string
		complete   bool
		unanswered []string
	}{
		{
			name:       "no answers",
			args:       nil,
			questions:  []string{"q1", "q2"},
			unanswered: []string{"q1", "q2"},
		},
		{
			name:       "reveals conditional",
			args:       []string{"--answer", "q1=Yes"},
			questions:  []string{"q1", "q2", "q1a"},
			unanswered: []string{"q2", "q1a"},
		},
		{
			name:      "complete without conditional",
			args:      []string{"--answer", "q1=No", "--answer", "q2="},
			questions: []string{"q1", "q2"},
			complete:  true,
		},
		{
			name:      "other theme",
			args:      []string{"--theme", "professional"},
			questions: []string{},
			complete:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"preview", path, "--json"}, tt.args...)
			out, err := run(t, args...)
			require.NoError(t, err)

			var res previewResult
			require.NoError(t, json.Unmarshal([]byte(out), &res))
			assert.Equal(t, tt.questions, res.Questions)
			assert.Equal(t, tt.complete, res.Complete)
			assert.Equal(t, tt.unanswered, res.Unanswered)
		})
	}
}

func TestPreviewText(t *testing.T) {
	path := writeCatalog(t, sampleYAML)

	out, err := run(t, "preview", path, "--answer", "q1=Yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme personal")
	assert.Contains(t, out, `[x] q1: Are you currently employed? -> "Yes"`)
	assert.Contains(t, out, "incomplete: q2, q1a")
}

func TestPreviewErrors(t *testing.T) {
	path := writeCatalog(t, sampleYAML)

	_, err := run(t, "preview", path, "--theme", "nope")
	assert.ErrorContains(t, err, "unknown theme")

	_, err = run(t, "preview", path, "--answer", "q1")
	assert.ErrorContains(t, err, "questionId=value")

	_, err = run(t, "preview", path, "--answer", "zz=1")
	assert.ErrorContains(t, err, "unknown question")
}
