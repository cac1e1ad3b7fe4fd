package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/profiles"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const sampleResume = "Jane Doe\njane@example.com\n6 years of experience with Python, SQL, Git and Docker.\nBachelor degree in Computer Science."

func writeResume(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAnalyzeFiles_Text(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	path := writeResume(t, t.TempDir(), "jane.txt", sampleResume)

	var out, errOut bytes.Buffer
	err := analyzeFiles(context.Background(), a.analyzer, []string{path},
		analyzeOptions{ProfileID: profiles.SoftwareEngineerID, Verbose: true}, &out, &errOut)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "RESUME SIGNALS")
	assert.Contains(t, out.String(), "MATCH SCORE")
	assert.Contains(t, out.String(), "jane@example.com")
	assert.Contains(t, errOut.String(), "[jane.txt] extract:")
	assert.Contains(t, errOut.String(), "[jane.txt] score:")
}

func TestAnalyzeFiles_JSONSingle(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	path := writeResume(t, t.TempDir(), "jane.txt", sampleResume)

	var out, errOut bytes.Buffer
	err := analyzeFiles(context.Background(), a.analyzer, []string{path},
		analyzeOptions{ProfileID: profiles.DataScientistID, JSON: true}, &out, &errOut)
	require.NoError(t, err)

	var result types.MatchResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "jane.txt", result.Filename)
	assert.Equal(t, "Data Scientist", result.JobProfile)
	require.NotNil(t, result.MatchScore)
	require.NotNil(t, result.ExperienceYears)
	assert.Equal(t, 6.0, *result.ExperienceYears)
	assert.Empty(t, errOut.String())
}

func TestAnalyzeFiles_JSONBatchReportsFailures(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	dir := t.TempDir()
	good := writeResume(t, dir, "good.txt", sampleResume)
	blank := writeResume(t, dir, "blank.txt", "   ")
	rtf := writeResume(t, dir, "cv.rtf", "{\\rtf1}")

	var out, errOut bytes.Buffer
	err := analyzeFiles(context.Background(), a.analyzer, []string{good, blank, rtf},
		analyzeOptions{JSON: true}, &out, &errOut)
	assert.ErrorContains(t, err, "2 of 3 resumes could not be analyzed")

	var entries []batchEntry
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	require.Len(t, entries, 3)

	assert.Equal(t, "good.txt", entries[0].Filename)
	assert.NotNil(t, entries[0].Result)
	assert.Empty(t, entries[0].Error)

	assert.Equal(t, "blank.txt", entries[1].Filename)
	assert.Nil(t, entries[1].Result)
	assert.Contains(t, entries[1].Error, "Could not extract text")

	assert.Contains(t, entries[2].Error, "unsupported document format")
}

func TestAnalyzeFiles_SingleFailureReturnsCause(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	path := writeResume(t, t.TempDir(), "cv.txt", sampleResume)

	var out, errOut bytes.Buffer
	err := analyzeFiles(context.Background(), a.analyzer, []string{path},
		analyzeOptions{ProfileID: "nope"}, &out, &errOut)

	var notFound *profiles.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Empty(t, out.String())
}

func TestAnalyzeFiles_MissingFile(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	var out, errOut bytes.Buffer
	err := analyzeFiles(context.Background(), a.analyzer, []string{filepath.Join(t.TempDir(), "missing.pdf")},
		analyzeOptions{}, &out, &errOut)
	assert.ErrorContains(t, err, "failed to read")
}
