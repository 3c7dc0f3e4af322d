package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobpost-checker/internal/report"
)

func TestAnalyzeCommand_SavesTrends(t *testing.T) {
	isolateEnv(t)
	srv := newJobServer(t)
	artifact := filepath.Join(t.TempDir(), "analysis.json")

	out, err := executeCommand(t, "analyze", srv.URL+"/jobs/fresh", "--out", artifact)
	require.NoError(t, err)
	assert.Contains(t, out, "JOB POSTING ANALYSIS")
	assert.Contains(t, out, "Globex")
	assert.Contains(t, out, "Days Since: 3")
	assert.Contains(t, out, "Saved to skill trends")
	assert.FileExists(t, artifact)

	out, err = executeCommand(t, "validate", "--json", artifact)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed")

	out, err = executeCommand(t, "trends", "--limit", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "TOP TRENDING SKILLS")
	assert.Equal(t, 3, strings.Count(out, "Jobs:"))
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	isolateEnv(t)
	srv := newJobServer(t)

	_, err := executeCommand(t, "analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either a URL or --file")

	_, err = executeCommand(t, "analyze", "example.com/jobs/1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid URL")

	out, err := executeCommand(t, "analyze", srv.URL+"/jobs/missing", "--no-save")
	require.Error(t, err)
	assert.Contains(t, out, "ANALYSIS FAILED")

	_, err = executeCommand(t, "analyze", srv.URL+"/jobs/fresh", "--skills-match", "150")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--skills-match")
}

func TestAnalyzeCommand_FromFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	page := filepath.Join(dir, "posting.html")
	require.NoError(t, os.WriteFile(page, []byte(postingHTML(10)), 0644))
	outDir := filepath.Join(dir, "out")

	out, err := executeCommand(t, "analyze", "--file", page, "--url", "https://careers.globex.com/jobs/9", "--out-dir", outDir, "--no-save")
	require.NoError(t, err)
	assert.Contains(t, out, "Days Since: 10")
	assert.NotContains(t, out, "Saved to skill trends")
	assert.FileExists(t, filepath.Join(outDir, "job_posting.cleaned.txt"))
	assert.FileExists(t, filepath.Join(outDir, "job_posting.meta.json"))
}

func TestBatchCommand(t *testing.T) {
	isolateEnv(t)
	srv := newJobServer(t)
	dir := t.TempDir()
	urls := filepath.Join(dir, "urls.txt")
	require.NoError(t, os.WriteFile(urls, []byte("# watch list\n"+srv.URL+"/jobs/old\n"+srv.URL+"/jobs/missing\n"), 0644))
	summary := filepath.Join(dir, "summary.json")

	out, err := executeCommand(t, "batch", srv.URL+"/jobs/fresh", "--urls-file", urls, "--summary-out", summary)
	require.NoError(t, err)
	assert.Contains(t, out, "BATCH SUMMARY")
	assert.Contains(t, out, "Total analyzed:      3")
	assert.Contains(t, out, "Failed:              1")
	assert.Contains(t, out, "Recommended:         1")

	data, err := os.ReadFile(summary)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"successful_analyses": 2`)
}

func TestBatchCommand_NoURLs(t *testing.T) {
	isolateEnv(t)

	_, err := executeCommand(t, "batch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no URLs")
}

func TestReportCommand(t *testing.T) {
	isolateEnv(t)
	srv := newJobServer(t)
	reportDir := filepath.Join(t.TempDir(), "analytics")

	_, err := executeCommand(t, "analyze", srv.URL+"/jobs/fresh")
	require.NoError(t, err)

	out, err := executeCommand(t, "report", "--report-dir", reportDir, "--top", "10")
	require.NoError(t, err)
	assert.Contains(t, out, report.SummaryFileName)

	summary, err := os.ReadFile(filepath.Join(reportDir, report.SummaryFileName))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "kubernetes")
	assert.FileExists(t, filepath.Join(reportDir, report.CSVFileName))
}

func TestReportCommand_TelegramNeedsCredentials(t *testing.T) {
	isolateEnv(t)

	_, err := executeCommand(t, "report", "--report-dir", t.TempDir(), "--telegram")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram")
}

func TestMigrateCommand(t *testing.T) {
	dbPath := isolateEnv(t)

	out, err := executeCommand(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date")
	assert.FileExists(t, dbPath)
}

func TestIngestJobCommand_TextFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	page := filepath.Join(dir, "posting.html")
	require.NoError(t, os.WriteFile(page, []byte(postingHTML(1)), 0644))
	outDir := filepath.Join(dir, "out")

	out, err := executeCommand(t, "ingest-job", "--text-file", page, "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully ingested job posting")
	assert.Contains(t, out, "Company: Globex")

	cleaned, err := os.ReadFile(filepath.Join(outDir, "job_posting.cleaned.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(cleaned), "PostgreSQL")
	assert.NotContains(t, string(cleaned), "<p>")
}

func TestIngestJobCommand_MissingSource(t *testing.T) {
	isolateEnv(t)

	_, err := executeCommand(t, "ingest-job", "--out", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either --text-file or --url must be provided")
}

func TestValidateCommand_Failure(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"url": "https://a.example/1"}`), 0644))

	out, err := executeCommand(t, "validate", "--json", path)
	require.Error(t, err)
	assert.Contains(t, out, "Validation failed")
}

func TestScheduleCommand_RequiresURLList(t *testing.T) {
	isolateEnv(t)

	_, err := executeCommand(t, "schedule", "--spec", "*/5 * * * *")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL list is required")
}
