package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// getBinaryPath returns the path to the jobpost_agent binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "jobpost_agent"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}

	return binaryPath
}

// isolateEnv points storage at a temp SQLite file and clears remote backends
// that a developer .env may have set.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "skills.db")
	t.Setenv("JOBPOST_SQLITE_PATH", dbPath)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	return dbPath
}

// resetFlags restores every flag to its default so in-process runs do not leak.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCommand runs the CLI in-process and returns its stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// postingHTML is a job page posted daysAgo days before today.
func postingHTML(daysAgo int) string {
	posted := time.Now().AddDate(0, 0, -daysAgo).Format("2006-01-02")
	return `<!DOCTYPE html>
<html>
<head>
  <title>Platform Engineer at Globex</title>
  <meta property="og:site_name" content="Globex">
  <meta property="article:published_time" content="` + posted + `">
</head>
<body>
  <h1 class="job-title">Platform Engineer</h1>
  <div class="job-description">
    <p>Join the platform team building internal tooling in Go and Python for our engineers.</p>
    <p>You will run PostgreSQL and Redis on Kubernetes, and automate everything with Docker and Terraform.</p>
  </div>
</body>
</html>`
}

// newJobServer serves postingHTML at /jobs/<n> and 404 elsewhere.
func newJobServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs/fresh", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(postingHTML(3)))
	})
	mux.HandleFunc("/jobs/old", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(postingHTML(120)))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
