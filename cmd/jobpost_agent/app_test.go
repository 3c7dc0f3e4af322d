package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobpost-checker/internal/config"
	"github.com/jonathan/jobpost-checker/internal/db"
	"github.com/jonathan/jobpost-checker/internal/fetch"
)

func TestLoadAppConfig_DefaultsWithoutFile(t *testing.T) {
	dbPath := isolateEnv(t)

	cfg, err := loadAppConfig("")
	require.NoError(t, err)
	assert.Equal(t, dbPath, cfg.SQLitePath)
	assert.Equal(t, config.DefaultTopN, cfg.TopN)
	assert.Equal(t, config.DefaultReportDir, cfg.ReportDir)
}

func TestLoadAppConfig_FileThenEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	path := filepath.Join(t.TempDir(), "jobpost.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top_n: 25\nreport_dir: out\ntelegram_chat_id: 7\n"), 0644))

	cfg, err := loadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.TopN)
	assert.Equal(t, "out", cfg.ReportDir)
	assert.Equal(t, int64(42), cfg.TelegramChatID)
	assert.Equal(t, config.DefaultFetchTimeoutSec, cfg.FetchTimeoutSec)
}

func TestLoadAppConfig_Invalid(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "jobpost.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schedule": "whenever"}`), 0644))

	_, err := loadAppConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule")

	_, err = loadAppConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	l := newLogger(&buf, "warn", false, false)
	assert.False(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, l.Enabled(context.Background(), slog.LevelWarn))

	l = newLogger(&buf, "warn", true, false)
	assert.True(t, l.Enabled(context.Background(), slog.LevelDebug))

	l = newLogger(&buf, "", false, true)
	l.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "skills.db")

	store, closeStore, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	defer closeStore()

	assert.IsType(t, &db.SQLite{}, store)
	stats, err := store.PostingStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalJobs)
}

func TestNewFetcher(t *testing.T) {
	cfg := config.Default()

	f, closeFetcher := newFetcher(context.Background(), cfg, false)
	defer closeFetcher()
	assert.IsType(t, &fetch.HTTPFetcher{}, f)

	// Unreachable Redis falls back to direct fetching.
	cfg.RedisURL = "redis://127.0.0.1:1/0"
	f, closeFetcher = newFetcher(context.Background(), cfg, false)
	defer closeFetcher()
	assert.IsType(t, &fetch.HTTPFetcher{}, f)
}
