// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Defaults applied by MergeWithDefaults and Default.
const (
	DefaultSQLitePath      = "job_skills.db"
	DefaultFetchTimeoutSec = 30
	DefaultTopN            = 10
	DefaultReportDir       = "analytics"
	DefaultCacheTTL        = 24 * time.Hour
	DefaultSchedule        = "0 9 * * *"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Storage
	SQLitePath  string `json:"sqlite_path,omitempty" yaml:"sqlite_path"`                                    // Local SQLite database file
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url" validate:"omitempty,url"` // PostgreSQL connection URL, wins over sqlite_path

	// Fetching
	RedisURL        string `json:"redis_url,omitempty" yaml:"redis_url" validate:"omitempty,url"` // Page cache; empty disables caching
	CacheTTL        string `json:"cache_ttl,omitempty" yaml:"cache_ttl"`                          // Go duration, e.g. "12h"
	FetchTimeoutSec int    `json:"fetch_timeout_sec,omitempty" yaml:"fetch_timeout_sec" validate:"gte=0,lte=600"`
	UserAgent       string `json:"user_agent,omitempty" yaml:"user_agent"`

	// Reporting
	TopN           int    `json:"top_n,omitempty" yaml:"top_n" validate:"gte=0,lte=1000"`
	ReportDir      string `json:"report_dir,omitempty" yaml:"report_dir"`
	TelegramToken  string `json:"telegram_token,omitempty" yaml:"telegram_token"`
	TelegramChatID int64  `json:"telegram_chat_id,omitempty" yaml:"telegram_chat_id"`

	// Scheduling
	Schedule string `json:"schedule,omitempty" yaml:"schedule"`   // Standard 5-field cron spec
	URLsFile string `json:"urls_file,omitempty" yaml:"urls_file"` // One URL per line

	// Behavior
	LogLevel              string   `json:"log_level,omitempty" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	SkillsMatchPercentage *float64 `json:"skills_match_percentage,omitempty" yaml:"skills_match_percentage" validate:"omitempty,gte=0,lte=100"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SQLitePath:      DefaultSQLitePath,
		FetchTimeoutSec: DefaultFetchTimeoutSec,
		TopN:            DefaultTopN,
		ReportDir:       DefaultReportDir,
		CacheTTL:        DefaultCacheTTL.String(),
		Schedule:        DefaultSchedule,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables. Call after godotenv.Load.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("JOBPOST_SQLITE_PATH"); v != "" {
		c.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.CacheTTL != "" {
		ttl, err := time.ParseDuration(c.CacheTTL)
		if err != nil {
			return fmt.Errorf("config error: 'cache_ttl' is not a duration: %w", err)
		}
		if ttl <= 0 {
			return fmt.Errorf("config error: 'cache_ttl' must be positive")
		}
	}

	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("config error: invalid 'schedule': %w", err)
		}
	}

	if c.URLsFile != "" {
		if _, err := os.Stat(c.URLsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: urls file not found: %s", c.URLsFile)
		}
	}

	return nil
}

// CacheTTLDuration returns the parsed cache TTL, or DefaultCacheTTL when unset or invalid.
func (c *Config) CacheTTLDuration() time.Duration {
	if ttl, err := time.ParseDuration(c.CacheTTL); err == nil && ttl > 0 {
		return ttl
	}
	return DefaultCacheTTL
}

// FetchTimeout returns the fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	if c.FetchTimeoutSec <= 0 {
		return DefaultFetchTimeoutSec * time.Second
	}
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.CacheTTL == "" {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}
	if result.ReportDir == "" {
		result.ReportDir = defaults.ReportDir
	}
	if result.TelegramToken == "" {
		result.TelegramToken = defaults.TelegramToken
	}
	if result.Schedule == "" {
		result.Schedule = defaults.Schedule
	}
	if result.URLsFile == "" {
		result.URLsFile = defaults.URLsFile
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Numeric fields: use default if zero
	if result.FetchTimeoutSec == 0 {
		result.FetchTimeoutSec = defaults.FetchTimeoutSec
	}
	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}
	if result.TelegramChatID == 0 {
		result.TelegramChatID = defaults.TelegramChatID
	}
	if result.SkillsMatchPercentage == nil {
		result.SkillsMatchPercentage = defaults.SkillsMatchPercentage
	}

	return result
}
