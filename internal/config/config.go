// internal/config/config.go
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	custom_errors "github-trends/internal/errors"
)

const dateLayout = "2006-01-02"

// Config holds all configuration for the application.
type Config struct {
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	DBURL          string `mapstructure:"DB_URL"`
	GithubToken    string `mapstructure:"GITHUB_TOKEN"`
	CronSecret     string `mapstructure:"CRON_SECRET"`
	HTTPAddr       string `mapstructure:"HTTP_ADDR"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	RequestDelay         time.Duration `mapstructure:"REQUEST_DELAY"`
	BackoffBase          time.Duration `mapstructure:"BACKOFF_BASE"`
	TransportBackoffBase time.Duration `mapstructure:"TRANSPORT_BACKOFF_BASE"`
	SearchMaxAttempts    int           `mapstructure:"SEARCH_MAX_ATTEMPTS"`
	PageSize             int           `mapstructure:"PAGE_SIZE"`

	MaxTasksPerRun   int `mapstructure:"MAX_TASKS_PER_RUN"`
	MaxPagesPerTask  int `mapstructure:"MAX_PAGES_PER_TASK"`
	TaskConcurrency  int `mapstructure:"TASK_CONCURRENCY"`
	MaxTaskFailures  int `mapstructure:"MAX_TASK_FAILURES"`
	RefreshEveryDays int `mapstructure:"REFRESH_EVERY_DAYS"`

	SeedStartDate   string `mapstructure:"SEED_START_DATE"`
	SeedMinStars    int    `mapstructure:"SEED_MIN_STARS"`
	SeedPushedAfter string `mapstructure:"SEED_PUSHED_AFTER"`
	SeedOnDiscover  bool   `mapstructure:"SEED_ON_DISCOVER"`

	TrendLookbackDays int `mapstructure:"TREND_LOOKBACK_DAYS"`

	SeedStart           time.Time  `mapstructure:"-"`
	SeedPushedAfterTime *time.Time `mapstructure:"-"`
}

var defaults = map[string]any{
	"LOG_LEVEL":              "info",
	"HTTP_ADDR":              ":8080",
	"MIGRATIONS_PATH":        "file://migrations",
	"REQUEST_DELAY":          "2100ms",
	"BACKOFF_BASE":           "1s",
	"TRANSPORT_BACKOFF_BASE": "500ms",
	"SEARCH_MAX_ATTEMPTS":    5,
	"PAGE_SIZE":              100,
	"MAX_TASKS_PER_RUN":      5,
	"MAX_PAGES_PER_TASK":     3,
	"TASK_CONCURRENCY":       1,
	"MAX_TASK_FAILURES":      5,
	"REFRESH_EVERY_DAYS":     7,
	"SEED_START_DATE":        "2024-01-01",
	"SEED_MIN_STARS":         100,
	"SEED_PUSHED_AFTER":      "",
	"SEED_ON_DISCOVER":       true,
	"TREND_LOOKBACK_DAYS":    14,
}

var requiredKeys = []string{"DB_URL", "GITHUB_TOKEN", "CRON_SECRET"}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables. Keys without a default are bound explicitly
	// so Unmarshal sees them.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range requiredKeys {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize parses derived fields and validates the result.
func (c *Config) finalize() error {
	start, err := time.Parse(dateLayout, c.SeedStartDate)
	if err != nil {
		return &custom_errors.ConfigError{Field: "SEED_START_DATE", Message: "must be in YYYY-MM-DD format"}
	}
	c.SeedStart = start

	if c.SeedPushedAfter != "" {
		pushed, err := time.Parse(dateLayout, c.SeedPushedAfter)
		if err != nil {
			return &custom_errors.ConfigError{Field: "SEED_PUSHED_AFTER", Message: "must be empty or in YYYY-MM-DD format"}
		}
		c.SeedPushedAfterTime = &pushed
	}

	// Validate required fields
	if c.DBURL == "" {
		return &custom_errors.ConfigError{Field: "DB_URL", Message: "is a required configuration field"}
	}
	if c.GithubToken == "" {
		return &custom_errors.ConfigError{Field: "GITHUB_TOKEN", Message: "is a required configuration field"}
	}
	if c.CronSecret == "" {
		return &custom_errors.ConfigError{Field: "CRON_SECRET", Message: "is a required configuration field"}
	}

	switch {
	case c.PageSize < 1 || c.PageSize > 100:
		return &custom_errors.ConfigError{Field: "PAGE_SIZE", Message: "must be between 1 and 100"}
	case c.SearchMaxAttempts < 1:
		return &custom_errors.ConfigError{Field: "SEARCH_MAX_ATTEMPTS", Message: "must be at least 1"}
	case c.MaxTasksPerRun < 1:
		return &custom_errors.ConfigError{Field: "MAX_TASKS_PER_RUN", Message: "must be at least 1"}
	case c.MaxPagesPerTask < 1:
		return &custom_errors.ConfigError{Field: "MAX_PAGES_PER_TASK", Message: "must be at least 1"}
	case c.TaskConcurrency < 1:
		return &custom_errors.ConfigError{Field: "TASK_CONCURRENCY", Message: "must be at least 1"}
	case c.RefreshEveryDays < 1:
		return &custom_errors.ConfigError{Field: "REFRESH_EVERY_DAYS", Message: "must be at least 1"}
	case c.TrendLookbackDays < 1:
		return &custom_errors.ConfigError{Field: "TREND_LOOKBACK_DAYS", Message: "must be at least 1"}
	case c.SeedMinStars < 0:
		return &custom_errors.ConfigError{Field: "SEED_MIN_STARS", Message: "must not be negative"}
	}
	return nil
}
