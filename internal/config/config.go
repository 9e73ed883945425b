// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	AppPort     string   `mapstructure:"appport"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`

	// File paths
	StoragePath  string `mapstructure:"storagepath"`
	DatabaseName string `mapstructure:"-"` // Derived from other settings

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Database settings
	DatabaseMaxOpenConns int `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int `mapstructure:"dbmaxidleconns"`

	// Summary cache settings
	RedisAddr             string `mapstructure:"redisaddr"`
	RedisPassword         string `mapstructure:"redispassword"`
	RedisDB               int    `mapstructure:"redisdb"`
	SummaryTTLSeconds     int    `mapstructure:"summaryttlseconds"`
	SummaryRefreshCron    string `mapstructure:"summaryrefreshcron"`
	SummaryRefreshEnabled bool   `mapstructure:"summaryrefreshenabled"`

	// Default query parameters
	DefaultWindowDays int `mapstructure:"defaultwindowdays"`
	DefaultTopLimit   int `mapstructure:"defaulttoplimit"`

	// Recompute queue settings
	QueueSize int `mapstructure:"queuesize"`

	// Data retention settings; 0 disables the cleanup job
	EventRetentionDays int `mapstructure:"eventretentiondays"`

	// Request timeout applied to store/cache calls on the synchronous path
	QueryTimeoutSeconds int `mapstructure:"querytimeoutseconds"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		// Set defaults
		v.SetDefault("appname", "trackline")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("storagepath", "storage")
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)
		v.SetDefault("dbmaxopenconns", 0)
		v.SetDefault("dbmaxidleconns", 0)
		v.SetDefault("redisaddr", "127.0.0.1:6379")
		v.SetDefault("redispassword", "")
		v.SetDefault("redisdb", 0)
		v.SetDefault("summaryttlseconds", 300)
		v.SetDefault("summaryrefreshcron", "*/5 * * * *")
		v.SetDefault("summaryrefreshenabled", true)
		v.SetDefault("defaultwindowdays", 7)
		v.SetDefault("defaulttoplimit", 10)
		v.SetDefault("queuesize", 64)
		v.SetDefault("eventretentiondays", 0)
		v.SetDefault("querytimeoutseconds", 30)

		// Bind environment variables
		v.BindEnv("appname", "TRACKLINE_APP_NAME")
		v.BindEnv("appport", "TRACKLINE_APP_PORT")
		v.BindEnv("environment", "TRACKLINE_ENV")
		v.BindEnv("loglevel", "TRACKLINE_LOG_LEVEL")
		v.BindEnv("storagepath", "TRACKLINE_STORAGE_PATH")
		v.BindEnv("logsdir", "TRACKLINE_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "TRACKLINE_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "TRACKLINE_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "TRACKLINE_LOGS_MAX_AGE_IN_DAYS")
		v.BindEnv("dbmaxopenconns", "TRACKLINE_DB_MAX_OPEN_CONNS")
		v.BindEnv("dbmaxidleconns", "TRACKLINE_DB_MAX_IDLE_CONNS")
		v.BindEnv("redisaddr", "TRACKLINE_REDIS_ADDR")
		v.BindEnv("redispassword", "TRACKLINE_REDIS_PASSWORD")
		v.BindEnv("redisdb", "TRACKLINE_REDIS_DB")
		v.BindEnv("summaryttlseconds", "TRACKLINE_SUMMARY_TTL_SECONDS")
		v.BindEnv("summaryrefreshcron", "TRACKLINE_SUMMARY_REFRESH_CRON")
		v.BindEnv("summaryrefreshenabled", "TRACKLINE_SUMMARY_REFRESH_ENABLED")
		v.BindEnv("defaultwindowdays", "TRACKLINE_DEFAULT_WINDOW_DAYS")
		v.BindEnv("defaulttoplimit", "TRACKLINE_DEFAULT_TOP_LIMIT")
		v.BindEnv("queuesize", "TRACKLINE_QUEUE_SIZE")
		v.BindEnv("eventretentiondays", "TRACKLINE_EVENT_RETENTION_DAYS")
		v.BindEnv("querytimeoutseconds", "TRACKLINE_QUERY_TIMEOUT_SECONDS")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}

		// Set derived values
		cfg.DatabaseName = cfg.GetDatabasePath()
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	if c.DefaultWindowDays <= 0 {
		return fmt.Errorf("defaultwindowdays must be positive, got %d", c.DefaultWindowDays)
	}
	if c.DefaultTopLimit <= 0 {
		return fmt.Errorf("defaulttoplimit must be positive, got %d", c.DefaultTopLimit)
	}
	if c.SummaryTTLSeconds <= 0 {
		return fmt.Errorf("summaryttlseconds must be positive, got %d", c.SummaryTTLSeconds)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("queuesize must be positive, got %d", c.QueueSize)
	}

	return nil
}

// GetDatabasePath returns the appropriate database path based on environment
func (c *Config) GetDatabasePath() string {
	if c.DatabaseName == "" {
		c.DatabaseName = filepath.Join(c.StoragePath,
			fmt.Sprintf("%s-%s.db", c.AppName, c.Environment))
	}
	return c.DatabaseName
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetMaxOpenConns returns the appropriate MaxOpenConns value based on environment.
// If explicitly set via env var, uses that value. Otherwise:
// - Test: 1 (required for in-memory SQLite stability)
// - Development/Production: 10 (allows concurrent reads for parallel queries)
func (c *Config) GetMaxOpenConns() int {
	if c.DatabaseMaxOpenConns > 0 {
		return c.DatabaseMaxOpenConns
	}

	if c.Environment == Test {
		return 1
	}

	return 10
}

// GetMaxIdleConns returns the appropriate MaxIdleConns value based on environment.
func (c *Config) GetMaxIdleConns() int {
	if c.DatabaseMaxIdleConns > 0 {
		return c.DatabaseMaxIdleConns
	}

	if c.Environment == Test {
		return 1
	}

	return 5
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
