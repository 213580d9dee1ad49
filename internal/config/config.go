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

// Database types
const (
	SQLiteDatabase = "sqlite"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	AppPort     string   `mapstructure:"appport"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`
	PrivateKey  string   `mapstructure:"privatekey"`
	Domain      string   `mapstructure:"domain"`

	// File paths
	DatabasePath          string `mapstructure:"storagepath"`
	DatabaseName          string `mapstructure:"-"` // Derived from other settings
	PublicDirectory       string `mapstructure:"publicdir"`
	PublicAssetsUrlPrefix string `mapstructure:"publicassetsurlprefix"`

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Database settings
	DatabaseType         string `mapstructure:"dbtype"`
	DatabaseMaxOpenConns int    `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int    `mapstructure:"dbmaxidleconns"`

	// Ads platform settings
	MetaAPIBaseURL  string `mapstructure:"metaapibaseurl"`
	MetaAccessToken string `mapstructure:"metaaccesstoken"`

	// Sync settings
	SyncIntervalSeconds int    `mapstructure:"syncintervalseconds"`
	SyncLookbackDays    int    `mapstructure:"synclookbackdays"`
	SyncWorkers         int    `mapstructure:"syncworkers"`
	SyncBreakdowns      string `mapstructure:"syncbreakdowns"`

	// Job scheduling settings
	JobIntervalSeconds int `mapstructure:"jobintervalseconds"`

	// Data retention settings
	InsightsRetentionDays int `mapstructure:"insightsretentiondays"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		v.SetDefault("appname", "adboard")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("privatekey", "88888888888888888888888888888888")
		v.SetDefault("storagepath", "storage")
		v.SetDefault("publicdir", "web/dist/assets")
		v.SetDefault("publicassetsurlprefix", "/")
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)
		v.SetDefault("dbtype", SQLiteDatabase)
		v.SetDefault("dbmaxopenconns", 0)
		v.SetDefault("dbmaxidleconns", 0)
		v.SetDefault("metaapibaseurl", "https://graph.facebook.com/v18.0")
		v.SetDefault("syncintervalseconds", 3600)
		v.SetDefault("synclookbackdays", 30)
		v.SetDefault("syncworkers", 4)
		v.SetDefault("syncbreakdowns", "")
		v.SetDefault("jobintervalseconds", 60)
		v.SetDefault("insightsretentiondays", 365)

		v.BindEnv("appname", "ADBOARD_APP_NAME")
		v.BindEnv("appport", "ADBOARD_APP_PORT")
		v.BindEnv("environment", "ADBOARD_ENV")
		v.BindEnv("loglevel", "ADBOARD_LOG_LEVEL")
		v.BindEnv("privatekey", "ADBOARD_PRIVATE_KEY")
		v.BindEnv("domain", "ADBOARD_DOMAIN")
		v.BindEnv("storagepath", "ADBOARD_STORAGE_PATH")
		v.BindEnv("publicdir", "ADBOARD_PUBLIC_DIR")
		v.BindEnv("publicassetsurlprefix", "ADBOARD_PUBLIC_ASSETS_URL_PREFIX")
		v.BindEnv("logsdir", "ADBOARD_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "ADBOARD_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "ADBOARD_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "ADBOARD_LOGS_MAX_AGE_IN_DAYS")
		v.BindEnv("dbtype", "ADBOARD_DB_TYPE")
		v.BindEnv("dbmaxopenconns", "ADBOARD_DB_MAX_OPEN_CONNS")
		v.BindEnv("dbmaxidleconns", "ADBOARD_DB_MAX_IDLE_CONNS")
		v.BindEnv("metaapibaseurl", "ADBOARD_META_API_BASE_URL")
		v.BindEnv("metaaccesstoken", "ADBOARD_META_ACCESS_TOKEN")
		v.BindEnv("syncintervalseconds", "ADBOARD_SYNC_INTERVAL_SECONDS")
		v.BindEnv("synclookbackdays", "ADBOARD_SYNC_LOOKBACK_DAYS")
		v.BindEnv("syncworkers", "ADBOARD_SYNC_WORKERS")
		v.BindEnv("syncbreakdowns", "ADBOARD_SYNC_BREAKDOWNS")
		v.BindEnv("jobintervalseconds", "ADBOARD_JOB_INTERVAL_SECONDS")
		v.BindEnv("insightsretentiondays", "ADBOARD_INSIGHTS_RETENTION_DAYS")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}

		cfg.DatabaseName = cfg.GetDatabasePath()

		// In production the private key must be explicitly set.
		defaultKey := "88888888888888888888888888888888"
		if cfg.PrivateKey == "" {
			log.Fatal("Private key is required")
		}
		if cfg.IsProduction() && cfg.PrivateKey == defaultKey {
			log.Fatal("Production requires a unique ADBOARD_PRIVATE_KEY (cannot use default)")
		}
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

	validDBTypes := map[string]bool{
		SQLiteDatabase: true,
	}
	if !validDBTypes[c.DatabaseType] {
		return fmt.Errorf("invalid database type: %s", c.DatabaseType)
	}

	if c.SyncLookbackDays <= 0 {
		return fmt.Errorf("sync lookback days must be positive, got %d", c.SyncLookbackDays)
	}
	if c.SyncWorkers <= 0 {
		return fmt.Errorf("sync workers must be positive, got %d", c.SyncWorkers)
	}

	return nil
}

// GetDatabasePath returns the appropriate database path based on environment
func (c *Config) GetDatabasePath() string {
	if c.DatabaseName == "" {
		c.DatabaseName = filepath.Join(c.DatabasePath,
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

// GetPort returns the HTTP server port (implements cartridge.Config interface).
func (c *Config) GetPort() string {
	return c.AppPort
}

// GetPublicDirectory returns the path to public/static assets (implements cartridge.Config interface).
func (c *Config) GetPublicDirectory() string {
	return c.PublicDirectory
}

// GetAssetsPrefix returns the URL prefix for static assets (implements cartridge.Config interface).
func (c *Config) GetAssetsPrefix() string {
	return c.PublicAssetsUrlPrefix
}

// GetAppName returns the application name (implements cartridge.FactoryConfig interface).
func (c *Config) GetAppName() string {
	return c.AppName
}

// DatabaseDSN returns the database connection string (implements cartridge.FactoryConfig interface).
func (c *Config) DatabaseDSN() string {
	return c.GetDatabasePath()
}

// GetSessionSecret returns the session encryption key (implements cartridge.FactoryConfig interface).
func (c *Config) GetSessionSecret() string {
	return c.PrivateKey
}

// GetMaxOpenConns returns the appropriate MaxOpenConns value based on environment.
// If explicitly set via env var, uses that value. Otherwise tests get a single
// connection for stability and everything else gets a small pool for parallel
// widget queries.
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

// GetLogLevel returns the log level as a string (implements cartridge.LogConfigProvider).
func (c *Config) GetLogLevel() string {
	return string(c.LogLevel)
}

// GetLogDirectory returns the logs directory (implements cartridge.LogConfigProvider).
func (c *Config) GetLogDirectory() string {
	return c.LogsDirectory
}

// GetLogMaxSizeMB returns the max log file size in MB (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxSizeMB() int {
	return c.LogsMaxSizeInMb
}

// GetLogMaxBackups returns the max number of log backups (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxBackups() int {
	return c.LogsMaxBackups
}

// GetLogMaxAgeDays returns the max age in days for log files (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxAgeDays() int {
	return c.LogsMaxAgeInDays
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
