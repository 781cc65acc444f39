package config

import (
	"fmt"
	"os"
	"strings"

	"invoice-dashboard-backend/internal/actions"
	"invoice-dashboard-backend/internal/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Config struct {
	DatabaseURL string
	Port        string
	CORSOrigins []string
	GinMode     string

	// What CreateInvoice does after a failed insert, see actions.CreateFailureMode.
	CreateFailureMode actions.CreateFailureMode

	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	mode, err := actions.ParseCreateFailureMode(getEnv("CREATE_FAILURE_MODE", string(actions.CreateFallthrough)))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	logDefaults := logger.DefaultConfig()
	config := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		Port:              getEnv("PORT", "8080"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		GinMode:           getEnv("GIN_MODE", "release"),
		CreateFailureMode: mode,
		LogLevel:          getEnv("LOG_LEVEL", logDefaults.Level),
		LogFormat:         getEnv("LOG_FORMAT", logDefaults.Format),
		LogTimeFormat:     getEnv("LOG_TIME_FORMAT", logDefaults.TimeFormat),
		LogOutput:         getEnv("LOG_OUTPUT", logDefaults.Output),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config,
// falling back to logger.DefaultConfig for empty fields.
func (c *Config) GetLoggerConfig() logger.LogConfig {
	lc := logger.DefaultConfig()
	if c.LogLevel != "" {
		lc.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		lc.Format = c.LogFormat
	}
	if c.LogTimeFormat != "" {
		lc.TimeFormat = c.LogTimeFormat
	}
	if c.LogOutput != "" {
		lc.Output = c.LogOutput
	}
	return lc
}

// InitDB opens the Postgres connection pool. Pool lifecycle belongs to gorm.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
