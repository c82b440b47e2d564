// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skylark-app/feedback-backend/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT"`
	Port           string      `mapstructure:"PORT"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS"`
	Version        string      `mapstructure:"VERSION"`
	// AdminAPIKey guards the /api/admin routes. Empty disables the guard,
	// which is only acceptable in development.
	AdminAPIKey string `mapstructure:"ADMIN_API_KEY"`
}

// MediaConfig holds credentials for the R2 (S3-compatible) media bucket.
type MediaConfig struct {
	AccountID       string `mapstructure:"ACCOUNT_ID"`
	Bucket          string `mapstructure:"BUCKET"`
	AccessKeyID     string `mapstructure:"ACCESS_KEY_ID"`
	SecretAccessKey string `mapstructure:"SECRET_ACCESS_KEY"`
	// PublicBaseURL is the CDN domain the bucket is served from,
	// e.g. https://media.example.com
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`
}

// Configured reports whether the media integration has everything it
// needs to accept uploads.
func (c *MediaConfig) Configured() bool {
	return c.AccountID != "" && c.Bucket != "" && c.AccessKeyID != "" &&
		c.SecretAccessKey != "" && c.PublicBaseURL != ""
}

// SheetsConfig holds connection details for the spreadsheet record store.
type SheetsConfig struct {
	BaseURL       string `mapstructure:"BASE_URL"`
	SpreadsheetID string `mapstructure:"SPREADSHEET_ID"`
	SheetName     string `mapstructure:"SHEET_NAME"`
	APIKey        string `mapstructure:"API_KEY"`
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS"`
	Password string `mapstructure:"PASSWORD"`
	DB       int    `mapstructure:"DB"`
	UseTLS   bool   `mapstructure:"USE_TLS"`
}

// RateLimitConfig controls the feedback submission rate limiter.
type RateLimitConfig struct {
	SubmissionsPerMinute int `mapstructure:"SUBMISSIONS_PER_MINUTE"`
	WindowSeconds        int `mapstructure:"WINDOW_SECONDS"`
}

// UploadConfig bounds feedback attachments before they reach the pipeline.
type UploadConfig struct {
	MaxFiles          int      `mapstructure:"MAX_FILES"`
	MaxFileSizeBytes  int64    `mapstructure:"MAX_FILE_SIZE_BYTES"`
	AllowedExtensions []string `mapstructure:"ALLOWED_EXTENSIONS"`
}

// IconsConfig seeds the icon registry's bootstrap default.
type IconsConfig struct {
	DefaultName string `mapstructure:"DEFAULT_NAME"`
	DefaultURL  string `mapstructure:"DEFAULT_URL"`
}

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER"`
	Media     MediaConfig     `mapstructure:"MEDIA"`
	Sheets    SheetsConfig    `mapstructure:"SHEETS"`
	Redis     RedisConfig     `mapstructure:"REDIS"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT"`
	Upload    UploadConfig    `mapstructure:"UPLOAD"`
	Icons     IconsConfig     `mapstructure:"ICONS"`
	LogLevel  string          `mapstructure:"LOG_LEVEL"`
}

// bindEnvVars binds viper keys to environment variable names, failing fast
// on programming errors in the binding table.
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[1], err)
		}
	}
	return nil
}

// LoadConfig reads configuration from the environment, applies defaults,
// and validates the result.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SHEETS.BASE_URL", "https://sheets.googleapis.com")
	v.SetDefault("SHEETS.SHEET_NAME", "Feedback")
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("RATE_LIMIT.SUBMISSIONS_PER_MINUTE", 10)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 60)
	v.SetDefault("UPLOAD.MAX_FILES", 10)
	v.SetDefault("UPLOAD.MAX_FILE_SIZE_BYTES", 10*1024*1024)
	v.SetDefault("UPLOAD.ALLOWED_EXTENSIONS", []string{"jpg", "jpeg", "png", "gif", "webp"})
	v.SetDefault("ICONS.DEFAULT_NAME", "Default")
	v.SetDefault("ICONS.DEFAULT_URL", "")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.ADMIN_API_KEY", "ADMIN_API_KEY"},
		{"MEDIA.ACCOUNT_ID", "MEDIA_ACCOUNT_ID"},
		{"MEDIA.BUCKET", "MEDIA_BUCKET"},
		{"MEDIA.ACCESS_KEY_ID", "MEDIA_ACCESS_KEY_ID"},
		{"MEDIA.SECRET_ACCESS_KEY", "MEDIA_SECRET_ACCESS_KEY"},
		{"MEDIA.PUBLIC_BASE_URL", "MEDIA_PUBLIC_BASE_URL"},
		{"SHEETS.BASE_URL", "SHEETS_BASE_URL"},
		{"SHEETS.SPREADSHEET_ID", "SHEETS_SPREADSHEET_ID"},
		{"SHEETS.SHEET_NAME", "SHEETS_SHEET_NAME"},
		{"SHEETS.API_KEY", "SHEETS_API_KEY"},
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		{"RATE_LIMIT.SUBMISSIONS_PER_MINUTE", "RATE_LIMIT_SUBMISSIONS_PER_MINUTE"},
		{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
		{"UPLOAD.MAX_FILES", "UPLOAD_MAX_FILES"},
		{"UPLOAD.MAX_FILE_SIZE_BYTES", "UPLOAD_MAX_FILE_SIZE_BYTES"},
		{"UPLOAD.ALLOWED_EXTENSIONS", "UPLOAD_ALLOWED_EXTENSIONS"},
		{"ICONS.DEFAULT_NAME", "ICONS_DEFAULT_NAME"},
		{"ICONS.DEFAULT_URL", "ICONS_DEFAULT_URL"},
		{"LOG_LEVEL", "LOG_LEVEL"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"spreadsheet_id", logger.MaskSensitiveString(cfg.Sheets.SpreadsheetID, 4, 4),
		"media_bucket", cfg.Media.Bucket,
		"media_configured", cfg.Media.Configured(),
	)

	return &cfg, nil
}

// Validate checks configuration invariants. Production tightens the rules:
// the record store must be addressed and the admin surface must be guarded.
func (c *Config) Validate() error {
	if c.Server.Environment != EnvDevelopment && c.Server.Environment != EnvProduction {
		return fmt.Errorf("invalid environment: %s", c.Server.Environment)
	}
	if c.Upload.MaxFiles <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILES must be positive, got %d", c.Upload.MaxFiles)
	}
	if c.Upload.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILE_SIZE_BYTES must be positive, got %d", c.Upload.MaxFileSizeBytes)
	}

	if c.Server.Environment == EnvProduction {
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("SHEETS_SPREADSHEET_ID is required in production")
		}
		if c.Sheets.APIKey == "" {
			return fmt.Errorf("SHEETS_API_KEY is required in production")
		}
		if c.Server.AdminAPIKey == "" {
			return fmt.Errorf("ADMIN_API_KEY is required in production")
		}
	}

	return nil
}

// Summary returns a client-safe snapshot of the configuration for the
// health endpoint. Secrets are masked, never echoed.
func (c *Config) Summary() map[string]string {
	return map[string]string{
		"environment":      string(c.Server.Environment),
		"version":          c.Server.Version,
		"sheet_name":       c.Sheets.SheetName,
		"spreadsheet_id":   logger.MaskSensitiveString(c.Sheets.SpreadsheetID, 4, 4),
		"media_bucket":     c.Media.Bucket,
		"media_configured": strconv.FormatBool(c.Media.Configured()),
		"max_files":        strconv.Itoa(c.Upload.MaxFiles),
		"max_file_bytes":   strconv.FormatInt(c.Upload.MaxFileSizeBytes, 10),
		"admin_guarded":    strconv.FormatBool(c.Server.AdminAPIKey != ""),
	}
}
