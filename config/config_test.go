package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Upload.MaxFiles)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxFileSizeBytes)
	assert.Equal(t, []string{"jpg", "jpeg", "png", "gif", "webp"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, "Feedback", cfg.Sheets.SheetName)
	assert.Equal(t, 10, cfg.RateLimit.SubmissionsPerMinute)
	assert.False(t, cfg.Media.Configured())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SHEETS_SPREADSHEET_ID", "1aBcDeFgHiJkLmNoP")
	t.Setenv("SHEETS_SHEET_NAME", "Responses")
	t.Setenv("UPLOAD_MAX_FILES", "5")
	t.Setenv("MEDIA_ACCOUNT_ID", "acct")
	t.Setenv("MEDIA_BUCKET", "feedback-media")
	t.Setenv("MEDIA_ACCESS_KEY_ID", "key")
	t.Setenv("MEDIA_SECRET_ACCESS_KEY", "secret")
	t.Setenv("MEDIA_PUBLIC_BASE_URL", "https://media.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "1aBcDeFgHiJkLmNoP", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "Responses", cfg.Sheets.SheetName)
	assert.Equal(t, 5, cfg.Upload.MaxFiles)
	assert.True(t, cfg.Media.Configured())
}

func TestValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError string
	}{
		{
			name:        "missing spreadsheet id",
			mutate:      func(c *Config) { c.Sheets.SpreadsheetID = "" },
			expectError: "SHEETS_SPREADSHEET_ID",
		},
		{
			name:        "missing sheets api key",
			mutate:      func(c *Config) { c.Sheets.APIKey = "" },
			expectError: "SHEETS_API_KEY",
		},
		{
			name:        "missing admin api key",
			mutate:      func(c *Config) { c.Server.AdminAPIKey = "" },
			expectError: "ADMIN_API_KEY",
		},
		{
			name:   "fully configured",
			mutate: func(c *Config) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server: ServerConfig{
					Environment: EnvProduction,
					AdminAPIKey: "admin-key",
				},
				Sheets: SheetsConfig{
					SpreadsheetID: "sheet-id",
					APIKey:        "api-key",
				},
				Upload: UploadConfig{MaxFiles: 10, MaxFileSizeBytes: 1024},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRejectsBadUploadBounds(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Environment: EnvDevelopment},
		Upload: UploadConfig{MaxFiles: 0, MaxFileSizeBytes: 1024},
	}
	assert.Error(t, cfg.Validate())

	cfg.Upload.MaxFiles = 10
	cfg.Upload.MaxFileSizeBytes = 0
	assert.Error(t, cfg.Validate())
}

func TestSummaryMasksSecrets(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Environment: EnvDevelopment, Version: "1.2.3", AdminAPIKey: "hunter2hunter2"},
		Sheets: SheetsConfig{SpreadsheetID: "1aBcDeFgHiJkLmNoP", SheetName: "Feedback"},
		Upload: UploadConfig{MaxFiles: 10, MaxFileSizeBytes: 1024},
	}

	summary := cfg.Summary()
	assert.Equal(t, "1.2.3", summary["version"])
	assert.Equal(t, "true", summary["admin_guarded"])
	assert.NotContains(t, summary["spreadsheet_id"], "cDeFgHiJk")
}
