package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		errorMsg    string
	}{
		{
			name: "Success with minimal required config",
			envVars: map[string]string{
				"MARKETPLACE_API_URL": "https://api.example.com",
			},
			expectError: false,
		},
		{
			name: "Success with all config specified",
			envVars: map[string]string{
				"SERVER_HOST":                 "localhost",
				"SERVER_PORT":                 "9090",
				"MARKETPLACE_API_URL":         "https://api.example.com",
				"MARKETPLACE_TIMEOUT_SECONDS": "30",
				"LOG_LEVEL":                   "debug",
				"LOG_FORMAT":                  "console",
				"UPLOADS_S3_ENABLED":          "true",
				"UPLOADS_S3_BUCKET":           "my-bucket",
				"UPLOADS_S3_REGION":           "ap-southeast-2",
				"UPLOADS_S3_PREFIX":           "staged/",
				"SESSION_TTL_MINUTES":         "30",
				"SESSION_SWEEP_SECONDS":       "15",
			},
			expectError: false,
		},
		{
			name:        "Error - missing marketplace URL",
			envVars:     map[string]string{},
			expectError: true,
			errorMsg:    "marketplace API URL is required",
		},
		{
			name: "Error - malformed marketplace URL",
			envVars: map[string]string{
				"MARKETPLACE_API_URL": "not a url",
			},
			expectError: true,
			errorMsg:    "invalid marketplace API URL",
		},
		{
			name: "Error - invalid server port",
			envVars: map[string]string{
				"SERVER_PORT":         "99999",
				"MARKETPLACE_API_URL": "https://api.example.com",
			},
			expectError: true,
			errorMsg:    "invalid server port",
		},
		{
			name: "Error - invalid log level",
			envVars: map[string]string{
				"LOG_LEVEL":           "invalid",
				"MARKETPLACE_API_URL": "https://api.example.com",
			},
			expectError: true,
			errorMsg:    "invalid log level",
		},
		{
			name: "Error - invalid log format",
			envVars: map[string]string{
				"LOG_FORMAT":          "xml",
				"MARKETPLACE_API_URL": "https://api.example.com",
			},
			expectError: true,
			errorMsg:    "invalid log format",
		},
		{
			name: "Error - S3 enabled without bucket",
			envVars: map[string]string{
				"MARKETPLACE_API_URL": "https://api.example.com",
				"UPLOADS_S3_ENABLED":  "true",
			},
			expectError: true,
			errorMsg:    "S3 bucket is required",
		},
		{
			name: "Error - zero session TTL",
			envVars: map[string]string{
				"MARKETPLACE_API_URL": "https://api.example.com",
				"SESSION_TTL_MINUTES": "0",
			},
			expectError: true,
			errorMsg:    "session TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			cfg, err := Load()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("MARKETPLACE_API_URL", "https://api.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 20*time.Second, cfg.Upstream.Timeout())
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.False(t, cfg.Uploads.S3Enabled)
	assert.Equal(t, "data/uploads", cfg.Uploads.LocalDir)
	assert.Equal(t, 60*time.Minute, cfg.Session.TTL())
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval())
}
