package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := func(mutate func(*Config)) Config {
		c := DefaultConfig()
		c.ClientID = "client"
		c.ClientSecret = "secret"
		c.RefreshToken = "token"
		mutate(&c)
		return c
	}

	tests := []struct {
		name   string
		errMsg string
		config Config
	}{
		{name: "valid oauth config", config: valid(func(*Config) {})},
		{
			name: "valid service account config",
			config: valid(func(c *Config) {
				c.ClientID, c.ClientSecret, c.RefreshToken = "", "", ""
				c.ServiceAccountPath = "/path/to/key.json"
			}),
		},
		{
			name:   "partial oauth credentials",
			config: valid(func(c *Config) { c.ClientSecret = "" }),
			errMsg: "no authentication method configured",
		},
		{
			name:   "multiple auth methods",
			config: valid(func(c *Config) { c.ServiceAccountPath = "/path/to/key.json" }),
			errMsg: "multiple authentication methods configured",
		},
		{
			name:   "missing sheet title",
			config: valid(func(c *Config) { c.SheetTitle = "" }),
			errMsg: "sheet title is required",
		},
		{
			name:   "invalid batch size",
			config: valid(func(c *Config) { c.BatchSize = 0 }),
			errMsg: "batch size must be positive",
		},
		{
			name:   "negative retry attempts",
			config: valid(func(c *Config) { c.RetryAttempts = -1 }),
			errMsg: "retry attempts cannot be negative",
		},
		{
			name:   "negative retry delay",
			config: valid(func(c *Config) { c.RetryDelay = -time.Second }),
			errMsg: "retry delay cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	keys := []string{
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SPREADSHEET_NAME",
	}

	tests := []struct {
		envVars map[string]string
		preset  Config
		check   func(t *testing.T, c Config)
		name    string
		wantErr bool
	}{
		{
			name: "oauth credentials",
			envVars: map[string]string{
				"GOOGLE_SHEETS_CLIENT_ID":        "test-client",
				"GOOGLE_SHEETS_CLIENT_SECRET":    "test-secret",
				"GOOGLE_SHEETS_REFRESH_TOKEN":    "test-token",
				"GOOGLE_SHEETS_SPREADSHEET_ID":   "test-id",
				"GOOGLE_SHEETS_SPREADSHEET_NAME": "Dispatch Review",
			},
			check: func(t *testing.T, c Config) {
				t.Helper()
				assert.Equal(t, "test-client", c.ClientID)
				assert.Equal(t, "test-secret", c.ClientSecret)
				assert.Equal(t, "test-token", c.RefreshToken)
				assert.Equal(t, "test-id", c.SpreadsheetID)
				assert.Equal(t, "Dispatch Review", c.SpreadsheetName)
			},
		},
		{
			name:    "service account path",
			envVars: map[string]string{"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH": "/path/to/key.json"},
			check: func(t *testing.T, c Config) {
				t.Helper()
				assert.Equal(t, "/path/to/key.json", c.ServiceAccountPath)
				assert.Equal(t, "Verified Addresses", c.SpreadsheetName)
			},
		},
		{
			name:    "configured values win over env",
			envVars: map[string]string{"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH": "/env/key.json"},
			preset:  Config{ServiceAccountPath: "/config/key.json"},
			check: func(t *testing.T, c Config) {
				t.Helper()
				assert.Equal(t, "/config/key.json", c.ServiceAccountPath)
			},
		},
		{
			name:    "missing credentials",
			envVars: map[string]string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range keys {
				t.Setenv(key, "")
			}
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			config := DefaultConfig()
			if tt.preset.ServiceAccountPath != "" {
				config.ServiceAccountPath = tt.preset.ServiceAccountPath
			}
			err := config.LoadFromEnv()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, config)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.True(t, config.EnableFormatting)
	assert.Equal(t, "Asia/Kolkata", config.TimeZone)
	assert.Equal(t, "Verified", config.SheetTitle)
	assert.Equal(t, 500, config.BatchSize)
	assert.Equal(t, 3, config.RetryAttempts)
	assert.Equal(t, time.Second, config.RetryDelay)
}
