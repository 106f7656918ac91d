package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("PINPOINT_TEST_DIR", "/data/pinpoint")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde only", in: "~", want: home},
		{name: "tilde prefix", in: "~/history.db", want: filepath.Join(home, "history.db")},
		{name: "env var", in: "$PINPOINT_TEST_DIR/history.db", want: "/data/pinpoint/history.db"},
		{name: "absolute", in: "/tmp/x.db", want: "/tmp/x.db"},
		{name: "tilde in middle untouched", in: "/tmp/~x", want: "/tmp/~x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDirs(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
		t.Setenv("XDG_DATA_HOME", "/xdg/data")
		assert.Equal(t, "/xdg/config/pinpoint", Dir())
		assert.Equal(t, "/xdg/data/pinpoint", DataDir())
	})

	t.Run("home fallback", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("XDG_DATA_HOME", "")
		assert.Equal(t, filepath.Join(home, ".config", "pinpoint"), Dir())
		assert.Equal(t, filepath.Join(home, ".local", "share", "pinpoint"), DataDir())
	})
}

func TestLoadSheetsConfig(t *testing.T) {
	for _, key := range []string{
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(key, "")
	}

	t.Run("viper values", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		t.Setenv("PINPOINT_TEST_DIR", "/keys")
		viper.Set("sheets.service_account_path", "$PINPOINT_TEST_DIR/sa.json")
		viper.Set("sheets.spreadsheet_id", "sheet-123")
		viper.Set("sheets.sheet_title", "Dispatch")
		viper.Set("sheets.batch_size", 200)

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
		assert.Equal(t, "sheet-123", cfg.SpreadsheetID)
		assert.Equal(t, "Dispatch", cfg.SheetTitle)
		assert.Equal(t, 200, cfg.BatchSize)
	})

	t.Run("env fallback", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "client")
		t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
		t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, "client", cfg.ClientID)
		assert.Equal(t, "Verified", cfg.SheetTitle)
	})

	t.Run("no credentials", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)

		_, err := LoadSheetsConfig()
		assert.Error(t, err)
	})
}
