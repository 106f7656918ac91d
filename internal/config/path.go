// Package config resolves the file locations and external-service settings
// the commands read through Viper.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appName = "pinpoint"

// ExpandPath replaces a leading ~ with the home directory and expands $VAR
// references. A ~ anywhere else is left alone.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}

// Dir is the configuration directory: $XDG_CONFIG_HOME/pinpoint, falling back
// to ~/.config/pinpoint.
func Dir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir holds the history database: $XDG_DATA_HOME/pinpoint, falling back to
// ~/.local/share/pinpoint.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, fallback, appName)
}
