package config

import (
	"os"
	"path/filepath"
	"strings"
)

// GetConfigDir returns the directory for the system settings file.
func GetConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "membrain")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".membrain"
	}
	return filepath.Join(home, ".config", "membrain")
}

// GetSettingsFilePath returns the path of the system settings file.
func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), "settings.toml")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates a directory with user-only access if it does not exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0700)
}
