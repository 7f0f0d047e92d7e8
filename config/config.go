package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// SystemConfig is the machine-level settings file (~/.config/membrain/settings.toml).
type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

// UserConfig lives in the data directory and holds assistant preferences.
type UserConfig struct {
	UILanguage   string  `toml:"ui_language"`
	ChatLanguage string  `toml:"chat_language"`
	Temperature  float64 `toml:"temperature"`
}

// Config is the resolved runtime configuration.
type Config struct {
	DataDirectory string
	UILanguage    string
	ChatLanguage  string
	Temperature   float64
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("MEMBRAIN_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("MEMBRAIN_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - may contain prompt and response fragments
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (MEMBRAIN_DEBUG=%s) ===", os.Getenv("MEMBRAIN_DEBUG"))
}

// Load resolves the runtime configuration from the settings files, creating
// defaults on first run, and ensures the data directory exists.
func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory: "~/.local/share/membrain",
		UILanguage:    "en",
		ChatLanguage:  "English",
		Temperature:   DefaultTemperature,
	}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	cfg.DataDirectory = systemCfg.DataDirectory
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if userCfg.UILanguage != "" {
		cfg.UILanguage = userCfg.UILanguage
	}
	if userCfg.ChatLanguage != "" {
		cfg.ChatLanguage = userCfg.ChatLanguage
	}
	if userCfg.Temperature > 0 {
		cfg.Temperature = userCfg.Temperature
	}

	return cfg, nil
}
