package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// UserConfigFileName is the TOML config file for user preferences
const UserConfigFileName = "config.toml"

const (
	// HomeEnv overrides the directory holding config.toml and logs.
	HomeEnv = "MCP_EASY_COPY_HOME"
	// DirName is the default directory under the user's home.
	DirName = ".mcp-easy-copy"
)

// UserConfig represents user-facing configuration in TOML format
type UserConfig struct {
	// Desktop controls where the desktop configuration file is searched
	Desktop DesktopSettings `toml:"desktop"`

	// Logs defines diagnostic logging settings
	Logs LogSettings `toml:"logs"`

	// Watch defines config file change notifications
	Watch WatchSettings `toml:"watch"`
}

// DesktopSettings defines additional desktop config candidates.
type DesktopSettings struct {
	// ConfigPaths are searched before the built-in per-OS locations, in order.
	// A leading ~ is expanded to the home directory.
	ConfigPaths []string `toml:"config_paths"`
}

// LogSettings defines log output configuration
type LogSettings struct {
	// Level is "debug", "info", "warn" or "error" (default: "info")
	Level string `toml:"level"`

	// Format of the log file, "json" or "text" (default: "json")
	Format string `toml:"format"`

	// Dir enables a rotated log file in this directory (default: disabled)
	Dir string `toml:"dir"`

	// MaxSizeMB is the size in MB before rotation (default: 10)
	MaxSizeMB int `toml:"max_size_mb"`

	// MaxBackups is the number of rotated files to keep (default: 5)
	MaxBackups int `toml:"max_backups"`

	// MaxAgeDays is days to keep rotated files (default: 10)
	MaxAgeDays int `toml:"max_age_days"`

	// Compress rotated files (default: false)
	Compress bool `toml:"compress"`
}

// WatchSettings defines the config file watcher.
type WatchSettings struct {
	// Enabled sends resource update notifications when the desktop config
	// changes. A pointer so that an absent key means "default on".
	Enabled *bool `toml:"enabled"`

	// DebounceMS coalesces bursts of file events (default: 100)
	DebounceMS int `toml:"debounce_ms"`
}

// Default returns the configuration used when no file exists.
func Default() *UserConfig {
	return &UserConfig{
		Logs: LogSettings{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 10,
		},
		Watch: WatchSettings{DebounceMS: 100},
	}
}

// WatchEnabled reports whether the watcher should run (default: true).
func (c *UserConfig) WatchEnabled() bool {
	if c.Watch.Enabled == nil {
		return true
	}
	return *c.Watch.Enabled
}

// Dir returns the directory holding config.toml.
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return ExpandTilde(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, UserConfigFileName), nil
}

// Load reads the user configuration from the default location.
// See LoadFile for the error contract.
func Load() (*UserConfig, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads the user configuration from path. A missing file is not an
// error. A parse error is returned together with the defaults so the caller
// can log it and carry on.
func LoadFile(path string) (*UserConfig, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	var fileCfg UserConfig
	if _, err := toml.DecodeFile(path, &fileCfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}

	applyDefaults(&fileCfg, cfg)
	return &fileCfg, nil
}

// applyDefaults fills unset values of c from def.
func applyDefaults(c, def *UserConfig) {
	if c.Logs.Level == "" {
		c.Logs.Level = def.Logs.Level
	}
	if c.Logs.Format == "" {
		c.Logs.Format = def.Logs.Format
	}
	if c.Logs.MaxSizeMB <= 0 {
		c.Logs.MaxSizeMB = def.Logs.MaxSizeMB
	}
	if c.Logs.MaxBackups <= 0 {
		c.Logs.MaxBackups = def.Logs.MaxBackups
	}
	if c.Logs.MaxAgeDays <= 0 {
		c.Logs.MaxAgeDays = def.Logs.MaxAgeDays
	}
	if c.Logs.Dir != "" {
		c.Logs.Dir = ExpandTilde(c.Logs.Dir)
	}
	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = def.Watch.DebounceMS
	}
	for i, p := range c.Desktop.ConfigPaths {
		c.Desktop.ConfigPaths[i] = ExpandTilde(p)
	}
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

const exampleConfig = `# mcp-easy-copy configuration
# This file is read once on startup.

# Extra locations of claude_desktop_config.json, searched before the
# built-in macOS, Linux and Windows locations. First existing file wins.
# [desktop]
# config_paths = ["~/dotfiles/claude_desktop_config.json"]

# Diagnostic logging. Logs always go to stderr; set dir to also keep a
# rotated log file.
[logs]
level = "info"
# dir = "~/.mcp-easy-copy"
# format = "json"
# max_size_mb = 10
# max_backups = 5
# max_age_days = 10
# compress = false

# Notify connected clients when the desktop config file changes.
[watch]
enabled = true
debounce_ms = 100
`

// CreateExampleConfig creates an example config file if none exists.
// It returns the path and whether a file was written.
func CreateExampleConfig() (string, bool, error) {
	configPath, err := GetUserConfigPath()
	if err != nil {
		return "", false, err
	}

	// Don't overwrite existing config
	if _, err := os.Stat(configPath); err == nil {
		return configPath, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return configPath, false, fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		return configPath, false, fmt.Errorf("write example config: %w", err)
	}
	return configPath, true, nil
}
