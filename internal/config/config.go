// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLogLevel       = "info"
	DefaultMarkdownMarker = ".md"
	DefaultRecentLimit    = 10
)

// Config holds all application configuration paths and user preferences
type Config struct {
	HomeDir      string
	SaturnDir    string
	DatabasePath string
	LogDir       string
	ConfigPath   string

	Preferences
}

// Preferences are the user-editable values read from config.yaml
type Preferences struct {
	LogLevel       string `yaml:"log_level"`
	MarkdownMarker string `yaml:"markdown_marker"`
	RecentLimit    int    `yaml:"recent_limit"`
}

// Load creates a Config instance with resolved paths under the user's home
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(home)
}

// LoadFrom creates a Config rooted at home and overlays config.yaml if present
func LoadFrom(home string) (*Config, error) {
	saturnDir := filepath.Join(home, ".saturn")
	logDir := filepath.Join(saturnDir, "logs")

	// Ensure directories exist
	for _, dir := range []string{saturnDir, logDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		HomeDir:      home,
		SaturnDir:    saturnDir,
		DatabasePath: filepath.Join(saturnDir, "saturn.db"),
		LogDir:       logDir,
		ConfigPath:   filepath.Join(saturnDir, "config.yaml"),
		Preferences: Preferences{
			LogLevel:       DefaultLogLevel,
			MarkdownMarker: DefaultMarkdownMarker,
			RecentLimit:    DefaultRecentLimit,
		},
	}

	if err := cfg.loadPreferences(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadPreferences overlays config.yaml onto the defaults
func (c *Config) loadPreferences() error {
	data, err := os.ReadFile(c.ConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var prefs Preferences
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return fmt.Errorf("parse %s: %w", c.ConfigPath, err)
	}

	if prefs.LogLevel != "" {
		c.LogLevel = prefs.LogLevel
	}
	if prefs.MarkdownMarker != "" {
		c.MarkdownMarker = prefs.MarkdownMarker
	}
	if prefs.RecentLimit > 0 {
		c.RecentLimit = prefs.RecentLimit
	}
	return nil
}

// LogPath returns the path of the application log file
func (c *Config) LogPath() string {
	return filepath.Join(c.LogDir, "saturn.log")
}
