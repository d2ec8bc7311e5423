package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path (skipped when empty) and applies
// CLI flag overrides on top.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolvedPath returns the file Load would read, or "" if none exists.
func ResolvedPath() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	return findConfigFile()
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "KissAnaglyph")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "KissAnaglyph")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "kiss-anaglyph")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "kiss-anaglyph")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
