// Package config loads coachkit configuration: defaults, then the YAML
// config file, then environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all tunable settings.
type Config struct {
	DBPath      string `yaml:"db_path"`
	WindowDays  int    `yaml:"window_days"`
	GeminiModel string `yaml:"gemini_model"`
	LogLevel    string `yaml:"log_level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DBPath:      filepath.Join(home, ".coachkit", "coach.db"),
		WindowDays:  14,
		GeminiModel: "gemini-2.0-flash",
		LogLevel:    "info",
	}
}

// DefaultPath is the config file location unless overridden.
func DefaultPath() string {
	if env := os.Getenv("COACHKIT_CONFIG"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".coachkit", "config.yaml")
}

// Load reads the config file at path (missing file is fine) and applies
// environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COACHKIT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("COACHKIT_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WindowDays = n
		}
	}
	if v := os.Getenv("COACHKIT_GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("COACHKIT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
