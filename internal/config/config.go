// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for trends-tui.
//
// Configuration is TOML with sensible defaults and environment variable
// overrides, loaded from ~/.trends-tui/config.toml.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// DefaultBaseURL is the backend used when neither the config file nor the
// environment names one.
const DefaultBaseURL = "https://rag-poc-8css.onrender.com"

// Config represents the complete trends-tui configuration.
type Config struct {
	Version string `toml:"version"`

	API     APIConfig     `toml:"api"`
	UI      UIConfig      `toml:"ui"`
	Audio   AudioConfig   `toml:"audio"`
	Logging LoggingConfig `toml:"logging"`
}

// APIConfig contains backend transport configuration.
type APIConfig struct {
	// BaseURL is the backend root; endpoint paths are appended to it.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs caps a single request round trip. Assistant answers can
	// take a while to generate, so the default is generous.
	TimeoutSecs int `toml:"timeout_secs"`
}

// UIConfig contains presentation configuration.
type UIConfig struct {
	// Locale selects the message catalog: "ar" (default) or "en".
	Locale string `toml:"locale"`
	// Theme selects the color theme for the TUI.
	Theme string `toml:"theme"`
	// Markdown enables glamour rendering of assistant replies.
	Markdown bool `toml:"markdown"`
}

// AudioConfig contains voice capture and playback configuration.
type AudioConfig struct {
	// FFmpegPath etc. override PATH lookup for the external audio tools.
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFplayPath  string `toml:"ffplay_path"`
	FFprobePath string `toml:"ffprobe_path"`
	// InputDevice names the capture device passed to ffmpeg ("" = default).
	InputDevice string `toml:"input_device"`
	// AutoplayReplies plays each newly arrived voice reply once.
	AutoplayReplies bool `toml:"autoplay_replies"`
}

// LoggingConfig controls the diagnostic log file.
type LoggingConfig struct {
	Level string `toml:"level"`
	// Path overrides the default ~/.trends-tui/trends-tui.log location.
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS AND PATHS
// =============================================================================

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:     DefaultBaseURL,
			TimeoutSecs: 120,
		},
		UI: UIConfig{
			Locale:   "ar",
			Theme:    "dark",
			Markdown: true,
		},
		Audio: AudioConfig{
			AutoplayReplies: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the trends-tui configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".trends-tui"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// LogPath resolves the log file location for this configuration.
func (c *Config) LogPath() (string, error) {
	if c.Logging.Path != "" {
		return c.Logging.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "trends-tui.log"), nil
}

// SessionDir returns the directory backing session-scoped storage.
func SessionDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session"), nil
}

// =============================================================================
// LOAD AND SAVE
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse TOML config: %w", err)
	}
	return nil
}

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ValidationError{Field: "api.base_url", Message: "must not be empty"}
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ValidationError{Field: "api.base_url", Message: "must be an http(s) URL"}
	}
	if c.API.TimeoutSecs <= 0 {
		return ValidationError{Field: "api.timeout_secs", Message: "must be positive"}
	}
	switch c.UI.Locale {
	case "ar", "en":
	default:
		return ValidationError{Field: "ui.locale", Message: `must be "ar" or "en"`}
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - TRENDS_API_BASE_URL: overrides api.base_url
//   - TRENDS_API_TIMEOUT_SECS: overrides api.timeout_secs
//   - TRENDS_LOCALE: overrides ui.locale
//   - TRENDS_LOG_LEVEL: overrides logging.level
//   - TRENDS_AUTOPLAY: set to "1"/"true" or "0"/"false"
func (c *Config) ApplyEnvOverrides() {
	if base := os.Getenv("TRENDS_API_BASE_URL"); base != "" {
		c.API.BaseURL = strings.TrimRight(base, "/")
	}

	if secs := os.Getenv("TRENDS_API_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			c.API.TimeoutSecs = n
		}
	}

	if locale := os.Getenv("TRENDS_LOCALE"); locale != "" {
		c.UI.Locale = strings.ToLower(locale)
	}

	if level := os.Getenv("TRENDS_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if autoplay := os.Getenv("TRENDS_AUTOPLAY"); autoplay != "" {
		c.Audio.AutoplayReplies = autoplay == "1" || strings.ToLower(autoplay) == "true"
	}
}
