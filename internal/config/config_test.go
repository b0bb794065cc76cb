// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.API.TimeoutSecs <= 0 {
		t.Errorf("TimeoutSecs = %d, want positive", cfg.API.TimeoutSecs)
	}
	if cfg.UI.Locale != "ar" {
		t.Errorf("Locale = %q, want %q", cfg.UI.Locale, "ar")
	}
	if !cfg.Audio.AutoplayReplies {
		t.Error("AutoplayReplies should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
version = "1.0"

[api]
base_url = "http://localhost:9000"
timeout_secs = 30

[ui]
locale = "en"
markdown = false

[audio]
autoplay_replies = false

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		t.Fatalf("LoadTOML: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:9000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d", cfg.API.TimeoutSecs)
	}
	if cfg.UI.Locale != "en" {
		t.Errorf("Locale = %q", cfg.UI.Locale)
	}
	if cfg.Audio.AutoplayReplies {
		t.Error("AutoplayReplies should be overridden to false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestLoadTOMLPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\nlocale = \"en\"\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		t.Fatalf("LoadTOML: %v", err)
	}
	if cfg.UI.Locale != "en" {
		t.Errorf("Locale = %q", cfg.UI.Locale)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL should keep default, got %q", cfg.API.BaseURL)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("TRENDS_API_BASE_URL", "https://staging.example.com/")
	t.Setenv("TRENDS_API_TIMEOUT_SECS", "45")
	t.Setenv("TRENDS_LOCALE", "EN")
	t.Setenv("TRENDS_AUTOPLAY", "false")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "https://staging.example.com" {
		t.Errorf("BaseURL = %q, want trailing slash stripped", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 45 {
		t.Errorf("TimeoutSecs = %d", cfg.API.TimeoutSecs)
	}
	if cfg.UI.Locale != "en" {
		t.Errorf("Locale = %q", cfg.UI.Locale)
	}
	if cfg.Audio.AutoplayReplies {
		t.Error("AutoplayReplies should be disabled via env")
	}
}

func TestApplyEnvOverridesIgnoresBadTimeout(t *testing.T) {
	t.Setenv("TRENDS_API_TIMEOUT_SECS", "not-a-number")

	cfg := Default()
	want := cfg.API.TimeoutSecs
	cfg.ApplyEnvOverrides()
	if cfg.API.TimeoutSecs != want {
		t.Errorf("TimeoutSecs = %d, want unchanged %d", cfg.API.TimeoutSecs, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, true},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://x" }, true},
		{"no host", func(c *Config) { c.API.BaseURL = "https://" }, true},
		{"zero timeout", func(c *Config) { c.API.TimeoutSecs = 0 }, true},
		{"bad locale", func(c *Config) { c.UI.Locale = "fr" }, true},
		{"en locale", func(c *Config) { c.UI.Locale = "en" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfg := Default()
	cfg.UI.Locale = "en"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	loaded := Default()
	if err := LoadTOML(loaded, path); err != nil {
		t.Fatalf("LoadTOML: %v", err)
	}
	if loaded.UI.Locale != "en" {
		t.Errorf("Locale = %q after round trip", loaded.UI.Locale)
	}
}
