// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"  DEBUG  ", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "app.log")

	if err := Init(path, "debug"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	L().Info().Str("endpoint", "/chat").Msg("request sent")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "request sent") {
		t.Errorf("log file missing entry: %q", string(data))
	}
	if !strings.Contains(string(data), "/chat") {
		t.Errorf("log file missing context field: %q", string(data))
	}
}

func TestBeforeInitIsNop(t *testing.T) {
	Close()
	// Must not panic or write anywhere.
	L().Error().Msg("dropped")
}
