// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide structured logger.
//
// The TUI owns stdout and stderr, so diagnostics go to a log file under the
// config directory instead. Every boundary failure (transport, storage,
// audio decode) is logged here with enough context to identify the endpoint
// or storage key involved; nothing is ever logged to the terminal while the
// chat surface is up.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.Mutex
	logger = zerolog.Nop()
	closer io.Closer
)

// Init opens the log file and installs the package logger. Level is one of
// "debug", "info", "warn", "error"; unknown values fall back to "info".
// A failure to open the file leaves the no-op logger in place: logging must
// never prevent the chat surface from starting.
func Init(path, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}

	lvl := parseLevel(level)
	logger = zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	closer = f
	return nil
}

// L returns the process logger. Safe before Init; returns a no-op logger.
func L() *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	l := logger
	return &l
}

// Close flushes and closes the log file, if one was opened.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		closer.Close()
		closer = nil
		logger = zerolog.Nop()
	}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
